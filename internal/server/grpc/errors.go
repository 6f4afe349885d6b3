package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/sanitizer/internal/common"
)

// toStatus maps service errors to gRPC status codes. Unknown errors are
// logged and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, common.ErrInvalidRequest):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrDeviceNotFound),
		errors.Is(err, common.ErrJobNotFound),
		errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrDeviceBusy):
		code = codes.Aborted
	case errors.Is(err, common.ErrJobFinished),
		errors.Is(err, common.ErrNotEligible):
		code = codes.FailedPrecondition
	case errors.Is(err, common.ErrCertificateTampered):
		code = codes.DataLoss
	case errors.Is(err, common.ErrSigningFailed):
		s.logger.Warn(ctx, "certificate signing failed", "error", err)
		code = codes.Unavailable
	case errors.Is(err, common.ErrPersistence):
		s.logger.Error(ctx, "storage failure", "error", err)
		code = codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
