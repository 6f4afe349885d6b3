package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
)

func TestToStatus(t *testing.T) {
	s := &GRPCServer{logger: logging.Nop()}

	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrInvalidCredentials, codes.Unauthenticated},
		{common.ErrForbidden, codes.PermissionDenied},
		{fmt.Errorf("passes: %w", common.ErrInvalidRequest), codes.InvalidArgument},
		{common.ErrDeviceNotFound, codes.NotFound},
		{common.ErrJobNotFound, codes.NotFound},
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{fmt.Errorf("dev-1: %w", common.ErrDeviceBusy), codes.Aborted},
		{common.ErrJobFinished, codes.FailedPrecondition},
		{common.ErrNotEligible, codes.FailedPrecondition},
		{common.ErrCertificateTampered, codes.DataLoss},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
		{fmt.Errorf("%w: job.started", common.ErrPersistence), codes.Unavailable},
		{fmt.Errorf("%w: hsm offline", common.ErrSigningFailed), codes.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := status.Code(s.toStatus(context.Background(), tt.err))
			if got != tt.want {
				t.Fatalf("toStatus(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestToStatus_SigningFailureKeepsMessage(t *testing.T) {
	s := &GRPCServer{logger: logging.Nop()}
	st, _ := status.FromError(s.toStatus(context.Background(), fmt.Errorf("%w: hsm offline", common.ErrSigningFailed)))
	if st.Code() != codes.Unavailable || !strings.Contains(st.Message(), "hsm offline") {
		t.Fatalf("status = %v %q", st.Code(), st.Message())
	}
}

func TestToStatus_HidesInternalDetail(t *testing.T) {
	s := &GRPCServer{logger: logging.Nop()}
	st, _ := status.FromError(s.toStatus(context.Background(), errors.New("dsn=postgres://secret")))
	if st.Message() != "internal error" {
		t.Fatalf("message = %q", st.Message())
	}
}
