package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// protected maps each guarded RPC to the permission it needs. RPCs not
// listed here (Authenticate, Ping, health checks) need no token.
var protected = map[string]auth.Action{
	api.Sanitizer_ListDevices_FullMethodName:      auth.ActionListDevices,
	api.Sanitizer_ScanDevices_FullMethodName:      auth.ActionScanDevices,
	api.Sanitizer_SubmitJob_FullMethodName:        auth.ActionSubmitJob,
	api.Sanitizer_GetStatus_FullMethodName:        auth.ActionGetStatus,
	api.Sanitizer_ListJobs_FullMethodName:         auth.ActionListJobs,
	api.Sanitizer_CancelJob_FullMethodName:        auth.ActionCancelJob,
	api.Sanitizer_GetCertificate_FullMethodName:   auth.ActionGetCertificate,
	api.Sanitizer_IssueCertificate_FullMethodName: auth.ActionIssueCertificate,
	api.Sanitizer_ListAudit_FullMethodName:        auth.ActionListAudit,
	api.Sanitizer_CreateUser_FullMethodName:       auth.ActionCreateUser,
	api.Sanitizer_DeactivateUser_FullMethodName:   auth.ActionDeactivateUser,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	action, ok := protected[info.FullMethod]
	if !ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.gateway.Authorize(ctx, accessToken, action)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrForbidden):
			s.logger.Warn(ctx, "permission denied", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.PermissionDenied, err.Error())
		case errors.Is(err, common.ErrTokenExpired):
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		case errors.Is(err, common.ErrAccountDisabled):
			s.logger.Warn(ctx, "token of deactivated account", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, common.ErrAccountDisabled.Error())
		case errors.Is(err, common.ErrPersistence):
			return nil, s.toStatus(ctx, err)
		default:
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}
	}

	ctx = context.WithValue(ctx, claimsKey, claims)
	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}

// claimsFrom returns the caller's verified claims, set by the interceptor.
func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

func callerName(ctx context.Context) string {
	if c := claimsFrom(ctx); c != nil {
		return c.UserName
	}
	return ""
}
