package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// errInvalidRequest marks request validation failures.
var errInvalidRequest = errors.New("invalid request")

// publicMethods need no token.
var publicMethods = map[string]bool{
	MethodRegister: true,
	MethodLogin:    true,
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// userFromContext returns the caller resolved by the auth interceptor.
func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// tokenFromMetadata extracts the key from "authorization: Token <key>".
// A bare key is accepted as well.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}

	v := strings.TrimSpace(values[0])
	if scheme, key, found := strings.Cut(v, " "); found {
		if !strings.EqualFold(scheme, common.AuthorizationScheme) {
			return ""
		}
		return strings.TrimSpace(key)
	}
	return v
}

func (s *Server) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	key := tokenFromMetadata(ctx)
	if key == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	user, err := s.tokens.Resolve(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		s.logger.Error(ctx, "token resolve failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return handler(withUser(ctx, user), req)
}

func (s *Server) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}

	if _, ok := status.FromError(err); ok {
		return nil, err
	}

	code := errorCode(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return nil, status.Error(code, err.Error())
}

func (s *Server) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request completed",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, common.ErrInvalidIdentity),
		errors.Is(err, common.ErrWeakCredential),
		errors.Is(err, common.ErrInvalidStatusText):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrDuplicateIdentity):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrPermissionDenied):
		return codes.PermissionDenied
	default:
		return codes.Internal
	}
}
