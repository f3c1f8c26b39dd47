package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func incoming(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestTokenFromMetadata(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"no metadata", context.Background(), ""},
		{"no header", incoming("x-other", "v"), ""},
		{"scheme", incoming("authorization", "Token abc123"), "abc123"},
		{"scheme case", incoming("authorization", "token  abc123 "), "abc123"},
		{"bare key", incoming("authorization", "abc123"), "abc123"},
		{"other scheme", incoming("authorization", "Bearer abc123"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenFromMetadata(tt.ctx))
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: email", errInvalidRequest), codes.InvalidArgument},
		{common.ErrInvalidIdentity, codes.InvalidArgument},
		{common.ErrWeakCredential, codes.InvalidArgument},
		{common.ErrInvalidStatusText, codes.InvalidArgument},
		{common.ErrDuplicateIdentity, codes.AlreadyExists},
		{common.ErrInvalidCredentials, codes.Unauthenticated},
		{common.ErrInvalidToken, codes.Unauthenticated},
		{fmt.Errorf("wrapped: %w", common.ErrorNotFound), codes.NotFound},
		{common.ErrPermissionDenied, codes.PermissionDenied},
		{errors.New("db error: connection refused"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorCode(tt.err), tt.err.Error())
	}
}

func passThrough(ctx context.Context, req any) (any, error) {
	return userFromContext(ctx), nil
}

func TestAuthInterceptor(t *testing.T) {
	s := newTestServer()
	s.tokens.On("Resolve", "good").Return(alice, nil)
	s.tokens.On("Resolve", "stale").Return(nil, common.ErrInvalidToken)
	s.tokens.On("Resolve", "broken").Return(nil, errors.New("db down"))

	private := &grpc.UnaryServerInfo{FullMethod: MethodUpdateProfile}

	t.Run("public method needs no token", func(t *testing.T) {
		resp, err := s.authInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: MethodLogin}, passThrough)
		require.NoError(t, err)
		assert.Nil(t, resp)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := s.authInterceptor(context.Background(), nil, private, passThrough)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := s.authInterceptor(incoming("authorization", "Token stale"), nil, private, passThrough)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		_, err := s.authInterceptor(incoming("authorization", "Token broken"), nil, private, passThrough)
		assert.Equal(t, codes.Internal, status.Code(err))
		assert.NotContains(t, err.Error(), "db down")
	})

	t.Run("valid token attaches user", func(t *testing.T) {
		resp, err := s.authInterceptor(incoming("authorization", "Token good"), nil, private, passThrough)
		require.NoError(t, err)
		assert.Same(t, alice, resp)
	})
}

func TestErrorInterceptor(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: MethodGetFeedItem}

	failWith := func(err error) grpc.UnaryHandler {
		return func(context.Context, any) (any, error) { return nil, err }
	}

	_, err := s.errorInterceptor(context.Background(), nil, info, failWith(common.ErrorNotFound))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.errorInterceptor(context.Background(), nil, info, failWith(status.Error(codes.Unauthenticated, "missing token")))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = s.errorInterceptor(context.Background(), nil, info, failWith(errors.New("db error: secret detail")))
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, err.Error(), "secret detail")

	resp, err := s.errorInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
