// Package grpc is the thin front end of the profiles service: a gRPC server
// with a hand-declared service descriptor and JSON-encoded messages. It
// authenticates callers by token, validates requests and maps service
// errors to status codes; all decisions stay in the services.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/services"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
)

// Identity is the subset of services.IdentityService used by the handlers.
type Identity interface {
	CreateUser(ctx context.Context, email, name, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error)
}

// Tokens is the subset of services.TokenService used by the handlers.
type Tokens interface {
	Issue(ctx context.Context, email, password string) (*models.AuthToken, error)
	Resolve(ctx context.Context, key string) (*models.User, error)
	Revoke(ctx context.Context, userID string) error
}

// Feed is the subset of services.FeedService used by the handlers.
type Feed interface {
	Create(ctx context.Context, requester *models.User, in services.FeedInput) (*models.FeedItem, error)
	Get(ctx context.Context, requester *models.User, id string) (*models.FeedItem, error)
	List(ctx context.Context, requester *models.User, ownerID string) ([]*models.FeedItem, error)
	Update(ctx context.Context, requester *models.User, id, statusText string) (*models.FeedItem, error)
	Delete(ctx context.Context, requester *models.User, id string) error
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	identity        Identity
	tokens          Tokens
	feed            Feed
	validator       *validator.Validate
	logger          logging.Logger
}

var _ ProfilesServer = (*Server)(nil)

func NewServer(address string, shutdownTimeout time.Duration, l logging.Logger, identity Identity, tokens Tokens, feed Feed) *Server {
	return &Server{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		identity:        identity,
		tokens:          tokens,
		feed:            feed,
		validator:       newValidator(),
		logger:          l.With("module", "grpc_server"),
	}
}

// newGRPCServer builds the grpc.Server with the interceptor chain and the
// service registered. Interceptors run outermost first: logging sees the
// final status code.
func (s *Server) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.errorInterceptor,
		s.authInterceptor,
	))
	RegisterProfilesServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
// In-flight requests get shutdownTimeout to finish before the server is
// stopped hard.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newGRPCServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(s.shutdownTimeout):
			s.logger.Warn(ctx, "graceful stop timed out, closing connections")
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
