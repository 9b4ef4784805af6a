package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/auth"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/tlsutil"
)

// ServerConfig controls optional server features.
type ServerConfig struct {
	ServiceName string
	// JWT enables the auth interceptor when set.
	JWT          *auth.JWTService
	CertFile     string
	KeyFile      string
	ClientCAFile string
	Reflection   bool
}

// MethodRoles lists the roles allowed to call each guarded method. Methods
// not listed only need a valid token.
var MethodRoles = map[string][]string{
	MethodCreateDecision:         {auth.RoleUnderwriter, auth.RoleAdmin},
	MethodUpdateDecision:         {auth.RoleUnderwriter, auth.RoleAdmin},
	MethodMigrateLegacyDecisions: {auth.RoleAdmin},
}

// Server wraps a gRPC server with the underwriting handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(handler UnderwritingServiceServer, logger *slog.Logger, cfg ServerConfig) (*Server, error) {
	var serverOpts []grpc.ServerOption

	if cfg.JWT != nil {
		authInterceptor := auth.UnaryAuthInterceptor(cfg.JWT, []string{
			"/grpc.health.v1.Health/Check",
			"/grpc.health.v1.Health/Watch",
		}, MethodRoles)
		serverOpts = append(serverOpts, grpc.UnaryInterceptor(authInterceptor))
	} else {
		logger.Warn("gRPC auth disabled")
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(cfg.CertFile, cfg.KeyFile, cfg.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", cfg.CertFile, "mtls", cfg.ClientCAFile != "")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(gs)
	}

	RegisterUnderwritingServiceServer(gs, handler)

	return &Server{
		gs:     gs,
		health: healthSrv,
		logger: logger,
	}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}
