// Package grpc serves the standard gRPC health and reflection services.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "baloncesto.v1.Backend"

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Server represents the gRPC server.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	config     *config.ServerConfig
	checks     map[string]Check
}

// NewServer creates a gRPC server exposing health and reflection.
func NewServer(cfg *config.ServerConfig, checks map[string]Check) *Server {
	unaryChain := grpc.ChainUnaryInterceptor(recoverUnary(), observeUnary())

	opts := []grpc.ServerOption{
		unaryChain,
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     15 * time.Minute,
			MaxConnectionAge:      30 * time.Minute,
			MaxConnectionAgeGrace: 5 * time.Minute,
			Time:                  5 * time.Minute,
			Timeout:               1 * time.Minute,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             1 * time.Minute,
			PermitWithoutStream: true,
		}),
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		config:     cfg,
		checks:     checks,
	}
}

// Start starts the gRPC server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.GRPCPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	log.Info().
		Int("port", s.config.GRPCPort).
		Str("address", addr).
		Msg("gRPC server starting")

	return s.grpcServer.Serve(listener)
}

// Serve serves on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	return s.grpcServer.Serve(listener)
}

// Refresh runs the dependency checks once and updates the health status.
func (s *Server) Refresh(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("Dependency health check failed")
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			dependencyUp.WithLabelValues(name).Set(0)
			continue
		}
		dependencyUp.WithLabelValues(name).Set(1)
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch refreshes the health status every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval/2)
			s.Refresh(checkCtx)
			cancel()
		}
	}
}

// Stop stops the gRPC server gracefully.
func (s *Server) Stop() {
	log.Info().Msg("gRPC server stopping...")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")
}
