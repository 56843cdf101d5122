package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/audit"
)

const requestIDKey = "x-request-id"

var (
	grpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"service", "method", "code"},
	)

	grpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1},
		},
		[]string{"service", "method"},
	)

	// dependencyUp mirrors the last health refresh, one series per check.
	dependencyUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "baloncesto_dependency_up",
			Help: "Whether a dependency passed its last health check (1) or not (0)",
		},
		[]string{"dependency"},
	)
)

// splitMethod turns "/grpc.health.v1.Health/Check" into its service and
// method parts.
func splitMethod(fullMethod string) (string, string) {
	name := strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "unknown", name
}

// requestID returns the caller's x-request-id or a fresh one.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

// observeUnary tags the request with an id, records metrics and writes one
// log line per call. Health probes are logged at trace level.
func observeUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := requestID(ctx)
		ctx = audit.WithRequestContext(ctx, id, "", "")
		if err := grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, id)); err != nil {
			log.Debug().Err(err).Msg("Failed to set request ID header")
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		service, method := splitMethod(info.FullMethod)
		code := status.Code(err)
		grpcRequestsTotal.WithLabelValues(service, method, code.String()).Inc()
		grpcRequestDuration.WithLabelValues(service, method).Observe(elapsed.Seconds())

		event := log.Trace()
		switch {
		case err != nil && code != codes.NotFound:
			event = log.Error().Err(err)
		case !strings.HasPrefix(service, "grpc.health"):
			event = log.Debug()
		}
		event.
			Str("service", service).
			Str("method", method).
			Str("code", code.String()).
			Str("request_id", id).
			Dur("duration", elapsed).
			Msg("gRPC request completed")

		return resp, err
	}
}

// recoverUnary converts a handler panic into codes.Internal.
func recoverUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("method", info.FullMethod).
					Interface("panic", r).
					Msg("Panic recovered in gRPC handler")
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
