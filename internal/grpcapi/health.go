// Package grpcapi exposes the standard grpc.health.v1 service so
// orchestrators can tell whether the kiosk's store is reachable.
package grpcapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultInterval is how often the store is pinged.
const DefaultInterval = 10 * time.Second

// pingTimeout bounds a single store ping.
const pingTimeout = 2 * time.Second

// Pinger is satisfied by the memory and sqlite stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Logger   *slog.Logger
	Addr     string
	Store    Pinger
	Interval time.Duration
}

// Server serves health checks for the empty service name and for
// ServiceName. Status follows the store's Ping.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
	addr       string
	store      Pinger
	interval   time.Duration
}

// ServiceName is the health service name reported alongside "".
const ServiceName = "attendance.Kiosk"

func NewServer(d Dependencies) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Interval <= 0 {
		d.Interval = DefaultInterval
	}

	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{
		grpcServer: gs,
		health:     hs,
		logger:     d.Logger,
		addr:       d.Addr,
		store:      d.Store,
		interval:   d.Interval,
	}
}

// Check pings the store once and records the result.
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.store != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := s.store.Ping(ctx)
		cancel()
		if err != nil {
			s.logger.Warn("store ping failed", "err", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch refreshes the serving status every interval until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	s.Check(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Check(ctx)
		}
	}
}

// Serve accepts connections on lis. It returns nil after Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc listening", "addr", lis.Addr().String())
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
