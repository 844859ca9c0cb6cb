package maintenance

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName - имя сервиса в grpc.health.v1
const HealthServiceName = "mechanical.Maintenance"

const probeTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker публикует состояние БД через gRPC health и HTTP /healthz
type HealthChecker struct {
	pinger   Pinger
	server   *health.Server
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthChecker(pinger Pinger, interval time.Duration, logger *slog.Logger) *HealthChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthChecker{
		pinger:   pinger,
		server:   health.NewServer(),
		interval: interval,
		logger:   logger,
	}
}

func (h *HealthChecker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Probe проверяет БД и выставляет статус обоих имён: "" и HealthServiceName
func (h *HealthChecker) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := h.pinger.Ping(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("database health probe failed", slog.Any("error", err))
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(HealthServiceName, status)
	return err
}

// Run опрашивает БД до отмены контекста, затем переводит сервис в NOT_SERVING
func (h *HealthChecker) Run(ctx context.Context) {
	_ = h.Probe(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			_ = h.Probe(ctx)
		}
	}
}

// Status возвращает текущий статус, который видят gRPC-клиенты
func (h *HealthChecker) Status(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: HealthServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.GetStatus()
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Probe(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
