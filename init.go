package main

import (
	"context"
	"fmt"

	"github.com/tournevent/ongkir/internal/config"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

// initTracer returns a nil tracer when tracing is disabled; the client then
// falls back to a no-op tracer.
func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
}

func newClient(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*rajaongkir.Client, error) {
	client, err := rajaongkir.New(cfg.ClientConfig(), logger, tracer)
	if err != nil {
		return nil, fmt.Errorf("creating RajaOngkir client: %w", err)
	}
	return client, nil
}
