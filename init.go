package main

import (
	"context"
	"fmt"

	"github.com/tournevent/easypost/internal/config"
	"github.com/tournevent/easypost/internal/telemetry"
	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/easypost"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

// env bundles the wired-up dependencies a command needs.
type env struct {
	cfg     *config.Config
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
	api     *easypost.API

	tracerShutdown func(context.Context) error
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

// setup loads configuration and wires logger, tracer, metrics, transport,
// and the resource services.
func setup(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var tracer trace.Tracer
	tracerShutdown := func(context.Context) error { return nil }
	if cfg.OTELEnabled {
		var shutdown func(context.Context) error
		tracer, shutdown, err = telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer")
		} else {
			tracerShutdown = shutdown
		}
	}

	metrics := telemetry.NewMetrics()

	transport := client.NewHTTPClient(client.HTTPClientConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
		Logger:  logger,
		Tracer:  tracer,
		Metrics: metrics,
	})

	return &env{
		cfg:            cfg,
		logger:         logger,
		metrics:        metrics,
		api:            easypost.New(transport, logger),
		tracerShutdown: tracerShutdown,
	}, nil
}

func (e *env) close(ctx context.Context) {
	if e.tracerShutdown != nil {
		_ = e.tracerShutdown(ctx)
	}
	_ = e.logger.Sync()
}

// serviceFor maps a CLI type name onto the matching resource service.
func serviceFor(api *easypost.API, name string) (*resource.Service, error) {
	switch name {
	case "address", "addresses":
		return api.Addresses.Service, nil
	case "parcel", "parcels":
		return api.Parcels.Service, nil
	case "shipment", "shipments":
		return api.Shipments.Service, nil
	case "tracker", "trackers":
		return api.Trackers.Service, nil
	case "webhook", "webhooks":
		return api.Webhooks.Service, nil
	case "report", "reports":
		return api.Reports.Service, nil
	}
	return nil, fmt.Errorf("unknown resource type %q", name)
}
