package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"

	"github.com/kbukum/oauth2http/adapter"
	"github.com/kbukum/oauth2http/logger"
	"github.com/kbukum/oauth2http/nethttp"
	"github.com/kbukum/oauth2http/observability"
	"github.com/kbukum/oauth2http/transport"
	"github.com/kbukum/oauth2http/version"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *Config
	log    *logger.Logger
	client *adapter.Client
	oauth  *oauth2.Config

	shutdown []func(context.Context) error
}

func newApp(ctx context.Context, cfg *Config, logOut io.Writer) (*app, error) {
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, logOut)
	logger.SetGlobalLogger(log)

	a := &app{cfg: cfg, log: log, oauth: cfg.OAuth2.OAuth2()}

	base, err := nethttp.New(cfg.Transport)
	if err != nil {
		return nil, err
	}

	middlewares := []transport.Middleware{transport.WithLogging(log.WithComponent("transport"))}
	if cfg.Telemetry.Enabled {
		mw, err := a.initTelemetry(ctx)
		if err != nil {
			for _, fn := range a.shutdown {
				_ = fn(ctx)
			}
			_ = base.Close()
			return nil, err
		}
		middlewares = append(middlewares, mw...)
	}

	a.client = adapter.New(transport.Chain(middlewares...)(base),
		adapter.WithName(cfg.Name),
		adapter.WithLogger(log),
	)
	return a, nil
}

func (a *app) initTelemetry(ctx context.Context) ([]transport.Middleware, error) {
	tc := observability.DefaultTracerConfig(a.cfg.Name)
	tc.ServiceVersion = version.Short()
	tc.Environment = a.cfg.Environment
	tc.Endpoint = a.cfg.Telemetry.Endpoint
	tc.Insecure = a.cfg.Telemetry.Insecure
	tc.SampleRate = a.cfg.Telemetry.SampleRate
	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}
	a.shutdown = append(a.shutdown, tp.Shutdown)

	mc := observability.DefaultMeterConfig(a.cfg.Name)
	mc.ServiceVersion = tc.ServiceVersion
	mc.Environment = tc.Environment
	mc.Endpoint = tc.Endpoint
	mc.Insecure = tc.Insecure
	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return nil, err
	}
	a.shutdown = append(a.shutdown, mp.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(a.cfg.Name))
	if err != nil {
		return nil, err
	}

	return []transport.Middleware{
		transport.WithTracing(a.cfg.Name),
		transport.WithMetrics(metrics),
	}, nil
}

// Context returns ctx carrying the adapter's HTTP client for x/oauth2.
func (a *app) Context(ctx context.Context) context.Context {
	return a.client.Context(ctx)
}

// Close flushes telemetry and releases idle connections.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	for _, fn := range a.shutdown {
		errs = append(errs, fn(ctx))
	}
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
