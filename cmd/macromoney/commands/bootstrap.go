package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wonny/macromoney/internal/analysis"
	"github.com/wonny/macromoney/internal/embedding"
	"github.com/wonny/macromoney/internal/macroconfig"
	"github.com/wonny/macromoney/pkg/config"
	"github.com/wonny/macromoney/pkg/logger"
	"github.com/wonny/macromoney/pkg/metrics"
	"github.com/wonny/macromoney/pkg/redis"
	"github.com/wonny/macromoney/pkg/tracing"
)

// app holds everything a command needs to run analyses
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	taxonomy *macroconfig.Config
	metrics  *metrics.Registry
	redis    *redis.Client
	analyzer *analysis.Analyzer
}

// bootstrap loads config and wires the pipeline.
// logOut = nil uses the configured logger (stdout); CLI commands pass stderr.
func bootstrap(ctx context.Context, logOut io.Writer) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strategy != "" {
		if err := cfg.OverrideStrategy(strategy); err != nil {
			return nil, err
		}
	}
	if taxonomyFile != "" {
		cfg.TaxonomyFile = taxonomyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	var log *logger.Logger
	if logOut != nil {
		log = logger.NewWithOutput(logOut, cfg)
	} else {
		log = logger.New(cfg)
	}

	// 3. Tracing
	if err := tracing.Init(tracing.Options{Enabled: cfg.TracingEnabled, Version: version, Writer: logOut}); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// 4. Taxonomy
	taxonomy, err := macroconfig.LoadOrDefault(cfg.TaxonomyFile)
	if err != nil {
		shutdownTracing(log)
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	for _, w := range macroconfig.Warn(taxonomy) {
		log.WithFields(map[string]interface{}{"code": w.Code}).Warn(w.Message)
	}

	// 5. Redis (optional: embedding cache + distributed rate limit)
	rc, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without embedding cache")
		rc = redis.NewDisabled()
	}

	var reg *metrics.Registry
	if cfg.MetricsEnabled {
		reg = metrics.New()
	}

	// 6. Analyzer
	analyzer, err := analysis.NewFromConfig(ctx, cfg, taxonomy, embedding.Deps{
		Logger:  log,
		Metrics: reg,
		Redis:   rc,
	})
	if err != nil {
		rc.Close()
		shutdownTracing(log)
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		taxonomy: taxonomy,
		metrics:  reg,
		redis:    rc,
		analyzer: analyzer,
	}, nil
}

// health reports Redis reachability for /health
func (a *app) health(r *http.Request) (map[string]string, error) {
	components := map[string]string{
		"strategy": a.analyzer.Strategy(),
		"redis":    "disabled",
	}
	if !a.redis.Enabled() {
		return components, nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.redis.Ping(ctx); err != nil {
		components["redis"] = "down"
		return components, fmt.Errorf("redis: %w", err)
	}
	components["redis"] = "ok"
	return components, nil
}

func (a *app) close() {
	shutdownTracing(a.log)
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Redis close failed")
	}
}

// shutdownTracing flushes spans; every exit after tracing.Init goes through here
func shutdownTracing(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tracing.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Tracing shutdown failed")
	}
}
