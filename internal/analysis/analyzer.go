// Package analysis runs the headline → theme → severity → gate → rebalance pipeline.
package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wonny/macromoney/internal/classifier"
	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/gate"
	"github.com/wonny/macromoney/internal/macroconfig"
	"github.com/wonny/macromoney/internal/rebalance"
	"github.com/wonny/macromoney/internal/severity"
	"github.com/wonny/macromoney/pkg/logger"
	"github.com/wonny/macromoney/pkg/metrics"
	"github.com/wonny/macromoney/pkg/tracing"
)

// Reasons for outcomes that do not rebalance
const (
	ReasonMicro        = "micro-level event: no portfolio change required"
	ReasonBelowHorizon = "below horizon threshold"
	ReasonNoRule       = "no rebalance rule for theme"
	ReasonNoTheme      = "no macro theme identified"
	ReasonRebalanced   = "rebalanced on macro signal"
)

// Preparer is implemented by classifiers that warm a cache before serving
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Analyzer coordinates the four pipeline stages
// ⭐ SSOT: analyze() 진입점은 여기서만
type Analyzer struct {
	classifier classifier.Classifier
	scorer     severity.Scorer
	sentiment  *severity.Sentiment
	gate       *gate.HorizonGate
	engine     *rebalance.Engine
	limits     macroconfig.Limits

	metrics *metrics.Registry
	logger  *logger.Logger
}

// Options carries optional collaborators
type Options struct {
	Metrics *metrics.Registry
	Logger  *logger.Logger
}

// New builds an Analyzer around cls. The severity variant follows the classifier strategy.
func New(cfg *macroconfig.Config, cls classifier.Classifier, opts Options) (*Analyzer, error) {
	if cls == nil {
		return nil, fmt.Errorf("classifier is required")
	}

	scorer, err := severity.New(cls.Strategy(), cfg)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Analyzer{
		classifier: cls,
		scorer:     scorer,
		sentiment:  severity.NewSentiment(cfg),
		gate:       gate.New(cfg),
		engine:     rebalance.New(cfg),
		limits:     cfg.Limits,
		metrics:    opts.Metrics,
		logger:     log.WithComponent("analysis"),
	}, nil
}

// Strategy returns the classifier strategy in use
func (a *Analyzer) Strategy() string {
	return a.classifier.Strategy()
}

// Prepare warms the classifier (theme embeddings for the similarity strategy)
func (a *Analyzer) Prepare(ctx context.Context) error {
	if p, ok := a.classifier.(Preparer); ok {
		return p.Prepare(ctx)
	}
	return nil
}

// Validate checks presentation-layer inputs before any analysis runs
func (a *Analyzer) Validate(req contracts.AnalysisRequest) error {
	if strings.TrimSpace(req.Headline) == "" {
		return contracts.ErrEmptyHeadline
	}

	if err := req.Weights.Validate(); err != nil {
		return err
	}

	h := req.HorizonYears
	if math.IsNaN(h) || h <= 0 || h > a.limits.MaxHorizonYears {
		return fmt.Errorf("%w: %.2f years (must be in (0, %.0f])", contracts.ErrInvalidHorizon, h, a.limits.MaxHorizonYears)
	}

	c := req.Capital
	if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 || c < a.limits.MinCapital {
		return fmt.Errorf("%w: %.2f (must be > 0 and >= %.0f)", contracts.ErrInvalidCapital, c, a.limits.MinCapital)
	}

	return nil
}

// Analyze runs one headline through the pipeline.
// Irrelevant, micro and below-threshold outcomes return Rebalanced = nil and no error.
func (a *Analyzer) Analyze(ctx context.Context, req contracts.AnalysisRequest) (*contracts.AnalysisResult, error) {
	start := time.Now()
	strategy := a.classifier.Strategy()

	ctx, span := tracing.StartSpan(ctx, "analysis.analyze",
		attribute.String("strategy", strategy),
		attribute.Float64("horizon_years", req.HorizonYears),
	)
	defer span.End()

	if err := a.Validate(req); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	headline := strings.TrimSpace(req.Headline)
	result := &contracts.AnalysisResult{
		Strategy:      strategy,
		Headline:      headline,
		HorizonYears:  req.HorizonYears,
		Capital:       req.Capital,
		Current:       req.Weights.Clone(),
		CurrentValues: rebalance.Values(req.Weights, req.Capital),
		AnalyzedAt:    start,
	}

	// 1. Classify
	cls, err := a.classifier.Classify(ctx, headline)
	if err != nil {
		tracing.RecordError(span, err)
		a.logger.WithError(err).WithField("strategy", strategy).Error("Classification failed")
		return nil, fmt.Errorf("classify headline: %w", err)
	}
	result.Classification = cls
	result.Sentiment = a.sentiment.Score(headline)

	span.SetAttributes(
		attribute.String("tier", string(cls.Tier)),
		attribute.String("theme", cls.Theme.String()),
	)

	switch {
	case cls.Tier == contracts.TierMicro:
		result.Reason = ReasonMicro
		return a.finish(result, start), nil
	case !cls.IsActionable():
		// irrelevant, or macro without a theme
		result.Reason = cls.Reason
		if result.Reason == "" {
			result.Reason = ReasonNoTheme
		}
		return a.finish(result, start), nil
	}

	// 2. Severity
	result.Severity = a.scorer.Score(headline, cls, req.HorizonYears)

	// 3. Horizon gate
	result.Gate = a.gate.Evaluate(result.Severity, req.HorizonYears)
	if !result.Gate.Passed {
		result.Reason = fmt.Sprintf("%s (severity %.2f < %.0f for %.1f years)",
			ReasonBelowHorizon, result.Severity, result.Gate.Threshold, req.HorizonYears)
		return a.finish(result, start), nil
	}

	// 4. Rebalance
	intensity := severity.Intensity(result.Severity)
	rebalanced, err := a.engine.Rebalance(req.Weights, cls.Theme, intensity)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	result.Rebalanced = rebalanced
	result.RebalancedValues = rebalance.Values(rebalanced, req.Capital)
	if a.engine.HasRule(cls.Theme) {
		result.Reason = fmt.Sprintf("%s (%s at intensity %.2f)", ReasonRebalanced, cls.Theme, intensity)
	} else {
		result.Reason = fmt.Sprintf("%s %s", ReasonNoRule, cls.Theme)
	}

	return a.finish(result, start), nil
}

func (a *Analyzer) finish(result *contracts.AnalysisResult, start time.Time) *contracts.AnalysisResult {
	result.Duration = time.Since(start)

	gateResult := ""
	if result.Gate.Evaluated {
		gateResult = "fail"
		if result.Gate.Passed {
			gateResult = "pass"
		}
	}
	a.metrics.RecordAnalysis(result.Strategy, string(result.Classification.Tier), result.Severity, gateResult, result.Duration)

	a.logger.WithFields(map[string]interface{}{
		"strategy":   result.Strategy,
		"tier":       result.Classification.Tier,
		"theme":      result.Classification.Theme,
		"secondary":  result.Classification.Secondary,
		"severity":   result.Severity,
		"sentiment":  result.Sentiment,
		"gate":       gateResult,
		"rebalanced": result.IsRebalanced(),
		"duration":   result.Duration.String(),
	}).Info("Headline analyzed")

	return result
}
