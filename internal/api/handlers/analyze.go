package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/severity"
	"github.com/wonny/macromoney/pkg/logger"
)

// Analyzer is the pipeline entry point used by the handler
type Analyzer interface {
	Analyze(ctx context.Context, req contracts.AnalysisRequest) (*contracts.AnalysisResult, error)
	Strategy() string
}

// AnalyzeHandler serves headline analysis
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalyzeHandler struct {
	analyzer Analyzer
	validate *validator.Validate
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer Analyzer, log *logger.Logger) *AnalyzeHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AnalyzeHandler{
		analyzer: analyzer,
		validate: validator.New(),
		logger:   log.WithComponent("api.analyze"),
	}
}

// AnalyzeRequest is the body of POST /api/analyze.
// Omitted weights fall back to the default allocation.
type AnalyzeRequest struct {
	Headline     string             `json:"headline" validate:"required,max=1000"`
	Weights      map[string]float64 `json:"weights" validate:"omitempty,dive,keys,required,endkeys,gte=0,lte=100"`
	HorizonYears float64            `json:"horizon_years" validate:"required,gt=0"`
	Capital      float64            `json:"capital" validate:"required,gt=0"`
}

// AnalyzeResponse wraps the analysis result with derived fields
type AnalyzeResponse struct {
	*contracts.AnalysisResult
	SentimentLabel string             `json:"sentiment_label"`
	Delta          map[string]float64 `json:"delta,omitempty"`
}

// Analyze runs one headline through the pipeline
// POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Kind:    "validation",
			Details: validationDetails(err),
		})
		return
	}

	weights := contracts.Portfolio(req.Weights)
	if len(weights) == 0 {
		weights = contracts.DefaultPortfolio()
	}

	result, err := h.analyzer.Analyze(r.Context(), contracts.AnalysisRequest{
		Headline:     req.Headline,
		Weights:      weights,
		HorizonYears: req.HorizonYears,
		Capital:      req.Capital,
	})
	if err != nil {
		status, kind := classifyError(r.Context(), err)
		if status >= http.StatusInternalServerError {
			h.logger.WithError(err).WithField("strategy", h.analyzer.Strategy()).Error("Analysis failed")
		}
		respondJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		AnalysisResult: result,
		SentimentLabel: severity.Label(result.Sentiment),
		Delta:          result.Delta(),
	})
}

// classifyError maps pipeline errors to HTTP status codes.
// 요청 컨텍스트 만료가 먼저: 그 뒤의 임베딩 오류는 결과일 뿐
func classifyError(ctx context.Context, err error) (int, string) {
	switch {
	case ctx.Err() != nil:
		return http.StatusGatewayTimeout, "timeout"
	case contracts.IsInputError(err):
		return http.StatusUnprocessableEntity, "input"
	case errors.Is(err, contracts.ErrDegenerateRenormalization):
		return http.StatusUnprocessableEntity, "renormalization"
	case errors.Is(err, contracts.ErrEmbeddingService):
		return http.StatusBadGateway, "embedding"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return details
	}
	details["request"] = err.Error()
	return details
}
