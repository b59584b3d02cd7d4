// Package forecast asks a generative model for sales forecasts and reorder
// advice, falling back to plain averages whenever the model cannot answer.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/inventory"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	FallbackAnalysis   = "AI forecast unavailable. Using basic average."
	SuggestionFailed   = "Could not generate a suggestion at this time. Please try again later."
	SuggestionNotFound = "No suggestion available."
)

type Config struct {
	ForecastModel   string
	SuggestionModel string
	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
}

// Result is a forecast velocity in units per day with a one line explanation.
type Result struct {
	SalesVelocity float64 `json:"sales_velocity"`
	Analysis      string  `json:"analysis"`
}

type Forecaster struct {
	gen     Generator
	cfg     Config
	limiter *rate.Limiter
}

func NewForecaster(gen Generator, cfg Config) *Forecaster {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Forecaster{
		gen:     gen,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Forecast never fails: any model problem yields the simple average of recentSales.
func (f *Forecaster) Forecast(ctx context.Context, variant domain.ProductVariant, recentSales []domain.SalesHistoryEntry, promotions []domain.Promotion) Result {
	logger := log.With().Str("sku", variant.SKU).Logger()
	logger.Debug().Msg("fetching advanced forecast")

	text, err := f.generate(ctx, Request{
		Model:             f.cfg.ForecastModel,
		Prompt:            forecastPrompt(variant, recentSales, promotions),
		SystemInstruction: forecastSystemInstruction,
		Schema:            forecastSchema,
	})
	if err == nil {
		var result Result
		result, err = parseForecast(text)
		if err == nil {
			logger.Debug().Float64("velocity", result.SalesVelocity).Msg("received forecast")
			return result
		}
	}

	logger.Warn().Err(err).Str("product", variant.Name).Msg("forecast call failed, using basic average")
	return Result{
		SalesVelocity: inventory.AverageVelocity(recentSales),
		Analysis:      FallbackAnalysis,
	}
}

// ReorderSuggestion returns the model's advice text, or a fixed message when it has none.
func (f *Forecaster) ReorderSuggestion(ctx context.Context, p domain.ProcessedProduct) string {
	text, err := f.generate(ctx, Request{
		Model:  f.cfg.SuggestionModel,
		Prompt: reorderPrompt(p, inventory.TargetCoverDays),
	})
	if err != nil {
		log.Warn().Err(err).Str("sku", p.SKU).Msg("reorder suggestion call failed")
		return SuggestionFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return SuggestionNotFound
	}
	return text
}

func (f *Forecaster) generate(ctx context.Context, req Request) (string, error) {
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return f.gen.Generate(ctx, req)
}

type forecastResponse struct {
	ForecastedVelocity *float64 `json:"forecastedVelocity"`
	Analysis           *string  `json:"analysis"`
}

func parseForecast(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, errors.New("empty response from model")
	}

	var resp forecastResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return Result{}, fmt.Errorf("invalid forecast json: %w", err)
	}
	if resp.ForecastedVelocity == nil || resp.Analysis == nil {
		return Result{}, errors.New("forecast response missing required fields")
	}

	v := *resp.ForecastedVelocity
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{}, fmt.Errorf("forecast velocity %v out of range", v)
	}
	return Result{SalesVelocity: v, Analysis: *resp.Analysis}, nil
}
