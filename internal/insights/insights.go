// Package insights asks an external model for a short summary and tips
// about a day's progress. Every failure degrades to "no insights".
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/models"
)

// ErrUnavailable is returned when no insight service is configured.
var ErrUnavailable = errors.New("insights unavailable")

// Generator turns a plain-language description into insights.
type Generator interface {
	Generate(ctx context.Context, description string) (models.Insights, error)
}

// Nop is the generator used when insights are disabled.
type Nop struct{}

func (Nop) Generate(context.Context, string) (models.Insights, error) {
	return models.Insights{}, ErrUnavailable
}

// Describe renders the request for a day. It returns false for a day with
// no tasks, which is never sent.
func Describe(tasks []models.DailyTask, date string) (string, bool) {
	if len(tasks) == 0 {
		return "", false
	}
	completed, points := 0, 0
	for _, t := range tasks {
		if t.Completed {
			completed++
			points += t.PointsEarned
		}
	}
	return fmt.Sprintf("%d tasks done, %d points earned today on %s.", completed, points, date), true
}

// Fetch calls gen and reports ok=false on any error or empty answer.
func Fetch(ctx context.Context, gen Generator, description string) (models.Insights, bool) {
	ins, err := gen.Generate(ctx, description)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) && !errors.Is(err, context.Canceled) {
			logger.Warn("Insight request failed", "error", err)
		}
		return models.Insights{}, false
	}
	if strings.TrimSpace(ins.Summary) == "" && len(ins.Tips) == 0 {
		return models.Insights{}, false
	}
	return ins, true
}

// parse decodes the model's JSON answer.
func parse(text string) (models.Insights, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Insights{}, errors.New("empty response")
	}
	var ins models.Insights
	if err := json.Unmarshal([]byte(text), &ins); err != nil {
		return models.Insights{}, fmt.Errorf("failed to parse insights: %w", err)
	}
	return ins, nil
}
