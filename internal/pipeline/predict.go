package pipeline

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// TrailingMonths is how many complete months back the prediction averages.
const TrailingMonths = 3

const cautionFactor = 1.2

// Prediction recommendations.
const (
	RecommendNoData       = "Not enough history to predict this month yet. Keep logging your expenses."
	RecommendCaution      = "You are spending more than 20% above your average. Review your larger expenses."
	RecommendSlightlyHigh = "You are spending slightly above your average this month."
	RecommendOnTrack      = "Your spending is in line with your average. Keep it up."
)

// PredictFromTotals forecasts the current month from trailing monthly
// totals (most recent first) and the month-to-date total.
func PredictFromTotals(totals []float64, current float64) model.MonthlyPrediction {
	p := model.MonthlyPrediction{
		TrailingTotals:    append([]float64(nil), totals...),
		CurrentMonthTotal: current,
	}

	var sum float64
	for _, t := range totals {
		sum += t
		if t > 0 {
			p.BasedOnMonths++
		}
	}
	if p.BasedOnMonths == 0 {
		p.Recommendation = RecommendNoData
		return p
	}

	avg := sum / float64(len(totals))
	var variance float64
	for _, t := range totals {
		variance += (t - avg) * (t - avg)
	}
	variance /= float64(len(totals))
	cv := math.Sqrt(variance) / avg

	p.PredictedAmount = avg
	p.Confidence = (1 - math.Min(math.Max(cv, 0), 1)) * 100

	switch {
	case current > avg*cautionFactor:
		p.Recommendation = RecommendCaution
	case current > avg:
		p.Recommendation = RecommendSlightlyHigh
	default:
		p.Recommendation = RecommendOnTrack
	}
	return p
}

// Predict loads the trailing complete months and the month to date, then
// forecasts the current month.
func Predict(ctx context.Context, src ExpenseSource, now time.Time) (model.MonthlyPrediction, error) {
	totals := make([]float64, TrailingMonths)
	var current float64

	g, gctx := errgroup.WithContext(ctx)
	for i := range TrailingMonths {
		start, end := MonthWindow(MonthsBefore(now, i+1))
		g.Go(func() error {
			expenses, err := src.ExpensesInRange(gctx, start, end)
			if err != nil {
				return err
			}
			totals[i] = model.SumAmounts(expenses)
			return nil
		})
	}
	g.Go(func() error {
		start, _ := MonthWindow(now)
		expenses, err := src.ExpensesInRange(gctx, start, now)
		if err != nil {
			return err
		}
		current = model.SumAmounts(expenses)
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.MonthlyPrediction{}, apperr.WrapKind("predict", apperr.KindDatabase, err)
	}

	return PredictFromTotals(totals, current), nil
}
