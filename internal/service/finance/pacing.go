package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"atelier/internal/domain/models"
)

// Pacing status thresholds, fixed design constants.
const (
	onPaceThreshold = 0.95
	atRiskThreshold = 0.80
)

// Pacing computes the pacing report for a target year: how far along the
// year is, the progress that share of the target implies, and whether the
// actual numbers keep up. Every division is guarded so empty input yields
// zeros, never NaN or Inf.
func Pacing(target models.Target, entries []models.RevenueEntry, metric string, now time.Time) *models.PacingReport {
	current := decimal.Zero
	for _, entry := range entries {
		current = current.Add(metricValue(entry, metric))
	}

	ratio := elapsedRatio(target.Year, now)
	expected := target.TargetValue.Mul(decimal.NewFromFloat(ratio))

	status := models.PacingBehind
	switch {
	case current.GreaterThanOrEqual(expected.Mul(decimal.NewFromFloat(onPaceThreshold))):
		status = models.PacingOnPace
	case current.GreaterThanOrEqual(expected.Mul(decimal.NewFromFloat(atRiskThreshold))):
		status = models.PacingAtRisk
	}

	projected := decimal.Zero
	if ratio > 0 {
		projected = current.Div(decimal.NewFromFloat(ratio))
	}

	remaining := target.TargetValue.Sub(current)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	// Months are approximated as 30 days, a 360-day pace year
	remainingDays := int(math.Round((1 - ratio) * 12 * 30))
	dailyPaceNeeded := remaining.Div(decimal.NewFromInt(int64(max(1, remainingDays))))

	percentOfTarget := 0.0
	if target.TargetValue.IsPositive() {
		percentOfTarget = current.Div(target.TargetValue).InexactFloat64() * 100
	}

	return &models.PacingReport{
		Year:             target.Year,
		Metric:           metric,
		TargetValue:      target.TargetValue,
		CurrentValue:     current,
		ElapsedRatio:     ratio,
		ExpectedProgress: expected,
		Status:           status,
		Projected:        projected,
		Remaining:        remaining,
		RemainingDays:    remainingDays,
		DailyPaceNeeded:  dailyPaceNeeded,
		PercentOfTarget:  percentOfTarget,
	}
}

// elapsedRatio is the elapsed fraction of the year at now, on a
// day-of-year basis: 0 before the year starts, 1 once it is over.
func elapsedRatio(year int, now time.Time) float64 {
	switch {
	case now.Year() < year:
		return 0
	case now.Year() > year:
		return 1
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	daysInYear := int(end.Sub(start).Hours() / 24)
	return float64(now.YearDay()) / float64(daysInYear)
}

func metricValue(entry models.RevenueEntry, metric string) decimal.Decimal {
	switch metric {
	case models.MetricNetIncome:
		return entry.NetIncome
	case models.MetricHours:
		return entry.Hours
	default:
		return entry.Revenue
	}
}
