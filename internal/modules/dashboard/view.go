package dashboard

import (
	"fmt"

	"github.com/aristath/graham/internal/modules/valuation"
	"github.com/aristath/graham/internal/utils"
)

// SummaryCard is the group average card. It is omitted when nothing was valued.
type SummaryCard struct {
	valuation.GroupStats
	AverageDisplay    string `json:"averageDisplay"`
	UpperBoundDisplay string `json:"upperBoundDisplay"`
	LowerBoundDisplay string `json:"lowerBoundDisplay"`
	CountLabel        string `json:"countLabel"`
}

// TickerCard is one valued ticker with its position badge.
type TickerCard struct {
	valuation.TickerValuation
	Position                valuation.Position `json:"position"`
	PositionLabel           string             `json:"positionLabel"`
	MyValueDisplay          string             `json:"myValueDisplay"`
	YTDRevenueDisplay       string             `json:"ytdRevenueDisplay"`
	QuarterlyRevenueDisplay string             `json:"quarterlyRevenueDisplay"`
	InterestRateDisplay     string             `json:"interestRateDisplay"`
}

// ChartRow is one ticker in the comparison charts. Values are rounded to cents.
type ChartRow struct {
	Ticker     string  `json:"ticker"`
	Value      float64 `json:"value"`
	Upper      float64 `json:"upper"`
	Lower      float64 `json:"lower"`
	YTDRevenue float64 `json:"ytdRevenue"`
}

// View is everything the dashboard renders for one load result.
type View struct {
	TolerancePct        float64            `json:"tolerancePct"`
	InterestRateDisplay string             `json:"interestRateDisplay"`
	SortMode            valuation.SortMode `json:"sortMode"`
	SortLabel           string             `json:"sortLabel"`
	NextSortMode        valuation.SortMode `json:"nextSortMode"`
	Summary             *SummaryCard       `json:"summary"`
	Cards               []TickerCard       `json:"cards"`
	Chart               []ChartRow         `json:"chart"`
}

// BuildView orders the result's valuations and derives the summary, cards and
// chart rows for the given tolerance.
func BuildView(result *LoadResult, tolerancePct float64, mode valuation.SortMode) View {
	view := View{
		TolerancePct:        tolerancePct,
		InterestRateDisplay: utils.FormatPercent(result.AverageRate, 2),
		SortMode:            mode,
		SortLabel:           mode.Label(),
		NextSortMode:        mode.Next(),
		Cards:               []TickerCard{},
		Chart:               []ChartRow{},
	}

	stats, err := valuation.ComputeStats(result.Valuations, tolerancePct)
	if err != nil {
		return view
	}

	view.Summary = &SummaryCard{
		GroupStats:        stats,
		AverageDisplay:    utils.FormatBillions(stats.Average),
		UpperBoundDisplay: utils.FormatBillions(stats.UpperBound),
		LowerBoundDisplay: utils.FormatBillions(stats.LowerBound),
		CountLabel:        countLabel(stats.Count),
	}

	for _, v := range valuation.Order(result.Valuations, mode) {
		position := stats.Classify(v)
		view.Cards = append(view.Cards, TickerCard{
			TickerValuation:         v,
			Position:                position,
			PositionLabel:           position.Label(),
			MyValueDisplay:          utils.FormatBillions(v.MyValue),
			YTDRevenueDisplay:       utils.FormatBillions(v.YTDRevenue),
			QuarterlyRevenueDisplay: utils.FormatBillions(v.QuarterlyRevenue),
			InterestRateDisplay:     utils.FormatPercent(v.InterestRate, 2),
		})
		view.Chart = append(view.Chart, chartRow(v, tolerancePct))
	}

	return view
}

func chartRow(v valuation.TickerValuation, tolerancePct float64) ChartRow {
	p := tolerancePct / 100
	return ChartRow{
		Ticker:     v.Ticker,
		Value:      utils.Round2(v.MyValue),
		Upper:      utils.Round2(v.MyValue * (1 + p)),
		Lower:      utils.Round2(v.MyValue * (1 - p)),
		YTDRevenue: utils.Round2(v.YTDRevenue),
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "Based on 1 ticker"
	}
	return fmt.Sprintf("Based on %d tickers", n)
}
