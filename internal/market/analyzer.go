package market

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Snapshot is the dashboard payload computed over one generated dataset.
type Snapshot struct {
	DatasetID      string           `json:"dataset_id"`
	PopularRoutes  []RouteAggregate `json:"popular_routes"`
	PriceTrends    PriceTrends      `json:"price_trends"`
	DemandInsights []string         `json:"demand_insights"`
	TotalFlights   int              `json:"total_flights"`
	LastUpdated    string           `json:"last_updated"`
}

// Analysis combines narrative insights with statistical summaries.
type Analysis struct {
	AIInsights       InsightBundle    `json:"ai_insights"`
	MarketStatistics MarketStatistics `json:"market_statistics"`
	MarketTrends     MarketTrends     `json:"market_trends"`
	DataQuality      DataQuality      `json:"data_quality"`
	Timestamp        string           `json:"timestamp"`
	TotalDataPoints  int              `json:"total_data_points"`
}

// Analyzer is the service object behind the HTTP handlers. It owns no state
// beyond its collaborators: every operation generates a fresh dataset and
// derives everything from it, so repeated calls are independent by design.
type Analyzer struct {
	generator *Generator
	insights  InsightEngine
	now       func() time.Time
}

// NewAnalyzer constructs an Analyzer. A nil insight engine defaults to the
// mock generator.
func NewAnalyzer(generator *Generator, insights InsightEngine) (*Analyzer, error) {
	if generator == nil {
		return nil, errors.New("analyzer requires a generator")
	}
	if insights == nil {
		insights = MockInsightGenerator{}
	}
	return &Analyzer{generator: generator, insights: insights, now: time.Now}, nil
}

// Snapshot generates a dataset, applies the filter and aggregates the rest.
func (a *Analyzer) Snapshot(filter Filter) Snapshot {
	dataset := a.generator.Dataset(0)
	records := ApplyFilter(dataset.Records, filter)
	return Snapshot{
		DatasetID:      dataset.ID,
		PopularRoutes:  PopularRoutes(records, 10),
		PriceTrends:    AnalyzePriceTrends(records),
		DemandInsights: DemandInsights(records),
		TotalFlights:   len(records),
		LastUpdated:    a.now().UTC().Format("2006-01-02 15:04:05"),
	}
}

// Analysis generates a dataset and runs the full analysis over it,
// including the insight engine (LLM or mock, depending on wiring).
func (a *Analyzer) Analysis(ctx context.Context) Analysis {
	records := a.generator.Generate(0)
	return Analysis{
		AIInsights:       a.insights.Insights(ctx, records),
		MarketStatistics: ComputeMarketStatistics(records),
		MarketTrends:     ComputeMarketTrends(records),
		DataQuality:      AssessDataQuality(records),
		Timestamp:        a.now().UTC().Format(time.RFC3339),
		TotalDataPoints:  len(records),
	}
}

// DemandChart returns average demand by destination over a fresh dataset.
func (a *Analyzer) DemandChart() ChartSeries {
	return BuildDemandChart(a.generator.Generate(0))
}

// PriceChart returns average price by date over a fresh dataset.
func (a *Analyzer) PriceChart() ChartSeries {
	return BuildPriceChart(a.generator.Generate(0))
}

// Records exposes a fresh dataset for tabular export.
func (a *Analyzer) Records() []FlightRecord {
	return a.generator.Generate(0)
}

// BuildDemandChart aggregates mean demand score per destination, sorted
// descending and truncated to the 15 busiest destinations.
func BuildDemandChart(records []FlightRecord) ChartSeries {
	type group struct {
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	var order []string
	for _, r := range records {
		g, ok := groups[r.Destination]
		if !ok {
			g = &group{}
			groups[r.Destination] = g
			order = append(order, r.Destination)
		}
		g.sum += r.DemandScore
		g.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		a := groups[order[i]]
		b := groups[order[j]]
		return a.sum/float64(a.count) > b.sum/float64(b.count)
	})
	if len(order) > 15 {
		order = order[:15]
	}

	series := ChartSeries{Title: "Average Demand Score by Destination", Labels: []string{}, Values: []float64{}}
	for _, dest := range order {
		g := groups[dest]
		series.Labels = append(series.Labels, dest)
		series.Values = append(series.Values, roundTo(g.sum/float64(g.count), 1))
	}
	return series
}

// BuildPriceChart aggregates mean price per flight date in ascending
// date order.
func BuildPriceChart(records []FlightRecord) ChartSeries {
	type group struct {
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	for _, r := range records {
		key := r.Date.Format("2006-01-02")
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.sum += r.Price
		g.count++
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	series := ChartSeries{Title: "Average Flight Prices Over Time", Labels: []string{}, Values: []float64{}}
	for _, date := range dates {
		g := groups[date]
		series.Labels = append(series.Labels, date)
		series.Values = append(series.Values, roundTo(g.sum/float64(g.count), 2))
	}
	return series
}
