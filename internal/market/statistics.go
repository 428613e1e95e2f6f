package market

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// ComputeMarketStatistics derives the price distribution, route counts and
// temporal span for a record set. An empty input yields a zero-valued
// structure, never an error.
func ComputeMarketStatistics(records []FlightRecord) MarketStatistics {
	if len(records) == 0 {
		return MarketStatistics{}
	}

	out := MarketStatistics{}

	prices := collectPrices(records)
	if len(prices) > 0 {
		mean, _ := stats.Mean(prices)
		median, _ := stats.Median(prices)
		std, _ := stats.StandardDeviationPopulation(prices)
		p25, _ := stats.Percentile(prices, 25)
		p75, _ := stats.Percentile(prices, 75)
		p90, _ := stats.Percentile(prices, 90)
		out.PriceDistribution = PriceDistribution{
			Mean:   roundTo(mean, 2),
			Median: roundTo(median, 2),
			StdDev: roundTo(std, 2),
			P25:    roundTo(p25, 2),
			P75:    roundTo(p75, 2),
			P90:    roundTo(p90, 2),
		}
	}

	counts := make(map[string]int)
	for _, r := range records {
		counts[routeKey(r.Origin, r.Destination)]++
	}
	out.TotalRoutes = len(counts)
	// Ties resolve to the lexicographically smallest route.
	best := 0
	for route, count := range counts {
		if count > best || (count == best && route < out.MostFrequentRoute) {
			best = count
			out.MostFrequentRoute = route
		}
	}

	var earliest, latest = records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(earliest) {
			earliest = r.Date
		}
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	out.DataSpanDays = int(latest.Sub(earliest).Hours() / 24)

	return out
}

// ComputeMarketTrends summarises headline market trends for a record set.
func ComputeMarketTrends(records []FlightRecord) MarketTrends {
	trends := MarketTrends{
		TotalFlights:    len(records),
		PopularAirlines: map[string]int{},
	}
	if len(records) == 0 {
		return trends
	}

	prices := collectPrices(records)
	if len(prices) > 0 {
		mean, _ := stats.Mean(prices)
		min, _ := stats.Min(prices)
		max, _ := stats.Max(prices)
		trends.AvgPrice = roundTo(mean, 2)
		trends.MinPrice = min
		trends.MaxPrice = max
	}

	cheapest, priciest := records[0], records[0]
	for _, r := range records[1:] {
		if r.Price < cheapest.Price {
			cheapest = r
		}
		if r.Price > priciest.Price {
			priciest = r
		}
	}
	trends.CheapestRoute = RoutePrice{Route: routeKey(cheapest.Origin, cheapest.Destination), Price: cheapest.Price}
	trends.MostExpensiveRoute = RoutePrice{Route: routeKey(priciest.Origin, priciest.Destination), Price: priciest.Price}

	airlineCounts := make(map[string]int)
	var demandSum float64
	for _, r := range records {
		if r.Airline != "" {
			airlineCounts[r.Airline]++
		}
		demandSum += r.DemandScore
	}
	trends.AirlineCount = len(airlineCounts)
	trends.AverageDemand = roundTo(demandSum/float64(len(records)), 2)

	for _, airline := range topKeys(airlineCounts, 5) {
		trends.PopularAirlines[airline] = airlineCounts[airline]
	}

	return trends
}

type recordColumn struct {
	name     string
	required bool
	isNull   func(FlightRecord) bool
}

// The six always-populated columns of a well-formed record. A required
// column counts as structurally missing when every record has its zero
// value; per-record zero values count as null cells.
var recordColumns = []recordColumn{
	{"origin", true, func(r FlightRecord) bool { return r.Origin == "" }},
	{"destination", true, func(r FlightRecord) bool { return r.Destination == "" }},
	{"price", true, func(r FlightRecord) bool { return r.Price <= 0 }},
	{"date", true, func(r FlightRecord) bool { return r.Date.IsZero() }},
	{"airline", false, func(r FlightRecord) bool { return r.Airline == "" }},
	{"demand_score", false, func(r FlightRecord) bool { return r.DemandScore <= 0 }},
}

// AssessDataQuality scores completeness of a record set. The score starts
// at 100, loses 25 per structurally missing required field and up to 20 for
// null cells, and never leaves [0, 100].
func AssessDataQuality(records []FlightRecord) DataQuality {
	if len(records) == 0 {
		return DataQuality{
			QualityScore: 0,
			Issues:       []string{"No data available"},
			Completeness: 0,
		}
	}

	nullCounts := make(map[string]int, len(recordColumns))
	for _, col := range recordColumns {
		for _, r := range records {
			if col.isNull(r) {
				nullCounts[col.name]++
			}
		}
	}

	var missing []string
	totalNulls := 0
	for _, col := range recordColumns {
		count := nullCounts[col.name]
		totalNulls += count
		if col.required && count == len(records) {
			missing = append(missing, col.name)
		}
	}

	score := 100.0 - 25.0*float64(len(missing))

	var issues []string
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}
	if totalNulls > 0 {
		var parts []string
		for _, col := range recordColumns {
			if count := nullCounts[col.name]; count > 0 {
				parts = append(parts, fmt.Sprintf("%s (%d)", col.name, count))
			}
		}
		issues = append(issues, fmt.Sprintf("Null values found in: %s", strings.Join(parts, ", ")))
		deduction := float64(totalNulls)
		if deduction > 20 {
			deduction = 20
		}
		score -= deduction
	}
	if score < 0 {
		score = 0
	}
	if len(issues) == 0 {
		issues = []string{"No major issues detected"}
	}

	totalCells := float64(len(records) * len(recordColumns))
	completeness := (1 - float64(totalNulls)/totalCells) * 100

	return DataQuality{
		QualityScore: score,
		Issues:       issues,
		Completeness: roundTo(completeness, 2),
	}
}

func collectPrices(records []FlightRecord) []float64 {
	prices := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Price > 0 {
			prices = append(prices, r.Price)
		}
	}
	return prices
}

func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
