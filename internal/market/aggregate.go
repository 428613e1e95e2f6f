package market

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// PopularRoutes groups records by directed route and ranks routes by mean
// demand score, descending. Ties keep first-encounter order. The result is
// truncated to topN entries (default 10).
func PopularRoutes(records []FlightRecord, topN int) []RouteAggregate {
	if topN <= 0 {
		topN = 10
	}

	type group struct {
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	var order []string

	for _, r := range records {
		key := routeKey(r.Origin, r.Destination)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += r.DemandScore
		g.count++
	}

	routes := make([]RouteAggregate, 0, len(order))
	for _, key := range order {
		g := groups[key]
		routes = append(routes, RouteAggregate{
			Route:       key,
			AvgDemand:   roundTo(g.sum/float64(g.count), 1),
			FlightCount: g.count,
		})
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].AvgDemand > routes[j].AvgDemand
	})

	if len(routes) > topN {
		routes = routes[:topN]
	}
	return routes
}

// AnalyzePriceTrends partitions records into domestic and international and
// summarises pricing per partition. Empty partitions yield a zero average
// and an "N/A" range rather than an error.
func AnalyzePriceTrends(records []FlightRecord) PriceTrends {
	var domestic, international []float64
	for _, r := range records {
		if r.IsDomestic {
			domestic = append(domestic, r.Price)
		} else {
			international = append(international, r.Price)
		}
	}

	return PriceTrends{
		DomesticAvg:        roundTo(meanOf(domestic), 2),
		InternationalAvg:   roundTo(meanOf(international), 2),
		DomesticRange:      priceRange(domestic),
		InternationalRange: priceRange(international),
	}
}

// DemandInsights emits descriptive sentences about demand patterns: the peak
// weekday and the domestic/international comparison. Weekdays are scanned in
// a fixed Monday-first order so the peak is deterministic for a fixed input.
func DemandInsights(records []FlightRecord) []string {
	insights := []string{}
	if len(records) == 0 {
		return insights
	}

	byDay := make(map[time.Weekday][]float64)
	for _, r := range records {
		day := r.Date.Weekday()
		byDay[day] = append(byDay[day], r.DemandScore)
	}

	var peakDay time.Weekday
	var peakAvg float64
	found := false
	for i := 0; i < 7; i++ {
		day := time.Weekday((i + 1) % 7)
		scores := byDay[day]
		if len(scores) == 0 {
			continue
		}
		avg := meanOf(scores)
		if !found || avg > peakAvg {
			found = true
			peakDay = day
			peakAvg = avg
		}
	}
	if found {
		insights = append(insights, fmt.Sprintf("Peak demand occurs on %ss with an average demand score of %.1f", peakDay, peakAvg))
	}

	var domestic, international []float64
	for _, r := range records {
		if r.IsDomestic {
			domestic = append(domestic, r.DemandScore)
		} else {
			international = append(international, r.DemandScore)
		}
	}
	if len(domestic) > 0 && len(international) > 0 {
		domAvg := meanOf(domestic)
		intlAvg := meanOf(international)
		if domAvg > intlAvg {
			insights = append(insights, fmt.Sprintf("Domestic routes show higher demand (%.1f) compared to international routes (%.1f)", domAvg, intlAvg))
		} else {
			insights = append(insights, fmt.Sprintf("International routes show higher demand (%.1f) compared to domestic routes (%.1f)", intlAvg, domAvg))
		}
	}

	return insights
}

// ApplyFilter returns the records matching the filter. City matches are
// case-insensitive; date bounds are inclusive.
func ApplyFilter(records []FlightRecord, f Filter) []FlightRecord {
	filtered := make([]FlightRecord, 0, len(records))
	for _, r := range records {
		if f.Origin != "" && !strings.EqualFold(r.Origin, f.Origin) {
			continue
		}
		if f.Destination != "" && !strings.EqualFold(r.Destination, f.Destination) {
			continue
		}
		if !f.DateFrom.IsZero() && r.Date.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && r.Date.After(f.DateTo) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func routeKey(origin, destination string) string {
	return origin + " → " + destination
}

func priceRange(prices []float64) string {
	if len(prices) == 0 {
		return "N/A"
	}
	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return fmt.Sprintf("$%.0f - $%.0f", min, max)
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundTo(v float64, prec int) float64 {
	p := math.Pow10(prec)
	return math.Round(v*p) / p
}
