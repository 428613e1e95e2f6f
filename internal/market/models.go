package market

import "time"

// FlightRecord represents one synthetic flight/price observation.
// Records are immutable once generated and carry no identity beyond
// structural equality.
type FlightRecord struct {
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Airline      string    `json:"airline"`
	Price        float64   `json:"price"`
	Date         time.Time `json:"date"`
	DemandScore  float64   `json:"demand_score"`
	Availability int       `json:"availability"`
	IsDomestic   bool      `json:"is_domestic"`
	Stops        int       `json:"stops"`
	Duration     string    `json:"duration"`
	BookingClass string    `json:"booking_class"`
}

// Dataset is one generated batch of records. Every request regenerates its
// own dataset, so the ID identifies a single snapshot, never shared state.
type Dataset struct {
	ID          string         `json:"dataset_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Records     []FlightRecord `json:"records"`
}

// RouteAggregate holds demand statistics for one directed route.
type RouteAggregate struct {
	Route       string  `json:"route"`
	AvgDemand   float64 `json:"avg_demand"`
	FlightCount int     `json:"flight_count"`
}

// PriceTrends summarises pricing per domestic/international partition.
// Averages are 0 and ranges are "N/A" when a partition is empty.
type PriceTrends struct {
	DomesticAvg        float64 `json:"domestic_avg"`
	InternationalAvg   float64 `json:"international_avg"`
	DomesticRange      string  `json:"domestic_range"`
	InternationalRange string  `json:"international_range"`
}

// PriceDistribution captures distribution statistics over record prices.
type PriceDistribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
}

// MarketStatistics is the derived market summary for a record set.
type MarketStatistics struct {
	PriceDistribution PriceDistribution `json:"price_distribution"`
	TotalRoutes       int               `json:"total_routes"`
	MostFrequentRoute string            `json:"most_frequent_route"`
	DataSpanDays      int               `json:"data_span_days"`
}

// RoutePrice names a route together with a single observed price.
type RoutePrice struct {
	Route string  `json:"route"`
	Price float64 `json:"price"`
}

// MarketTrends is the headline trend summary over a record set.
type MarketTrends struct {
	TotalFlights       int            `json:"total_flights"`
	AvgPrice           float64        `json:"avg_price"`
	MinPrice           float64        `json:"min_price"`
	MaxPrice           float64        `json:"max_price"`
	MostExpensiveRoute RoutePrice     `json:"most_expensive_route"`
	CheapestRoute      RoutePrice     `json:"cheapest_route"`
	AirlineCount       int            `json:"airlines_count"`
	PopularAirlines    map[string]int `json:"popular_airlines"`
	AverageDemand      float64        `json:"average_demand"`
}

// DataQuality reports completeness and structural issues for a record set.
type DataQuality struct {
	QualityScore float64  `json:"quality_score"`
	Issues       []string `json:"issues"`
	Completeness float64  `json:"completeness"`
}

// InsightBundle is the fixed narrative-text contract shared by the LLM and
// mock insight paths. Callers cannot distinguish the source from the shape.
type InsightBundle struct {
	DemandInsights  []string `json:"demand_insights"`
	PriceInsights   []string `json:"price_insights"`
	RouteInsights   []string `json:"route_insights"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// ChartSeries is a chart-ready labelled series for the presentation layer.
type ChartSeries struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Filter restricts a record set by endpoints and date range. Zero values
// leave the corresponding dimension unconstrained.
type Filter struct {
	Origin      string
	Destination string
	DateFrom    time.Time
	DateTo      time.Time
}
