package market

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSampleSize = 100

// Australian origin cities. Destinations are drawn from the union of this
// set and the international set; a destination inside this set classifies
// the record as domestic.
var domesticCities = []string{
	"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide",
	"Gold Coast", "Cairns", "Darwin", "Hobart", "Canberra",
}

var internationalCities = []string{
	"Singapore", "Kuala Lumpur", "Bangkok", "Tokyo", "Seoul",
	"Los Angeles", "London", "Dubai", "Hong Kong", "Bali",
}

var airlines = []string{
	"Qantas", "Jetstar", "Virgin Australia", "Tiger Air", "Singapore Airlines",
}

var bookingClasses = []string{"Economy", "Premium Economy", "Business", "First"}

// Mostly direct flights.
var stopChoices = []int{0, 0, 0, 1}

// Generator fabricates bounded synthetic flight records. It is the only
// record source in the system; there is no scraping or external feed behind
// it. Output varies call to call, reproducibility is not a goal.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	now        func() time.Time
	sampleSize int
}

// NewGenerator constructs a generator producing sampleSize records by default.
func NewGenerator(sampleSize int, opts ...func(*Generator)) *Generator {
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}
	g := &Generator{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		sampleSize: sampleSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithSeed pins the random source, for tests only.
func WithSeed(seed int64) func(*Generator) {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the wall clock, for tests only.
func WithClock(now func() time.Time) func(*Generator) {
	return func(g *Generator) {
		g.now = now
	}
}

// Generate returns count fresh records in generation order. A non-positive
// count falls back to the configured sample size.
func (g *Generator) Generate(count int) []FlightRecord {
	if count <= 0 {
		count = g.sampleSize
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	allCities := make([]string, 0, len(domesticCities)+len(internationalCities))
	allCities = append(allCities, domesticCities...)
	allCities = append(allCities, internationalCities...)

	base := g.now().UTC()
	records := make([]FlightRecord, 0, count)

	for i := 0; i < count; i++ {
		origin := domesticCities[g.rng.Intn(len(domesticCities))]
		destination := allCities[g.rng.Intn(len(allCities))]
		for destination == origin {
			destination = allCities[g.rng.Intn(len(allCities))]
		}

		isDomestic := IsDomesticCity(destination)
		basePrice := g.intBetween(800, 2500)
		if isDomestic {
			basePrice = g.intBetween(150, 400)
		}

		offset := g.intBetween(1, 90)
		flightDate := base.AddDate(0, 0, offset)
		flightDate = time.Date(flightDate.Year(), flightDate.Month(), flightDate.Day(), 0, 0, 0, 0, time.UTC)

		multiplier := 1.0
		if wd := flightDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
			multiplier = 1.2
		}

		records = append(records, FlightRecord{
			Origin:       origin,
			Destination:  destination,
			Airline:      airlines[g.rng.Intn(len(airlines))],
			Price:        math.Round(float64(basePrice) * multiplier),
			Date:         flightDate,
			DemandScore:  float64(g.intBetween(30, 100)),
			Availability: g.intBetween(10, 200),
			IsDomestic:   isDomestic,
			Stops:        stopChoices[g.rng.Intn(len(stopChoices))],
			Duration:     g.duration(isDomestic),
			BookingClass: bookingClasses[g.rng.Intn(len(bookingClasses))],
		})
	}

	return records
}

// Dataset wraps a fresh batch of records with a snapshot identifier.
func (g *Generator) Dataset(count int) Dataset {
	return Dataset{
		ID:          uuid.NewString(),
		GeneratedAt: g.now().UTC(),
		Records:     g.Generate(count),
	}
}

// IsDomesticCity reports whether the city belongs to the fixed domestic set.
func IsDomesticCity(city string) bool {
	for _, c := range domesticCities {
		if c == city {
			return true
		}
	}
	return false
}

func (g *Generator) intBetween(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

func (g *Generator) duration(isDomestic bool) string {
	hours := g.intBetween(7, 16)
	if isDomestic {
		hours = g.intBetween(1, 5)
	}
	return fmt.Sprintf("%dh %dm", hours, g.intBetween(0, 59))
}
