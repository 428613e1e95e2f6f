package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{
	"origin", "destination", "airline", "price", "date",
	"demand_score", "availability", "is_domestic", "stops", "duration", "booking_class",
}

// WriteCSV serialises records as a flat table: a header row followed by one
// row per record, one column per field.
func WriteCSV(w io.Writer, records []FlightRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Origin,
			r.Destination,
			r.Airline,
			strconv.FormatFloat(r.Price, 'f', -1, 64),
			r.Date.Format("2006-01-02"),
			strconv.FormatFloat(r.DemandScore, 'f', -1, 64),
			strconv.Itoa(r.Availability),
			strconv.FormatBool(r.IsDomestic),
			strconv.Itoa(r.Stops),
			r.Duration,
			r.BookingClass,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
