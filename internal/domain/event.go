package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type PriceRange struct {
	Type     string
	Currency string
	Min      float64
	Max      float64
}

type Event struct {
	ID              string
	Name            string
	URL             string
	Locale          string
	Status          string
	LocalStartDate  string
	LocalStartTime  string
	StartUTC        time.Time // zero when the API has no exact start
	PriceRanges     []PriceRange
	Venues          []Venue
	Attractions     []Attraction
	Classifications []EventClassification
}

type eventJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Locale string `json:"locale"`
	Dates  struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
			DateTime  string `json:"dateTime"`
		} `json:"start"`
		Status struct {
			Code string `json:"code"`
		} `json:"status"`
	} `json:"dates"`
	PriceRanges []struct {
		Type     string  `json:"type"`
		Currency string  `json:"currency"`
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []classificationJSON `json:"classifications"`
	Embedded        struct {
		Venues      []venueJSON      `json:"venues"`
		Attractions []attractionJSON `json:"attractions"`
	} `json:"_embedded"`
}

func EventFromJSON(raw json.RawMessage) (Event, error) {
	var e eventJSON
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	event := Event{
		ID:              e.ID,
		Name:            e.Name,
		URL:             e.URL,
		Locale:          e.Locale,
		Status:          e.Dates.Status.Code,
		LocalStartDate:  e.Dates.Start.LocalDate,
		LocalStartTime:  e.Dates.Start.LocalTime,
		Classifications: eventClassifications(e.Classifications),
	}

	// An unparsable dateTime leaves StartUTC zero; LocalStartDate still shows.
	if start, err := time.Parse(time.RFC3339, e.Dates.Start.DateTime); err == nil {
		event.StartUTC = start.UTC()
	}

	for _, pr := range e.PriceRanges {
		event.PriceRanges = append(event.PriceRanges, PriceRange{
			Type:     pr.Type,
			Currency: pr.Currency,
			Min:      pr.Min,
			Max:      pr.Max,
		})
	}

	for _, v := range e.Embedded.Venues {
		venue, err := v.model()
		if err != nil {
			return Event{}, fmt.Errorf("event %s: %w", e.ID, err)
		}
		event.Venues = append(event.Venues, venue)
	}

	for _, a := range e.Embedded.Attractions {
		event.Attractions = append(event.Attractions, a.model())
	}

	return event, nil
}
