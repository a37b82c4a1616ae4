package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Location struct {
	Latitude  float64
	Longitude float64
}

type Venue struct {
	ID          string
	Name        string
	URL         string
	PostalCode  string
	Timezone    string
	City        string
	StateCode   string
	CountryCode string
	Address     string
	Location    Location
	MarketIDs   []string
}

type venueJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	PostalCode string `json:"postalCode"`
	Timezone   string `json:"timezone"`
	City       struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Country struct {
		CountryCode string `json:"countryCode"`
	} `json:"country"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	// the API sends coordinates as strings
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
	Markets []struct {
		ID string `json:"id"`
	} `json:"markets"`
}

func (v venueJSON) model() (Venue, error) {
	venue := Venue{
		ID:          v.ID,
		Name:        v.Name,
		URL:         v.URL,
		PostalCode:  v.PostalCode,
		Timezone:    v.Timezone,
		City:        v.City.Name,
		StateCode:   v.State.StateCode,
		CountryCode: v.Country.CountryCode,
		Address:     v.Address.Line1,
	}

	var err error
	if venue.Location.Latitude, err = parseCoordinate(v.Location.Latitude); err != nil {
		return Venue{}, fmt.Errorf("venue %s latitude: %w", v.ID, err)
	}
	if venue.Location.Longitude, err = parseCoordinate(v.Location.Longitude); err != nil {
		return Venue{}, fmt.Errorf("venue %s longitude: %w", v.ID, err)
	}

	for _, m := range v.Markets {
		venue.MarketIDs = append(venue.MarketIDs, m.ID)
	}
	return venue, nil
}

func VenueFromJSON(raw json.RawMessage) (Venue, error) {
	var v venueJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return Venue{}, fmt.Errorf("decode venue: %w", err)
	}
	return v.model()
}

func parseCoordinate(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
