package domain

import (
	"encoding/json"
	"fmt"
)

type Attraction struct {
	ID              string
	Name            string
	URL             string
	Test            bool
	Classifications []EventClassification
}

type attractionJSON struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	URL             string               `json:"url"`
	Test            bool                 `json:"test"`
	Classifications []classificationJSON `json:"classifications"`
}

func (a attractionJSON) model() Attraction {
	return Attraction{
		ID:              a.ID,
		Name:            a.Name,
		URL:             a.URL,
		Test:            a.Test,
		Classifications: eventClassifications(a.Classifications),
	}
}

func AttractionFromJSON(raw json.RawMessage) (Attraction, error) {
	var a attractionJSON
	if err := json.Unmarshal(raw, &a); err != nil {
		return Attraction{}, fmt.Errorf("decode attraction: %w", err)
	}
	return a.model(), nil
}
