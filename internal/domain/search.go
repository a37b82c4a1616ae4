package domain

import (
	"math"
	"strings"
	"time"
)

const (
	MaxQueryLength = 200
	MaxLookupIDs   = 5
	MaxRadius      = 19999
)

type SearchKind string

const (
	SearchEvents      SearchKind = "events"
	SearchVenues      SearchKind = "venues"
	SearchNearby      SearchKind = "nearby"
	SearchAttractions SearchKind = "attractions"
	SearchLookup      SearchKind = "lookup"
)

type SearchRequest struct {
	UserID    int64
	Kind      SearchKind
	Text      string
	StateCode string
	Latitude  float64
	Longitude float64
	Radius    int
	IDs       []string
}

func (r *SearchRequest) Validate() error {
	switch r.Kind {
	case SearchEvents, SearchAttractions, SearchVenues:
		if strings.TrimSpace(r.Text) == "" {
			return ErrEmptyQuery
		}
		if len(r.Text) > MaxQueryLength {
			return ErrQueryTooLong
		}
		if r.StateCode != "" && len(r.StateCode) != 2 {
			return ErrInvalidStateCode
		}
	case SearchNearby:
		if math.IsNaN(r.Latitude) || math.IsNaN(r.Longitude) ||
			r.Latitude < -90 || r.Latitude > 90 || r.Longitude < -180 || r.Longitude > 180 {
			return ErrInvalidCoordinates
		}
		if r.Radius < 0 || r.Radius > MaxRadius {
			return ErrInvalidRadius
		}
	case SearchLookup:
		if len(r.IDs) == 0 {
			return ErrEmptyQuery
		}
		if len(r.IDs) > MaxLookupIDs {
			return ErrTooManyIDs
		}
	default:
		return ErrUnknownSearchKind
	}
	return nil
}

// Sanitize trims free text, upper-cases the state code and drops blank IDs.
func (r *SearchRequest) Sanitize() {
	r.Text = strings.Join(strings.Fields(r.Text), " ")
	r.StateCode = strings.ToUpper(strings.TrimSpace(r.StateCode))

	ids := make([]string, 0, len(r.IDs))
	for _, id := range r.IDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	r.IDs = ids
}

// SearchRecord is one entry of a user's search history.
type SearchRecord struct {
	ID          int64
	UserID      int64
	Kind        SearchKind
	Query       string
	ResultCount int
	CreatedAt   time.Time
}
