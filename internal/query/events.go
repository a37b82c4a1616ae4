package query

import (
	"context"
	"strconv"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

var eventResource = Resource[domain.Event]{Path: "events", FromJSON: domain.EventFromJSON}

const (
	defaultEventSort    = "date,asc"
	defaultLocationSort = "relevance,desc"
	defaultRadius       = 10
	defaultUnit         = "miles"
)

// EventFilter holds the event search parameters. Zero fields are not sent.
type EventFilter struct {
	Sort                string // default date,asc
	Latlong             string
	Radius              string
	Unit                string // miles or km
	StartDateTime       string // YYYY-MM-DDTHH:MM:SSZ
	EndDateTime         string
	OnsaleStartDateTime string
	OnsaleEndDateTime   string
	CountryCode         string
	StateCode           string // "GA", not "Georgia"
	VenueID             string
	AttractionID        string
	SegmentID           string
	SegmentName         string
	ClassificationName  []string
	ClassificationID    string
	MarketID            string
	PromoterID          string
	DMAID               string
	IncludeTBA          Inclusion
	IncludeTBD          Inclusion
	ClientVisibility    string
	Keyword             string
	EventID             string
	Source              string // ticketmaster, universe, frontgate, tmr
	IncludeTest         Inclusion
	Page                *int
	Size                *int
	Locale              string
	Extra               Params
}

// EventQuery searches the events resource.
type EventQuery struct {
	Query[domain.Event]
}

// NewEventQuery returns an events query over client.
func NewEventQuery(client discovery.API) *EventQuery {
	return &EventQuery{Query: newQuery(client, eventResource)}
}

// Find searches events matching f.
func (q *EventQuery) Find(ctx context.Context, f EventFilter) (*Page[domain.Event], error) {
	if f.Sort == "" {
		f.Sort = defaultEventSort
	}

	common := Common{
		Keyword:     f.Keyword,
		EntityID:    f.EventID,
		Sort:        f.Sort,
		IncludeTest: f.IncludeTest,
		Page:        f.Page,
		Size:        f.Size,
		Locale:      f.Locale,
	}
	named := Params{
		"latlong":                optString(f.Latlong),
		"radius":                 optString(f.Radius),
		"unit":                   optString(f.Unit),
		"start_date_time":        optString(f.StartDateTime),
		"end_date_time":          optString(f.EndDateTime),
		"onsale_start_date_time": optString(f.OnsaleStartDateTime),
		"onsale_end_date_time":   optString(f.OnsaleEndDateTime),
		"country_code":           optString(f.CountryCode),
		"state_code":             optString(f.StateCode),
		"venue_id":               optString(f.VenueID),
		"attraction_id":          optString(f.AttractionID),
		"segment_id":             optString(f.SegmentID),
		"segment_name":           optString(f.SegmentName),
		"classification_name":    optStrings(f.ClassificationName),
		"classification_id":      optString(f.ClassificationID),
		"market_id":              optString(f.MarketID),
		"promoter_id":            optString(f.PromoterID),
		"dma_id":                 optString(f.DMAID),
		"include_tba":            optString(string(f.IncludeTBA)),
		"include_tbd":            optString(string(f.IncludeTBD)),
		"client_visibility":      optString(f.ClientVisibility),
		"source":                 optString(f.Source),
	}
	return q.get(ctx, common, named, f.Extra)
}

// ByLocation searches events within radius of a coordinate. A radius <= 0
// means 10 and an empty unit means miles. The sort defaults to
// relevance,desc. Other fields of f are passed through to Find.
func (q *EventQuery) ByLocation(ctx context.Context, latitude, longitude float64, radius int, unit string, f EventFilter) (*Page[domain.Event], error) {
	if radius <= 0 {
		radius = defaultRadius
	}
	if unit == "" {
		unit = defaultUnit
	}
	if f.Sort == "" {
		f.Sort = defaultLocationSort
	}

	f.Latlong = formatCoordinate(latitude) + "," + formatCoordinate(longitude)
	f.Radius = strconv.Itoa(radius)
	f.Unit = unit
	return q.Find(ctx, f)
}

func formatCoordinate(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
