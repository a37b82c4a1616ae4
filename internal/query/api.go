package query

import "github.com/kitbuilder587/ticket-bot/internal/discovery"

// API groups one query per resource over a shared client.
type API struct {
	Events          *EventQuery
	Venues          *VenueQuery
	Attractions     *AttractionQuery
	Classifications *ClassificationQuery
	Segments        *SegmentQuery
	Genres          *GenreQuery
	Subgenres       *SubgenreQuery
}

// NewAPI binds every resource query to client.
func NewAPI(client discovery.API) *API {
	return &API{
		Events:          NewEventQuery(client),
		Venues:          NewVenueQuery(client),
		Attractions:     NewAttractionQuery(client),
		Classifications: NewClassificationQuery(client),
		Segments:        NewSegmentQuery(client),
		Genres:          NewGenreQuery(client),
		Subgenres:       NewSubgenreQuery(client),
	}
}
