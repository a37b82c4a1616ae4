package query

import (
	"context"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

var venueResource = Resource[domain.Venue]{Path: "venues", FromJSON: domain.VenueFromJSON}

// VenueFilter holds the venue search parameters.
type VenueFilter struct {
	Keyword     string
	VenueID     string
	Sort        string // API default name,asc
	StateCode   string
	CountryCode string
	Source      string
	IncludeTest Inclusion
	Page        *int
	Size        *int
	Locale      string
	Extra       Params
}

// VenueQuery searches the venues resource.
type VenueQuery struct {
	Query[domain.Venue]
}

func NewVenueQuery(client discovery.API) *VenueQuery {
	return &VenueQuery{Query: newQuery(client, venueResource)}
}

// Find searches venues matching f.
func (q *VenueQuery) Find(ctx context.Context, f VenueFilter) (*Page[domain.Venue], error) {
	common := Common{
		Keyword:     f.Keyword,
		EntityID:    f.VenueID,
		Sort:        f.Sort,
		IncludeTest: f.IncludeTest,
		Page:        f.Page,
		Size:        f.Size,
		Locale:      f.Locale,
	}
	named := Params{
		"state_code":   optString(f.StateCode),
		"country_code": optString(f.CountryCode),
		"source":       optString(f.Source),
	}
	return q.get(ctx, common, named, f.Extra)
}

// ByName searches venues whose name matches, optionally within one state.
func (q *VenueQuery) ByName(ctx context.Context, name, stateCode string, f VenueFilter) (*Page[domain.Venue], error) {
	f.Keyword = name
	f.StateCode = stateCode
	return q.Find(ctx, f)
}
