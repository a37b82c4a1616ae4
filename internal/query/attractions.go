package query

import (
	"context"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

var attractionResource = Resource[domain.Attraction]{Path: "attractions", FromJSON: domain.AttractionFromJSON}

// AttractionFilter holds the attraction search parameters.
type AttractionFilter struct {
	Sort         string // API default name,asc
	Keyword      string
	AttractionID string
	Source       string
	IncludeTest  Inclusion
	Page         *int
	Size         *int
	Locale       string
	Extra        Params
}

// AttractionQuery searches the attractions resource.
type AttractionQuery struct {
	Query[domain.Attraction]
}

func NewAttractionQuery(client discovery.API) *AttractionQuery {
	return &AttractionQuery{Query: newQuery(client, attractionResource)}
}

// Find searches attractions matching f.
func (q *AttractionQuery) Find(ctx context.Context, f AttractionFilter) (*Page[domain.Attraction], error) {
	common := Common{
		Keyword:     f.Keyword,
		EntityID:    f.AttractionID,
		Sort:        f.Sort,
		IncludeTest: f.IncludeTest,
		Page:        f.Page,
		Size:        f.Size,
		Locale:      f.Locale,
	}
	return q.get(ctx, common, Params{"source": optString(f.Source)}, f.Extra)
}
