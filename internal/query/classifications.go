package query

import (
	"context"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

var (
	classificationResource = Resource[domain.Classification]{Path: "classifications", FromJSON: domain.ClassificationFromJSON}
	segmentResource        = Resource[domain.Segment]{Path: "classifications/segments", FromJSON: domain.SegmentFromJSON}
	genreResource          = Resource[domain.Genre]{Path: "classifications/genres", FromJSON: domain.GenreFromJSON}
	subgenreResource       = Resource[domain.Subgenre]{Path: "classifications/subgenres", FromJSON: domain.SubgenreFromJSON}
)

// ClassificationFilter holds the classification search parameters.
type ClassificationFilter struct {
	Sort             string
	Keyword          string
	ClassificationID string
	Source           string
	IncludeTest      Inclusion
	Page             *int
	Size             *int
	Locale           string
	Extra            Params
}

// ClassificationQuery searches the classifications resource.
type ClassificationQuery struct {
	Query[domain.Classification]
}

func NewClassificationQuery(client discovery.API) *ClassificationQuery {
	return &ClassificationQuery{Query: newQuery(client, classificationResource)}
}

// Find searches classifications matching f.
func (q *ClassificationQuery) Find(ctx context.Context, f ClassificationFilter) (*Page[domain.Classification], error) {
	common := Common{
		Keyword:     f.Keyword,
		EntityID:    f.ClassificationID,
		Sort:        f.Sort,
		IncludeTest: f.IncludeTest,
		Page:        f.Page,
		Size:        f.Size,
		Locale:      f.Locale,
	}
	return q.get(ctx, common, Params{"source": optString(f.Source)}, f.Extra)
}

// Filter carries the universal parameters for resources that have no
// filters of their own (segments, genres, subgenres).
type Filter struct {
	Keyword     string
	ID          string
	Sort        string
	Source      string
	IncludeTest Inclusion
	Page        *int
	Size        *int
	Locale      string
	Extra       Params
}

func (q Query[T]) find(ctx context.Context, f Filter) (*Page[T], error) {
	common := Common{
		Keyword:     f.Keyword,
		EntityID:    f.ID,
		Sort:        f.Sort,
		IncludeTest: f.IncludeTest,
		Page:        f.Page,
		Size:        f.Size,
		Locale:      f.Locale,
	}
	return q.get(ctx, common, Params{"source": optString(f.Source)}, f.Extra)
}

// SegmentQuery searches classifications/segments.
type SegmentQuery struct {
	Query[domain.Segment]
}

func NewSegmentQuery(client discovery.API) *SegmentQuery {
	return &SegmentQuery{Query: newQuery(client, segmentResource)}
}

func (q *SegmentQuery) Find(ctx context.Context, f Filter) (*Page[domain.Segment], error) {
	return q.find(ctx, f)
}

// GenreQuery searches classifications/genres.
type GenreQuery struct {
	Query[domain.Genre]
}

func NewGenreQuery(client discovery.API) *GenreQuery {
	return &GenreQuery{Query: newQuery(client, genreResource)}
}

func (q *GenreQuery) Find(ctx context.Context, f Filter) (*Page[domain.Genre], error) {
	return q.find(ctx, f)
}

// SubgenreQuery searches classifications/subgenres.
type SubgenreQuery struct {
	Query[domain.Subgenre]
}

func NewSubgenreQuery(client discovery.API) *SubgenreQuery {
	return &SubgenreQuery{Query: newQuery(client, subgenreResource)}
}

func (q *SubgenreQuery) Find(ctx context.Context, f Filter) (*Page[domain.Subgenre], error) {
	return q.find(ctx, f)
}
