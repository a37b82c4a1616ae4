// Package query turns typed search filters into Discovery API parameters
// and decodes the responses into domain models.
//
// Every resource shares one implementation, Query[T], parameterized by a
// Resource descriptor. Filters use semantic names (venue_id, state_code)
// that Normalize rewrites to wire names (venueId, stateCode) right before
// the request is handed to the client.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
)

// Resource describes one searchable API resource: its path and the
// constructor building a model from a JSON object.
type Resource[T any] struct {
	Path     string
	FromJSON func(json.RawMessage) (T, error)
}

// Page is one decoded page of search results.
type Page[T any] struct {
	Items []T
	Info  discovery.PageInfo
	Links discovery.Links
}

// Common holds the parameters every resource accepts. The zero value of
// each field means "not set"; Page and Size are pointers so that page 0
// can be requested explicitly.
type Common struct {
	Keyword     string
	EntityID    string
	Sort        string
	IncludeTest Inclusion
	Page        *int
	Size        *int
	Locale      string
}

// Inclusion is the API's yes/no/only switch for test, TBA and TBD entities.
type Inclusion string

const (
	IncludeYes  Inclusion = "yes"
	IncludeNo   Inclusion = "no"
	IncludeOnly Inclusion = "only"
)

// Query runs searches and by-ID lookups against one resource.
type Query[T any] struct {
	client   discovery.API
	resource Resource[T]
}

func newQuery[T any](client discovery.API, resource Resource[T]) Query[T] {
	return Query[T]{client: client, resource: resource}
}

// ByID fetches one entity and builds its model from the raw response.
func (q Query[T]) ByID(ctx context.Context, id string) (T, error) {
	var zero T
	if strings.TrimSpace(id) == "" {
		return zero, fmt.Errorf("%w: empty %s id", discovery.ErrInvalidRequest, q.resource.Path)
	}

	raw, err := q.client.GetByID(ctx, q.resource.Path, id)
	if err != nil {
		return zero, err
	}
	return q.resource.FromJSON(raw)
}

// get merges extra, named and common parameters, normalizes them and runs
// the search. Named values override extras of the same name unless nil.
func (q Query[T]) get(ctx context.Context, common Common, named Params, extra Params) (*Page[T], error) {
	params := make(Params, len(extra)+len(named)+7)
	for k, v := range extra {
		params[k] = v
	}
	merge(params, named)
	merge(params, Params{
		"keyword":      optString(common.Keyword),
		"entity_id":    optString(common.EntityID),
		"sort":         optString(common.Sort),
		"include_test": optString(string(common.IncludeTest)),
		"page":         optInt(common.Page),
		"size":         optInt(common.Size),
		"locale":       optString(common.Locale),
	})

	page, err := q.client.Search(ctx, q.resource.Path, Normalize(params))
	if err != nil {
		return nil, err
	}
	return q.decode(page)
}

func (q Query[T]) decode(page *discovery.Page) (*Page[T], error) {
	out := &Page[T]{
		Items: make([]T, 0, len(page.Items)),
		Info:  page.Info,
		Links: page.Links,
	}
	for i, raw := range page.Items {
		item, err := q.resource.FromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%s item %d: %w", q.resource.Path, i, err)
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// merge copies the set values of src into dst. Unset values are skipped so
// that they can neither replace an extra nor clear a wire key in Normalize.
func merge(dst, src Params) {
	for k, v := range src {
		if isUnset(v) {
			continue
		}
		dst[k] = v
	}
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func optStrings(s []string) any {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Int returns a pointer to n, for Common.Page and Common.Size.
func Int(n int) *int {
	return &n
}
