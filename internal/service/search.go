package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
	"github.com/kitbuilder587/ticket-bot/internal/domain"
	"github.com/kitbuilder587/ticket-bot/internal/metrics"
	"github.com/kitbuilder587/ticket-bot/internal/query"
	"github.com/kitbuilder587/ticket-bot/internal/repository"
)

const (
	defaultPageSize     = 5
	defaultHistoryLimit = 10
	lookupConcurrency   = 3
)

// EventCache keeps events fetched by ID. Implementations treat their own
// failures as misses.
type EventCache interface {
	Get(ctx context.Context, id string) (domain.Event, bool)
	Set(ctx context.Context, id string, event domain.Event)
}

// Results is one page of models plus the total the API reported.
type Results[T any] struct {
	Items []T
	Total int
}

type SearchService interface {
	Events(ctx context.Context, userID int64, keyword string) (*Results[domain.Event], error)
	Venues(ctx context.Context, userID int64, name, stateCode string) (*Results[domain.Venue], error)
	Nearby(ctx context.Context, userID int64, latitude, longitude float64, radius int) (*Results[domain.Event], error)
	Attractions(ctx context.Context, userID int64, keyword string) (*Results[domain.Attraction], error)
	EventsByID(ctx context.Context, userID int64, ids []string) ([]domain.Event, error)
	History(ctx context.Context, userID int64, limit int) ([]domain.SearchRecord, error)
}

type SearchServiceDeps struct {
	API      *query.API
	Searches repository.SearchRepository
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// EventCache keeps events fetched by ID. Nil disables caching.
	EventCache EventCache

	// PageSize is the number of results per reply; 0 means 5.
	PageSize int
}

type searchService struct {
	api      *query.API
	searches repository.SearchRepository
	logger   *zap.Logger
	metrics  *metrics.Metrics
	events   EventCache
	pageSize int
}

func NewSearchService(deps SearchServiceDeps) SearchService {
	if deps.PageSize <= 0 {
		deps.PageSize = defaultPageSize
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &searchService{
		api:      deps.API,
		searches: deps.Searches,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		events:   deps.EventCache,
		pageSize: deps.PageSize,
	}
}

func (s *searchService) Events(ctx context.Context, userID int64, keyword string) (*Results[domain.Event], error) {
	req := domain.SearchRequest{UserID: userID, Kind: domain.SearchEvents, Text: keyword}
	if err := prepare(&req); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := s.api.Events.Find(ctx, query.EventFilter{
		Keyword: req.Text,
		Size:    query.Int(s.pageSize),
	})
	s.observe("events", start, err)
	if err != nil {
		return nil, mapAPIError(err)
	}

	return finish(ctx, s, req, req.Text, page)
}

func (s *searchService) Venues(ctx context.Context, userID int64, name, stateCode string) (*Results[domain.Venue], error) {
	req := domain.SearchRequest{UserID: userID, Kind: domain.SearchVenues, Text: name, StateCode: stateCode}
	if err := prepare(&req); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := s.api.Venues.ByName(ctx, req.Text, req.StateCode, query.VenueFilter{
		Size: query.Int(s.pageSize),
	})
	s.observe("venues", start, err)
	if err != nil {
		return nil, mapAPIError(err)
	}

	return finish(ctx, s, req, strings.TrimSpace(req.Text+" "+req.StateCode), page)
}

func (s *searchService) Nearby(ctx context.Context, userID int64, latitude, longitude float64, radius int) (*Results[domain.Event], error) {
	req := domain.SearchRequest{
		UserID:    userID,
		Kind:      domain.SearchNearby,
		Latitude:  latitude,
		Longitude: longitude,
		Radius:    radius,
	}
	if err := prepare(&req); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := s.api.Events.ByLocation(ctx, req.Latitude, req.Longitude, req.Radius, "", query.EventFilter{
		Size: query.Int(s.pageSize),
	})
	s.observe("events", start, err)
	if err != nil {
		return nil, mapAPIError(err)
	}

	text := strconv.FormatFloat(latitude, 'f', -1, 64) + "," + strconv.FormatFloat(longitude, 'f', -1, 64)
	if radius > 0 {
		text += " r" + strconv.Itoa(radius)
	}
	return finish(ctx, s, req, text, page)
}

func (s *searchService) Attractions(ctx context.Context, userID int64, keyword string) (*Results[domain.Attraction], error) {
	req := domain.SearchRequest{UserID: userID, Kind: domain.SearchAttractions, Text: keyword}
	if err := prepare(&req); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := s.api.Attractions.Find(ctx, query.AttractionFilter{
		Keyword: req.Text,
		Size:    query.Int(s.pageSize),
	})
	s.observe("attractions", start, err)
	if err != nil {
		return nil, mapAPIError(err)
	}

	return finish(ctx, s, req, req.Text, page)
}

// EventsByID fetches the events concurrently and returns them in input
// order. Cached events are not fetched again. The first failure cancels
// the remaining lookups.
func (s *searchService) EventsByID(ctx context.Context, userID int64, ids []string) ([]domain.Event, error) {
	req := domain.SearchRequest{UserID: userID, Kind: domain.SearchLookup, IDs: ids}
	if err := prepare(&req); err != nil {
		return nil, err
	}

	events := make([]domain.Event, len(req.IDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)

	for i, id := range req.IDs {
		if s.events != nil {
			if event, ok := s.events.Get(ctx, id); ok {
				events[i] = event
				continue
			}
		}

		g.Go(func() error {
			start := time.Now()
			event, err := s.api.Events.ByID(gctx, id)
			s.observe("events", start, err)
			if err != nil {
				return fmt.Errorf("event %s: %w", id, err)
			}
			events[i] = event
			if s.events != nil {
				s.events.Set(gctx, id, event)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, mapAPIError(err)
	}

	s.record(ctx, req, strings.Join(req.IDs, " "), len(events))
	return events, nil
}

func (s *searchService) History(ctx context.Context, userID int64, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.searches.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// finish records the search and converts the page. Methods cannot have
// type parameters, hence a function.
func finish[T any](ctx context.Context, s *searchService, req domain.SearchRequest, text string, page *query.Page[T]) (*Results[T], error) {
	s.record(ctx, req, text, len(page.Items))

	if len(page.Items) == 0 {
		return nil, domain.ErrNoResults
	}

	total := page.Info.TotalElements
	if total < len(page.Items) {
		total = len(page.Items)
	}
	return &Results[T]{Items: page.Items, Total: total}, nil
}

// record saves the search to history. A failure is logged and counted but
// never fails the search itself.
func (s *searchService) record(ctx context.Context, req domain.SearchRequest, text string, count int) {
	if s.searches == nil {
		return
	}

	rec := &domain.SearchRecord{
		UserID:      req.UserID,
		Kind:        req.Kind,
		Query:       text,
		ResultCount: count,
	}
	if err := s.searches.Create(ctx, rec); err != nil {
		s.logger.Warn("failed to save search history",
			zap.Error(err),
			zap.Int64("user_id", req.UserID),
			zap.String("kind", string(req.Kind)),
		)
		if s.metrics != nil {
			s.metrics.RecordHistoryError()
		}
	}
}

func (s *searchService) observe(resource string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordAPIRequest(resource, status, time.Since(start))
}

func prepare(req *domain.SearchRequest) error {
	req.Sanitize()
	return req.Validate()
}

// mapAPIError translates discovery failures into domain errors, keeping the
// original in the chain.
func mapAPIError(err error) error {
	var target error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, discovery.ErrNotFound):
		target = domain.ErrNotFound
	case errors.Is(err, discovery.ErrUnauthorized):
		target = domain.ErrUnauthorized
	case errors.Is(err, discovery.ErrRateLimit):
		target = domain.ErrAPIRateLimited
	default:
		target = domain.ErrAPIFailed
	}
	return fmt.Errorf("%w: %w", target, err)
}
