package telegram

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
	"github.com/kitbuilder587/ticket-bot/internal/ratelimit"
	"github.com/kitbuilder587/ticket-bot/internal/service"
)

func testEvents() *service.Results[domain.Event] {
	return &service.Results[domain.Event]{
		Items: []domain.Event{
			{ID: "vvG1zZpGkpe6Hv", Name: "Radiohead", LocalStartDate: "2026-11-02", LocalStartTime: "20:00:00"},
		},
		Total: 1,
	}
}

func TestHandler_PlainTextSearchesEvents(t *testing.T) {
	searchSvc := &MockSearchService{EventsResult: testEvents()}
	bot, api := createTestBot(searchSvc)

	bot.handler.HandleMessage(context.Background(), createTestMessage(42, "radiohead"))

	if !reflect.DeepEqual(searchSvc.Calls, []string{"Events"}) {
		t.Fatalf("calls = %v, want [Events]", searchSvc.Calls)
	}
	if searchSvc.LastArgs[0] != int64(42) || searchSvc.LastArgs[1] != "radiohead" {
		t.Errorf("args = %v", searchSvc.LastArgs)
	}
	if !strings.Contains(api.LastText(), "Radiohead") {
		t.Errorf("reply = %q", api.LastText())
	}
	if api.requests != 1 {
		t.Errorf("typing actions = %d, want 1", api.requests)
	}
}

func TestHandler_CommandsRouteToService(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCall string
		wantArgs []any
	}{
		{"events", "/events  Radiohead  live", "Events", []any{int64(1), "Radiohead live"}},
		{"venue with state", "/venue Fox Theatre GA", "Venues", []any{int64(1), "Fox Theatre", "GA"}},
		{"venue without state", "/venue Tabernacle", "Venues", []any{int64(1), "Tabernacle", ""}},
		{"near", "/near 33.749 -84.388 25", "Nearby", []any{int64(1), 33.749, -84.388, 25}},
		{"near without radius", "/near 33.749,-84.388", "Nearby", []any{int64(1), 33.749, -84.388, 0}},
		{"attraction", "/attraction Outkast", "Attractions", []any{int64(1), "Outkast"}},
		{"event", "/event a b a", "EventsByID", []any{int64(1), []string{"a", "b"}}},
		{"history", "/history", "History", []any{int64(1), historyLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searchSvc := &MockSearchService{
				EventsResult:      testEvents(),
				VenuesResult:      &service.Results[domain.Venue]{Items: []domain.Venue{{ID: "KovZpZAEdntA", Name: "Fox Theatre"}}, Total: 1},
				AttractionsResult: &service.Results[domain.Attraction]{Items: []domain.Attraction{{ID: "K8vZ9171", Name: "Outkast"}}, Total: 1},
				LookupResult:      testEvents().Items,
			}
			bot, api := createTestBot(searchSvc)

			bot.handler.HandleMessage(context.Background(), createTestMessage(1, tt.text))

			if len(searchSvc.Calls) != 1 || searchSvc.Calls[0] != tt.wantCall {
				t.Fatalf("calls = %v, want [%s]", searchSvc.Calls, tt.wantCall)
			}
			if !reflect.DeepEqual(searchSvc.LastArgs, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", searchSvc.LastArgs, tt.wantArgs)
			}
			if len(api.Texts()) == 0 {
				t.Error("expected a reply")
			}
		})
	}
}

func TestHandler_UsageMessages(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/venue", "/venue Fox Theatre GA"},
		{"/near", "Использование: /near"},
		{"/near north south", "Использование: /near"},
		{"/event", "Укажите ID события"},
		{"/unknown", "Неизвестная команда"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			searchSvc := &MockSearchService{}
			bot, api := createTestBot(searchSvc)

			bot.handler.HandleMessage(context.Background(), createTestMessage(1, tt.text))

			if len(searchSvc.Calls) != 0 {
				t.Errorf("service should not be called, got %v", searchSvc.Calls)
			}
			if !strings.Contains(api.LastText(), tt.want) {
				t.Errorf("reply = %q, want it to contain %q", api.LastText(), tt.want)
			}
		})
	}
}

func TestHandler_StartAndHelp(t *testing.T) {
	var created []int64
	userSvc := &MockUserService{
		GetOrCreateFunc: func(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
			created = append(created, telegramID)
			return &domain.User{ID: telegramID, TelegramID: telegramID, Username: username}, nil
		},
	}
	api := newFakeAPI()
	bot := newBot(api, userSvc, &MockSearchService{}, zap.NewNop(), nil, ratelimit.New(ratelimit.Config{RequestsPerMinute: 10}))

	bot.handler.HandleMessage(context.Background(), createTestMessage(7, "/start"))
	if !reflect.DeepEqual(created, []int64{7}) {
		t.Errorf("created users = %v", created)
	}
	if !strings.Contains(api.LastText(), "Добро пожаловать") {
		t.Errorf("start reply = %q", api.LastText())
	}

	bot.handler.HandleMessage(context.Background(), createTestMessage(7, "/help"))
	if !strings.Contains(api.LastText(), "/near") {
		t.Errorf("help reply = %q", api.LastText())
	}
}

func TestHandler_UserServiceFailure(t *testing.T) {
	userSvc := &MockUserService{
		GetOrCreateFunc: func(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
			return nil, errors.New("db down")
		},
	}
	searchSvc := &MockSearchService{}
	api := newFakeAPI()
	bot := newBot(api, userSvc, searchSvc, zap.NewNop(), nil, ratelimit.New(ratelimit.Config{RequestsPerMinute: 10}))

	bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/events jazz"))

	if len(searchSvc.Calls) != 0 {
		t.Errorf("service should not be called, got %v", searchSvc.Calls)
	}
	if api.LastText() != "Произошла ошибка. Попробуйте позже." {
		t.Errorf("reply = %q", api.LastText())
	}
}

func TestHandler_SearchErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no results", domain.ErrNoResults, "Не найдено результатов"},
		{"empty", domain.ErrEmptyQuery, "Пустой запрос"},
		{"upstream", fmt.Errorf("%w: 503", domain.ErrAPIFailed), "Ticketmaster"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searchSvc := &MockSearchService{Error: tt.err}
			bot, api := createTestBot(searchSvc)

			bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/events jazz"))

			if !strings.Contains(api.LastText(), tt.want) {
				t.Errorf("reply = %q, want it to contain %q", api.LastText(), tt.want)
			}
		})
	}
}

func TestHandler_HistoryError(t *testing.T) {
	searchSvc := &MockSearchService{Error: errors.New("db down")}
	bot, api := createTestBot(searchSvc)

	bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/history"))

	if api.LastText() != "Произошла ошибка. Попробуйте позже." {
		t.Errorf("reply = %q", api.LastText())
	}
}

func TestHandler_HistoryIsNotRateLimited(t *testing.T) {
	searchSvc := &MockSearchService{}
	api := newFakeAPI()
	bot := newBot(api, &MockUserService{}, searchSvc, zap.NewNop(), nil, ratelimit.New(ratelimit.Config{RequestsPerMinute: 1}))

	for i := 0; i < 3; i++ {
		bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/history"))
	}

	if len(searchSvc.Calls) != 3 {
		t.Errorf("history calls = %d, want 3", len(searchSvc.Calls))
	}
	if api.LastText() != "История поиска пуста." {
		t.Errorf("reply = %q", api.LastText())
	}
}

func TestHandler_RateLimit(t *testing.T) {
	searchSvc := &MockSearchService{EventsResult: testEvents()}
	api := newFakeAPI()
	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: 2})
	defer limiter.Stop()
	bot := newBot(api, &MockUserService{}, searchSvc, zap.NewNop(), nil, limiter)

	for i := 0; i < 3; i++ {
		bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/events jazz"))
	}

	if len(searchSvc.Calls) != 2 {
		t.Errorf("search calls = %d, want 2", len(searchSvc.Calls))
	}
	if !strings.Contains(api.LastText(), "Слишком много запросов") {
		t.Errorf("reply = %q", api.LastText())
	}

	// другой пользователь не затронут
	bot.handler.HandleMessage(context.Background(), createTestMessage(2, "/events jazz"))
	if len(searchSvc.Calls) != 3 {
		t.Errorf("search calls = %d, want 3", len(searchSvc.Calls))
	}
}

func TestHandler_IgnoresIncompleteMessages(t *testing.T) {
	searchSvc := &MockSearchService{}
	bot, api := createTestBot(searchSvc)

	bot.handler.HandleMessage(context.Background(), nil)
	msg := createTestMessage(1, "jazz")
	msg.From = nil
	bot.handler.HandleMessage(context.Background(), msg)

	if len(searchSvc.Calls) != 0 || len(api.Texts()) != 0 {
		t.Errorf("calls = %v, texts = %v", searchSvc.Calls, api.Texts())
	}
}

func TestMapErrorToMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrEmptyQuery, "Пустой запрос. Укажите, что искать."},
		{domain.ErrQueryTooLong, "Запрос слишком длинный. Максимум 200 символов."},
		{domain.ErrInvalidStateCode, "Код штата должен состоять из двух букв, например GA."},
		{domain.ErrInvalidCoordinates, "Некорректные координаты. Широта от -90 до 90, долгота от -180 до 180."},
		{domain.ErrInvalidRadius, "Радиус должен быть от 0 до 19999."},
		{domain.ErrTooManyIDs, "Можно запросить не больше 5 событий за раз."},
		{domain.ErrNoResults, "Не найдено результатов по вашему запросу."},
		{domain.ErrNotFound, "Событие не найдено. Проверьте ID."},
		{domain.ErrAPIRateLimited, "Сервис поиска перегружен. Попробуйте через минуту."},
		{domain.ErrUnauthorized, "Сервис поиска недоступен. Мы уже разбираемся."},
		{domain.ErrAPIFailed, "Не удалось получить данные от Ticketmaster. Попробуйте позже."},
		{errors.New("random"), "Произошла ошибка. Попробуйте позже."},
		{fmt.Errorf("lookup: %w", domain.ErrNotFound), "Событие не найдено. Проверьте ID."},
		{context.DeadlineExceeded, "Произошла ошибка. Попробуйте позже."},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := mapErrorToMessage(tt.err); got != tt.want {
				t.Errorf("mapErrorToMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUserError(t *testing.T) {
	if !isUserError(fmt.Errorf("wrap: %w", domain.ErrInvalidRadius)) {
		t.Error("invalid radius should be a user error")
	}
	if isUserError(domain.ErrAPIFailed) {
		t.Error("api failure is not a user error")
	}
	if isUserError(context.DeadlineExceeded) {
		t.Error("timeout is not a user error")
	}
}

func TestRateLimiter_ResetTimeAfterHit(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: 1})
	defer limiter.Stop()

	limiter.Allow(5)
	if limiter.Allow(5) {
		t.Fatal("second request should be rejected")
	}
	if reset := limiter.ResetTime(5); time.Until(reset) <= 0 {
		t.Errorf("reset time %v should be in the future", reset)
	}
}
