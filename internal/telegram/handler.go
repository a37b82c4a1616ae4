package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

const historyLimit = 10

var knownCommands = map[string]struct{}{
	"start":      {},
	"help":       {},
	"events":     {},
	"venue":      {},
	"near":       {},
	"attraction": {},
	"event":      {},
	"history":    {},
}

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

// searchFunc runs one search for a resolved user and returns the reply.
type searchFunc func(ctx context.Context, userID int64) (string, error)

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	// обычный текст - поиск событий
	h.handleEvents(ctx, msg, msg.Text)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	args := normalizeSpaces(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "events":
		h.handleEvents(ctx, msg, args)
	case "venue":
		h.handleVenue(ctx, msg, args)
	case "near":
		h.handleNear(ctx, msg, args)
	case "attraction":
		h.handleAttraction(ctx, msg, args)
	case "event":
		h.handleEvent(ctx, msg, args)
	case "history":
		h.handleHistory(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		h.bot.logger.Error("failed to create user", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	h.bot.Send(msg.Chat.ID, "Добро пожаловать! Я ищу концерты, спектакли и спортивные события через Ticketmaster.\n\n"+
		"Просто напишите название артиста или события, или используйте /help для списка команд.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Доступные команды:</b>

/events запрос - Поиск событий
/venue название [штат] - Поиск площадок
/near широта долгота [радиус] - События рядом (радиус в милях, по умолчанию 10)
/attraction запрос - Поиск артистов и команд
/event ID [ID...] - Подробности о событиях (до 5)
/history - Последние запросы
/help - Показать эту справку

<b>Примеры:</b>
• /events Radiohead
• /venue Fox Theatre GA
• /near 33.7490 -84.3880 25
• /event vvG1zZpGkpe6Hv

Обычный текст без команды ищет события.`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleEvents(ctx context.Context, msg *tgbotapi.Message, keyword string) {
	h.search(ctx, msg, "events", func(ctx context.Context, userID int64) (string, error) {
		res, err := h.bot.searchService.Events(ctx, userID, keyword)
		if err != nil {
			return "", err
		}
		return FormatEvents(res.Items, res.Total), nil
	})
}

func (h *Handler) handleVenue(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		h.bot.Send(msg.Chat.ID, "Укажите название площадки: /venue Fox Theatre GA")
		return
	}

	name, state := ParseVenueArgs(args)
	h.search(ctx, msg, "venue", func(ctx context.Context, userID int64) (string, error) {
		res, err := h.bot.searchService.Venues(ctx, userID, name, state)
		if err != nil {
			return "", err
		}
		return FormatVenues(res.Items, res.Total), nil
	})
}

func (h *Handler) handleNear(ctx context.Context, msg *tgbotapi.Message, args string) {
	lat, long, radius, err := ParseNearArgs(args)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Использование: /near широта долгота [радиус]\nПример: /near 33.7490 -84.3880 25")
		return
	}

	h.search(ctx, msg, "near", func(ctx context.Context, userID int64) (string, error) {
		res, err := h.bot.searchService.Nearby(ctx, userID, lat, long, radius)
		if err != nil {
			return "", err
		}
		return FormatEvents(res.Items, res.Total), nil
	})
}

func (h *Handler) handleAttraction(ctx context.Context, msg *tgbotapi.Message, args string) {
	h.search(ctx, msg, "attraction", func(ctx context.Context, userID int64) (string, error) {
		res, err := h.bot.searchService.Attractions(ctx, userID, args)
		if err != nil {
			return "", err
		}
		return FormatAttractions(res.Items, res.Total), nil
	})
}

func (h *Handler) handleEvent(ctx context.Context, msg *tgbotapi.Message, args string) {
	ids := ParseEventIDs(args)
	if len(ids) == 0 {
		h.bot.Send(msg.Chat.ID, "Укажите ID события: /event vvG1zZpGkpe6Hv")
		return
	}

	h.search(ctx, msg, "event", func(ctx context.Context, userID int64) (string, error) {
		events, err := h.bot.searchService.EventsByID(ctx, userID, ids)
		if err != nil {
			return "", err
		}
		return FormatEventDetails(events), nil
	})
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	records, err := h.bot.searchService.History(ctx, user.ID, historyLimit)
	if err != nil {
		h.bot.logger.Error("failed to load history", zap.Error(err), zap.Int64("user_id", user.ID))
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	h.bot.SendLong(msg.Chat.ID, FormatHistory(records))
}

// search applies the rate limit, resolves the user and sends run's reply
// or an error message.
func (h *Handler) search(ctx context.Context, msg *tgbotapi.Message, command string, run searchFunc) {
	if !h.bot.rateLimiter.Allow(msg.From.ID) {
		resetTime := h.bot.rateLimiter.ResetTime(msg.From.ID)
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", msg.From.ID),
			zap.Time("reset_at", resetTime),
		)
		h.bot.RecordRateLimitHit(msg.From.ID)
		h.bot.Send(msg.Chat.ID, "Слишком много запросов. Пожалуйста, подождите минуту.")
		return
	}

	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.logger.Error("failed to resolve user", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	reply, err := run(ctx, user.ID)
	if err != nil {
		logFn := h.bot.logger.Error
		if isUserError(err) {
			logFn = h.bot.logger.Info
		}
		logFn("search failed",
			zap.Error(err),
			zap.String("command", command),
			zap.Int64("user_id", user.ID),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.SendLong(msg.Chat.ID, reply)
}

// isUserError reports errors caused by the request rather than the system.
func isUserError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyQuery,
		domain.ErrQueryTooLong,
		domain.ErrInvalidStateCode,
		domain.ErrInvalidCoordinates,
		domain.ErrInvalidRadius,
		domain.ErrTooManyIDs,
		domain.ErrNoResults,
		domain.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Пустой запрос. Укажите, что искать."
	case errors.Is(err, domain.ErrQueryTooLong):
		return fmt.Sprintf("Запрос слишком длинный. Максимум %d символов.", domain.MaxQueryLength)
	case errors.Is(err, domain.ErrInvalidStateCode):
		return "Код штата должен состоять из двух букв, например GA."
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return "Некорректные координаты. Широта от -90 до 90, долгота от -180 до 180."
	case errors.Is(err, domain.ErrInvalidRadius):
		return fmt.Sprintf("Радиус должен быть от 0 до %d.", domain.MaxRadius)
	case errors.Is(err, domain.ErrTooManyIDs):
		return fmt.Sprintf("Можно запросить не больше %d событий за раз.", domain.MaxLookupIDs)
	case errors.Is(err, domain.ErrNoResults):
		return "Не найдено результатов по вашему запросу."
	case errors.Is(err, domain.ErrNotFound):
		return "Событие не найдено. Проверьте ID."
	case errors.Is(err, domain.ErrAPIRateLimited):
		return "Сервис поиска перегружен. Попробуйте через минуту."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Сервис поиска недоступен. Мы уже разбираемся."
	case errors.Is(err, domain.ErrAPIFailed):
		return "Не удалось получить данные от Ticketmaster. Попробуйте позже."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}
