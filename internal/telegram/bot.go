package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ticket-bot/internal/metrics"
	"github.com/kitbuilder587/ticket-bot/internal/ratelimit"
	"github.com/kitbuilder587/ticket-bot/internal/service"
)

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
}

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api           botAPI
	userService   service.UserService
	searchService service.SearchService
	logger        *zap.Logger
	metrics       *metrics.Metrics
	handler       *Handler
	rateLimiter   *ratelimit.Limiter
	wg            sync.WaitGroup
}

func New(cfg BotConfig, userSvc service.UserService, searchSvc service.SearchService, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	bot := newBot(api, userSvc, searchSvc, logger, m, ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RequestsPerMinute,
	}))

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func newBot(api botAPI, userSvc service.UserService, searchSvc service.SearchService, logger *zap.Logger, m *metrics.Metrics, limiter *ratelimit.Limiter) *Bot {
	bot := &Bot{
		api:           api,
		userService:   userSvc,
		searchService: searchSvc,
		logger:        logger,
		metrics:       m,
		rateLimiter:   limiter,
	}
	bot.handler = NewHandler(bot)
	return bot
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.rateLimiter.Stop()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				b.rateLimiter.Stop()
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()
	command := commandLabel(update.Message)

	if b.metrics != nil {
		b.metrics.IncRequestsInFlight()
		defer b.metrics.DecRequestsInFlight()
	}

	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
			if b.metrics != nil {
				b.metrics.RecordRequest(command, "panic", time.Since(startTime))
			}
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)

	if b.metrics != nil {
		b.metrics.RecordRequest(command, "processed", time.Since(startTime))
	}
}

// commandLabel keeps the metric label set bounded: unknown commands are
// reported as "unknown", plain text as "text".
func commandLabel(msg *tgbotapi.Message) string {
	if msg == nil || !msg.IsCommand() {
		return "text"
	}
	if _, ok := knownCommands[msg.Command()]; ok {
		return msg.Command()
	}
	return "unknown"
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.api == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendLong splits text at Telegram's length limit and sends the parts in order.
func (b *Bot) SendLong(chatID int64, text string) {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if err := b.Send(chatID, part); err != nil {
			b.logger.Error("failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
		}
	}
}

func (b *Bot) SendTyping(chatID int64) {
	if b.api == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		b.logger.Debug("failed to send typing action", zap.Error(err))
	}
}

func (b *Bot) RecordRateLimitHit(userID int64) {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit(strconv.FormatInt(userID, 10))
	}
}
