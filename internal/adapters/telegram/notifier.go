package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"orquestra/internal/adapters/config"
	"orquestra/internal/agents"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
	"orquestra/pkg/templates"
)

const (
	// Telegram rejects messages above 4096 characters; leave headroom for
	// the notification header.
	maxReportLen = 3500

	httpTimeout = 30 * time.Second
)

// sender is the slice of the bot API the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes the final report to a Telegram chat after a run completes.
// Delivery is best-effort: failures are logged, never propagated to the run.
type Notifier struct {
	api     sender
	chatID  int64
	limiter *rate.Limiter
	tmpl    *templates.Registry
	log     *logger.Logger
}

// NewNotifier creates a Telegram notifier from config.
func NewNotifier(cfg config.TelegramConfig) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}
	if cfg.ChatID == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram chat id is required")
	}

	httpClient := &http.Client{Timeout: httpTimeout}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	log := logger.Get().With("component", "telegram_notifier")
	log.Infof("Authorized on account %s", api.Self.UserName)

	return &Notifier{
		api:     api,
		chatID:  cfg.ChatID,
		limiter: rate.NewLimiter(rate.Limit(20), 30), // Telegram limit is 30 msg/sec
		tmpl:    templates.Get(),
		log:     log,
	}, nil
}

// NotifyRunCompleted sends the run summary and final report to the chat.
func (n *Notifier) NotifyRunCompleted(ctx context.Context, result *agents.RunResult) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait failed")
	}

	text, err := n.tmpl.Render("notifications/run_completed", map[string]interface{}{
		"Query":    result.Query,
		"Agents":   agentList(result),
		"Duration": result.Duration.Round(100 * time.Millisecond).String(),
		"Tokens":   fmt.Sprintf("%d", result.TotalTokens()),
		"Cost":     fmt.Sprintf("%.4f", result.CostUSD),
		"Report":   truncate(result.FinalReport, maxReportLen),
	})
	if err != nil {
		return errors.Wrap(err, "failed to render notification")
	}

	start := time.Now()

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"

	if _, err := n.api.Send(msg); err != nil {
		n.log.Errorw("Failed to send notification",
			"chat_id", n.chatID,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return errors.Wrap(err, "failed to send notification")
	}

	n.log.Debugw("Notification sent",
		"chat_id", n.chatID,
		"text_length", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

func agentList(result *agents.RunResult) string {
	if len(result.Selected) == 0 {
		return "none"
	}
	names := make([]string, len(result.Selected))
	for i, agent := range result.Selected {
		names[i] = agent.String()
	}
	return strings.Join(names, ", ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
