package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"zonajp/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramPollRetryDelay = 3 * time.Second
	telegramClientSlack    = 10 * time.Second
)

var telegramAllowedUpdates = `["message","channel_post"]`

var (
	_ domain.Messenger    = (*Telegram)(nil)
	_ domain.UpdateSource = (*Telegram)(nil)
)

// Telegram implements domain.Messenger and domain.UpdateSource on top of the
// Bot API. Requests go through MakeRequest so forum-topic fields
// (message_thread_id) survive in both directions.
type Telegram struct {
	bot         *tgbotapi.BotAPI
	pollTimeout int
	logger      *slog.Logger
}

type TelegramConfig struct {
	Token       string
	PollTimeout int    // long-poll timeout in seconds
	Endpoint    string // API endpoint format, defaults to tgbotapi.APIEndpoint
	Client      tgbotapi.HTTPClient
	Logger      *slog.Logger
}

// NewTelegram connects to the Bot API (getMe) and returns a ready client.
func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = tgbotapi.APIEndpoint
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: time.Duration(cfg.PollTimeout)*time.Second + telegramClientSlack}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.Endpoint, cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	cfg.Logger.Info("telegram bot connected",
		"username", bot.Self.UserName,
		"id", bot.Self.ID,
	)
	return &Telegram{
		bot:         bot,
		pollTimeout: cfg.PollTimeout,
		logger:      cfg.Logger,
	}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Username returns the bot's @username without the @.
func (t *Telegram) Username() string { return t.bot.Self.UserName }

// Start polls getUpdates and publishes every text message to bus until ctx
// is cancelled. Poll errors are logged and retried after a short delay.
func (t *Telegram) Start(ctx context.Context, bus domain.MessageBus) error {
	t.logger.Info("telegram polling started", "timeout", t.pollTimeout)

	offset := 0
	for {
		if ctx.Err() != nil {
			t.logger.Info("telegram channel stopping")
			return nil
		}

		raws, err := t.getUpdates(offset)
		if err != nil {
			if ctx.Err() != nil {
				t.logger.Info("telegram channel stopping")
				return nil
			}
			t.logger.Warn("telegram getUpdates failed, retrying", "err", err, "retry_in", telegramPollRetryDelay)
			select {
			case <-ctx.Done():
				t.logger.Info("telegram channel stopping")
				return nil
			case <-time.After(telegramPollRetryDelay):
			}
			continue
		}

		for _, raw := range raws {
			msg, updateID, ok, err := decodeUpdate(raw, t.bot.Self.UserName)
			if err != nil {
				t.logger.Warn("telegram update decode failed", "err", err)
				continue
			}
			if updateID >= offset {
				offset = updateID + 1
			}
			if !ok {
				continue
			}
			t.logger.Debug("telegram message received",
				"chat_id", msg.ChatID,
				"thread_id", msg.ThreadID,
				"command", msg.Command,
				"text_len", len(msg.Text),
			)
			bus.Publish(msg)
		}
	}
}

// Stop is a no-op: polling stops when Start's context is cancelled.
func (t *Telegram) Stop() error {
	return nil
}

// Send posts one sendMessage request. The error carries the Bot API
// description (e.g. "Bad Request: chat not found").
func (t *Telegram) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.MakeRequest("sendMessage", sendMessageParams(msg)); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

func sendMessageParams(msg domain.OutboundMessage) tgbotapi.Params {
	params := tgbotapi.Params{}
	params["chat_id"] = msg.ChatID
	params["text"] = msg.Text
	params.AddNonEmpty("parse_mode", msg.ParseMode)
	params.AddBool("disable_web_page_preview", msg.DisableWebPagePreview)
	params.AddNonZero("message_thread_id", msg.ThreadID)
	params.AddNonZero("reply_to_message_id", msg.ReplyToMessageID)
	return params
}

func (t *Telegram) getUpdates(offset int) ([]json.RawMessage, error) {
	params := tgbotapi.Params{}
	params.AddNonZero("offset", offset)
	params.AddNonZero("timeout", t.pollTimeout)
	params["allowed_updates"] = telegramAllowedUpdates

	resp, err := t.bot.MakeRequest("getUpdates", params)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(resp.Result, &raws); err != nil {
		return nil, fmt.Errorf("decode getUpdates result: %w", err)
	}
	return raws, nil
}

// threadFields carries the forum-topic fields tgbotapi.Message does not model.
type threadFields struct {
	MessageThreadID int  `json:"message_thread_id"`
	IsTopicMessage  bool `json:"is_topic_message"`
}

// decodeUpdate converts one raw update into an InboundMessage. Media captions
// count as text for keyword matching; commands come from message text only.
// ok is false for updates with neither (joins, stickers, edits). botName is
// this bot's username, used to ignore commands addressed to other bots.
func decodeUpdate(raw json.RawMessage, botName string) (msg domain.InboundMessage, updateID int, ok bool, err error) {
	var u tgbotapi.Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return msg, 0, false, fmt.Errorf("decode update: %w", err)
	}
	var extra struct {
		Message     *threadFields `json:"message"`
		ChannelPost *threadFields `json:"channel_post"`
	}
	if err := json.Unmarshal(raw, &extra); err != nil {
		return msg, u.UpdateID, false, fmt.Errorf("decode update thread: %w", err)
	}

	m, thread := u.Message, extra.Message
	if m == nil {
		m, thread = u.ChannelPost, extra.ChannelPost
	}
	if m == nil || m.Chat == nil {
		return msg, u.UpdateID, false, nil
	}
	text := m.Text
	if text == "" {
		text = m.Caption
	}
	if text == "" {
		return msg, u.UpdateID, false, nil
	}

	msg = domain.InboundMessage{
		UpdateID:  u.UpdateID,
		MessageID: m.MessageID,
		ChatID:    m.Chat.ID,
		ChatTitle: m.Chat.Title,
		ChatType:  m.Chat.Type,
		Text:      text,
		Command:   commandFor(m, botName),
		Timestamp: m.Time(),
	}
	if thread != nil {
		msg.ThreadID = thread.MessageThreadID
		msg.IsTopic = thread.IsTopicMessage
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
	}
	return msg, u.UpdateID, true, nil
}

// commandFor returns the command in m without its @suffix, or "" when the
// suffix names a different bot.
func commandFor(m *tgbotapi.Message, botName string) string {
	if !m.IsCommand() {
		return ""
	}
	cmd, target, _ := strings.Cut(m.CommandWithAt(), "@")
	if target != "" && !strings.EqualFold(target, botName) {
		return ""
	}
	return cmd
}

// APIErrorCode returns the Bot API error code wrapped in err, or 0.
func APIErrorCode(err error) int {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
