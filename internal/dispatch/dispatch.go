// Package dispatch sends broadcast messages to the two configured
// destinations. Sends are best effort: an unconfigured destination is skipped
// and a platform error is logged and reported in the Result, never returned
// as an error or retried.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"zonajp/internal/config"
	"zonajp/internal/domain"
)

const defaultParseMode = "Markdown"

// Destination names where a broadcast goes.
type Destination string

const (
	Community Destination = "community"
	Topic     Destination = "topic"
)

type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is the outcome of one send attempt.
type Result struct {
	Destination Destination
	Status      Status
	Err         error
}

// OK reports whether the send did not fail. A skipped send is OK.
func (r Result) OK() bool { return r.Status != StatusFailed }

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", r.Destination, r.Status, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Destination, r.Status)
}

// Option overrides a default of the outgoing message.
type Option func(*domain.OutboundMessage)

// WithParseMode sets the parse mode; "" sends plain text.
func WithParseMode(mode string) Option {
	return func(m *domain.OutboundMessage) { m.ParseMode = mode }
}

// WithLinkPreview enables or disables the web page preview.
func WithLinkPreview(enabled bool) Option {
	return func(m *domain.OutboundMessage) { m.DisableWebPagePreview = !enabled }
}

func WithThreadID(id int) Option {
	return func(m *domain.OutboundMessage) { m.ThreadID = id }
}

func WithReplyTo(messageID int) Option {
	return func(m *domain.OutboundMessage) { m.ReplyToMessageID = messageID }
}

// Dispatcher wraps a Messenger with the destination guards and defaults.
type Dispatcher struct {
	cfg       *config.Config
	messenger domain.Messenger
	logger    *slog.Logger
}

func New(cfg *config.Config, messenger domain.Messenger, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{cfg: cfg, messenger: messenger, logger: logger}
}

// SendToCommunity sends text to the community chat. No-op when
// COMMUNITY_CHAT_ID is unset.
func (d *Dispatcher) SendToCommunity(ctx context.Context, text string, opts ...Option) Result {
	if !d.cfg.CommunityConfigured() {
		return Result{Destination: Community, Status: StatusSkipped}
	}
	msg := domain.OutboundMessage{
		ChatID:                d.cfg.CommunityChatID,
		Text:                  text,
		ParseMode:             defaultParseMode,
		DisableWebPagePreview: true,
	}
	return d.send(ctx, Community, "sendToCommunity", msg, opts)
}

// SendToTopic sends text to the configured forum topic. No-op unless both
// TOPIC_GROUP_ID and TOPIC_THREAD_ID are set.
func (d *Dispatcher) SendToTopic(ctx context.Context, text string, opts ...Option) Result {
	if !d.cfg.TopicConfigured() {
		return Result{Destination: Topic, Status: StatusSkipped}
	}
	msg := domain.OutboundMessage{
		ChatID:                d.cfg.TopicGroupID,
		Text:                  text,
		ParseMode:             defaultParseMode,
		DisableWebPagePreview: true,
		ThreadID:              d.cfg.TopicThreadID,
	}
	return d.send(ctx, Topic, "sendToTopic", msg, opts)
}

// Send routes to SendToCommunity or SendToTopic.
func (d *Dispatcher) Send(ctx context.Context, dest Destination, text string, opts ...Option) Result {
	switch dest {
	case Community:
		return d.SendToCommunity(ctx, text, opts...)
	case Topic:
		return d.SendToTopic(ctx, text, opts...)
	default:
		err := fmt.Errorf("unknown destination %q", dest)
		d.logger.Error("dispatch error", "err", err)
		return Result{Destination: dest, Status: StatusFailed, Err: err}
	}
}

func (d *Dispatcher) send(ctx context.Context, dest Destination, op string, msg domain.OutboundMessage, opts []Option) Result {
	for _, opt := range opts {
		opt(&msg)
	}
	if err := d.messenger.Send(ctx, msg); err != nil {
		d.logger.Error(op+" error", "err", err.Error(), "chat_id", msg.ChatID)
		return Result{Destination: dest, Status: StatusFailed, Err: err}
	}
	d.logger.Debug(op+" ok", "chat_id", msg.ChatID, "thread_id", msg.ThreadID)
	return Result{Destination: dest, Status: StatusSent}
}
