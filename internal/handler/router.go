package handler

import (
	"context"
	"log/slog"

	"zonajp/internal/domain"
)

const defaultConcurrency = 4

// Router consumes inbound messages from the bus and sends the registry's
// replies through the messenger.
type Router struct {
	registry    *Registry
	bus         domain.MessageBus
	messenger   domain.Messenger
	logger      *slog.Logger
	concurrency int
}

type RouterConfig struct {
	Registry    *Registry
	Bus         domain.MessageBus
	Messenger   domain.Messenger
	Logger      *slog.Logger
	Concurrency int // messages handled in parallel, default 4
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Router{
		registry:    cfg.Registry,
		bus:         cfg.Bus,
		messenger:   cfg.Messenger,
		logger:      cfg.Logger,
		concurrency: cfg.Concurrency,
	}
}

// Run blocks until ctx is cancelled or the bus is closed. In-flight handlers
// are waited for before it returns.
func (r *Router) Run(ctx context.Context) {
	r.logger.Info("reply router started", "commands", r.registry.Commands())

	sem := make(chan struct{}, r.concurrency)
	inbound := r.bus.Subscribe()

	defer func() {
		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reply router stopping")
			return
		case msg, ok := <-inbound:
			if !ok {
				r.logger.Info("inbound channel closed, reply router stopping")
				return
			}
			sem <- struct{}{}
			go func(m domain.InboundMessage) {
				defer func() { <-sem }()
				r.Handle(ctx, m)
			}(msg)
		}
	}
}

// Handle sends every reply for msg. Send errors and handler panics are logged;
// they never stop the router.
func (r *Router) Handle(ctx context.Context, msg domain.InboundMessage) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("handler panic", "chat_id", msg.ChatID, "command", msg.Command, "panic", p)
		}
	}()

	for _, reply := range r.registry.Replies(msg) {
		if err := r.messenger.Send(ctx, reply); err != nil {
			r.logger.Error("reply failed",
				"chat_id", msg.ChatID,
				"command", msg.Command,
				"err", err,
			)
		}
	}
}
