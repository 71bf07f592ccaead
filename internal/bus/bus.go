package bus

import (
	"log/slog"
	"sync"
	"time"

	"zonajp/internal/domain"
)

const publishTimeout = 10 * time.Second

// InMemoryBus is a Go-channel based message bus for in-process communication.
type InMemoryBus struct {
	inbound   chan domain.InboundMessage
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	logger    *slog.Logger
}

// New creates a new InMemoryBus with the given buffer size.
func New(bufferSize int, logger *slog.Logger) *InMemoryBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &InMemoryBus{
		inbound: make(chan domain.InboundMessage, bufferSize),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Publish blocks up to 10 seconds if the bus is full instead of dropping.
// A concurrent Close ends the wait and drops the message.
func (b *InMemoryBus) Publish(msg domain.InboundMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("attempted to publish to closed bus", "chat_id", msg.ChatID)
		return
	}

	select {
	case b.inbound <- msg:
	default:
		b.logger.Warn("inbound bus full, waiting...", "chat_id", msg.ChatID, "sender", msg.SenderID)
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case b.inbound <- msg:
			b.logger.Info("message delivered after wait", "chat_id", msg.ChatID)
		case <-b.done:
			b.logger.Warn("message dropped: bus closed while full", "chat_id", msg.ChatID)
		case <-timer.C:
			b.logger.Error("message dropped: bus full for 10s",
				"chat_id", msg.ChatID,
				"sender", msg.SenderID,
			)
		}
	}
}

func (b *InMemoryBus) Subscribe() <-chan domain.InboundMessage {
	return b.inbound
}

// Close stops accepting messages and closes the subscriber channel. Safe to call twice.
func (b *InMemoryBus) Close() {
	b.closeOnce.Do(func() {
		// Wake publishers waiting on a full buffer; they hold the read lock.
		close(b.done)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.closed = true
		close(b.inbound)
	})
}
