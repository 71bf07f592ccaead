package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"zonajp/internal/bus"
	"zonajp/internal/domain"
)

type recordingMessenger struct {
	mu   sync.Mutex
	sent []domain.OutboundMessage
	err  error
}

func (m *recordingMessenger) Send(_ context.Context, msg domain.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestRouter_HandleSendsEveryReply(t *testing.T) {
	m := &recordingMessenger{}
	router := NewRouter(RouterConfig{Registry: newTestRegistry(t), Messenger: m})

	router.Handle(context.Background(), text("pola promo"))
	if m.count() != 2 {
		t.Fatalf("expected 2 replies sent, got %d", m.count())
	}
}

func TestRouter_HandleLogsSendErrors(t *testing.T) {
	var logs bytes.Buffer
	m := &recordingMessenger{err: errors.New("Forbidden: bot was blocked by the user")}
	router := NewRouter(RouterConfig{
		Registry:  newTestRegistry(t),
		Messenger: m,
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})

	router.Handle(context.Background(), command("start"))
	if !strings.Contains(logs.String(), "reply failed") {
		t.Errorf("send error not logged: %s", logs.String())
	}
}

func TestRouter_HandleRecoversPanics(t *testing.T) {
	r := New()
	r.Command("boom", func(domain.InboundMessage) Reply { panic("kaboom") })
	var logs bytes.Buffer
	router := NewRouter(RouterConfig{
		Registry:  r,
		Messenger: &recordingMessenger{},
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})

	router.Handle(context.Background(), command("boom"))
	if !strings.Contains(logs.String(), "handler panic") {
		t.Errorf("panic not logged: %s", logs.String())
	}
}

func TestRouter_RunConsumesBusUntilClosed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := bus.New(8, logger)
	m := &recordingMessenger{}
	router := NewRouter(RouterConfig{Registry: newTestRegistry(t), Bus: b, Messenger: m, Logger: logger})

	done := make(chan struct{})
	go func() {
		router.Run(context.Background())
		close(done)
	}()

	b.Publish(command("start"))
	b.Publish(text("ada bonus?"))
	b.Publish(text("selamat pagi"))
	b.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop after bus close")
	}
	if m.count() != 2 {
		t.Errorf("expected 2 replies, got %d", m.count())
	}
}

func TestRouter_RunStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := bus.New(1, logger)
	defer b.Close()
	router := NewRouter(RouterConfig{Registry: New(), Bus: b, Messenger: &recordingMessenger{}, Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		router.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop after cancel")
	}
}
