package bus

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"zonajp/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := New(4, testLogger())
	defer b.Close()

	b.Publish(domain.InboundMessage{ChatID: 1, Text: "halo"})
	b.Publish(domain.InboundMessage{ChatID: 2, Text: "promo"})

	first := <-b.Subscribe()
	second := <-b.Subscribe()
	if first.ChatID != 1 || second.ChatID != 2 {
		t.Fatalf("messages out of order: %d, %d", first.ChatID, second.ChatID)
	}
}

func TestBus_DefaultBufferSize(t *testing.T) {
	b := New(0, testLogger())
	defer b.Close()
	if cap(b.inbound) != 100 {
		t.Errorf("expected default buffer 100, got %d", cap(b.inbound))
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	b := New(1, testLogger())
	b.Close()
	b.Close() // second close must not panic

	b.Publish(domain.InboundMessage{ChatID: 1})

	if _, ok := <-b.Subscribe(); ok {
		t.Fatal("expected closed channel after Close")
	}
}

func TestBus_CloseWakesBlockedPublisher(t *testing.T) {
	b := New(1, testLogger())
	b.Publish(domain.InboundMessage{ChatID: 1})

	published := make(chan struct{})
	go func() {
		b.Publish(domain.InboundMessage{ChatID: 2}) // buffer full, waits
		close(published)
	}()
	time.Sleep(50 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		b.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked behind a waiting publisher")
	}
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher still waiting after Close")
	}
}
