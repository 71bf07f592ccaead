// Package handler maps inbound chat messages to replies: exact slash
// commands and case-insensitive keyword auto-replies.
package handler

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"zonajp/internal/content"
	"zonajp/internal/domain"
)

const markdown = "Markdown"

// Reply is the text a handler answers with.
type Reply struct {
	Text      string
	ParseMode string
}

// HandlerFunc builds the reply for one inbound message. It must not have side
// effects; the router does the sending.
type HandlerFunc func(msg domain.InboundMessage) Reply

type keywordRule struct {
	name    string
	pattern *regexp.Regexp
	handle  HandlerFunc
}

// Registry holds command and keyword handlers. It is built once at startup
// and read-only afterwards.
type Registry struct {
	commands map[string]HandlerFunc
	keywords []keywordRule
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{commands: make(map[string]HandlerFunc)}
}

// NewRegistry returns a registry with the bot's commands and keyword replies
// built from cat.
func NewRegistry(cat *content.Catalog) (*Registry, error) {
	r := New()

	r.Command("start", static(cat.Start, ""))
	r.Command("help", static(cat.Help, markdown))
	r.Command("getid", getID(cat.GetIDNoThread))
	r.Command("pola", static(cat.Pola, markdown))
	r.Command("promo", static(cat.Promo, markdown))
	r.Command("caradeposit", static(cat.CaraDeposit, markdown))

	kw := cat.Keywords
	for _, rule := range []struct {
		name string
		kw   content.Keyword
	}{
		{"bukti", kw.Bukti},
		{"pola", kw.Pola},
		{"promo", kw.Promo},
	} {
		if err := r.Hears(rule.name, rule.kw.Pattern, static(rule.kw.Reply, "")); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Command registers h for /name. Names are matched case-insensitively.
func (r *Registry) Command(name string, h HandlerFunc) {
	r.commands[strings.ToLower(name)] = h
}

// Hears registers h for non-command text matching pattern (case-insensitive).
// Rules fire in registration order and several may fire for one message.
func (r *Registry) Hears(name, pattern string, h HandlerFunc) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("keyword %s: %w", name, err)
	}
	r.keywords = append(r.keywords, keywordRule{name: name, pattern: re, handle: h})
	return nil
}

// Commands returns the registered command names, sorted.
func (r *Registry) Commands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Replies returns the outbound messages for msg. A registered command yields
// exactly one reply and skips keyword matching; any other text (including
// unknown commands) yields one reply per matching keyword rule.
func (r *Registry) Replies(msg domain.InboundMessage) []domain.OutboundMessage {
	if msg.IsCommand() {
		if h, ok := r.commands[strings.ToLower(msg.Command)]; ok {
			return []domain.OutboundMessage{replyTo(msg, h(msg))}
		}
	}

	var out []domain.OutboundMessage
	for _, rule := range r.keywords {
		if rule.pattern.MatchString(msg.Text) {
			out = append(out, replyTo(msg, rule.handle(msg)))
		}
	}
	return out
}

// replyTo addresses a reply to the chat of msg, staying in its forum topic.
func replyTo(msg domain.InboundMessage, reply Reply) domain.OutboundMessage {
	out := domain.OutboundMessage{
		ChatID:    strconv.FormatInt(msg.ChatID, 10),
		Text:      reply.Text,
		ParseMode: reply.ParseMode,
	}
	if msg.IsTopic {
		out.ThreadID = msg.ThreadID
	}
	return out
}

func static(text, parseMode string) HandlerFunc {
	return func(domain.InboundMessage) Reply {
		return Reply{Text: text, ParseMode: parseMode}
	}
}

// getID echoes the chat title, type, ID and thread ID in a code block so
// admins can copy them into the environment.
func getID(noThread string) HandlerFunc {
	return func(msg domain.InboundMessage) Reply {
		title := msg.ChatTitle
		if title == "" {
			title = "-"
		}
		thread := noThread
		if msg.ThreadID != 0 {
			thread = strconv.Itoa(msg.ThreadID)
		}
		info := fmt.Sprintf("Chat Title: %s\nChat Type: %s\nChat ID: %d\nThread ID: %s\n",
			title, msg.ChatType, msg.ChatID, thread)
		return Reply{Text: "```" + info + "```", ParseMode: markdown}
	}
}
