// Package notify delivers push notifications to volunteers' devices.
package notify

import (
	"context"
	"log/slog"
)

// Message is one notification fanned out to many devices.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sink delivers a message to a set of Expo push tokens.
type Sink interface {
	Send(ctx context.Context, tokens []string, msg Message) error
	Close() error
}

// NewHelpRequestMessage is sent when a resident submits a new request.
func NewHelpRequestMessage(requestID string) Message {
	return Message{
		Title: "Nieuwe hulpaanvraag!",
		Body:  "Er is een nieuwe hulpaanvraag binnengekomen!",
		Data: map[string]string{
			"type":      "new_help_request",
			"requestId": requestID,
		},
	}
}

// LogSink only logs. Used when no push transport is configured.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(ctx context.Context, tokens []string, msg Message) error {
	s.Logger.InfoContext(ctx, "notification",
		slog.String("title", msg.Title),
		slog.Int("recipients", len(tokens)),
	)
	return nil
}

func (LogSink) Close() error { return nil }
