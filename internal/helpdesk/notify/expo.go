package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

const (
	DefaultExpoHost = "https://exp.host"
	expoAPIPath     = "/--/api/v2"

	// expoBatchSize is the most messages the push API accepts per call.
	expoBatchSize = 100
)

// ExpoSink delivers notifications through the Expo push service.
type ExpoSink struct {
	client *expo.PushClient
	http   *http.Client
	logger *slog.Logger
}

// NewExpoSink talks to host, or to Expo's public host when host is empty.
func NewExpoSink(host, accessToken string, logger *slog.Logger) *ExpoSink {
	if host == "" {
		host = DefaultExpoHost
	}
	if logger == nil {
		logger = slog.Default()
	}
	hc := &http.Client{Timeout: 15 * time.Second}
	return &ExpoSink{
		client: expo.NewPushClient(&expo.ClientConfig{
			Host:        host,
			APIURL:      expoAPIPath,
			AccessToken: accessToken,
			HTTPClient:  hc,
		}),
		http:   hc,
		logger: logger,
	}
}

// Send publishes one message per token in batches. A failed batch aborts the
// send; failed tickets are collected and reported together once every batch
// went out.
func (s *ExpoSink) Send(ctx context.Context, tokens []string, msg Message) error {
	var ticketErrs []error
	sent := 0

	for start := 0; start < len(tokens); start += expoBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+expoBatchSize, len(tokens))

		batch := make([]expo.PushMessage, 0, end-start)
		for _, raw := range tokens[start:end] {
			to, err := expo.NewExponentPushToken(raw)
			if err != nil {
				ticketErrs = append(ticketErrs, fmt.Errorf("token %q: %w", raw, err))
				continue
			}
			batch = append(batch, expo.PushMessage{
				To:       []expo.ExponentPushToken{to},
				Title:    msg.Title,
				Body:     msg.Body,
				Data:     msg.Data,
				Sound:    "default",
				Priority: expo.DefaultPriority,
			})
		}
		if len(batch) == 0 {
			continue
		}

		// The SDK has no context support; the client timeout bounds each call.
		responses, err := s.client.PublishMultiple(batch)
		if err != nil {
			return fmt.Errorf("expo push: %w", err)
		}
		sent += len(batch)

		for i := range responses {
			if err := responses[i].ValidateResponse(); err != nil {
				s.logger.WarnContext(ctx, "push ticket rejected",
					slog.String("token", string(batch[i].To[0])),
					slog.Any("error", err),
				)
				ticketErrs = append(ticketErrs, err)
			}
		}
	}

	if len(ticketErrs) > 0 {
		return fmt.Errorf("expo push: %d of %d messages failed: %w", len(ticketErrs), len(tokens), errors.Join(ticketErrs...))
	}
	if sent > 0 {
		s.logger.DebugContext(ctx, "push batch delivered", slog.Int("messages", sent))
	}
	return nil
}

func (s *ExpoSink) Close() error {
	s.http.CloseIdleConnections()
	return nil
}
