package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/metrics"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/notify"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/idx"
)

// NotificationService polls for new help requests and pushes a notification
// to every approved volunteer when one shows up.
type NotificationService struct {
	Store    store.Store
	Sink     notify.Sink
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewNotificationService creates the poller. If interval is 0 or negative,
// defaults to 10 seconds.
func NewNotificationService(store store.Store, sink notify.Sink, logger *slog.Logger, interval time.Duration) *NotificationService {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &NotificationService{
		Store:    store,
		Sink:     sink,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the poll loop in the background. Call Stop to shut it down.
func (s *NotificationService) Start() {
	go s.run()
	s.Logger.Info("notification service started", "interval", s.Interval)
}

// Stop ends the poll loop and waits for an in-flight poll to finish.
func (s *NotificationService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("notification service stopped")
}

func (s *NotificationService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// The first poll only sets the cursor; requests created before start up
	// do not trigger a notification.
	cursor := s.tick(idx.Zero)

	for {
		select {
		case <-ticker.C:
			cursor = s.tick(cursor)
		case <-s.stopCh:
			return
		}
	}
}

func (s *NotificationService) tick(cursor idx.ID) idx.ID {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	next, err := s.Poll(ctx, cursor)
	if err != nil {
		s.Logger.Error("notification poll failed", slog.Any("error", err))
		return cursor
	}
	return next
}

// Poll compares the newest help request with lastSeen and notifies volunteers
// when a newer one exists. It returns the cursor for the next call. A zero
// lastSeen only primes the cursor. The cursor never moves backwards, so
// deleting the newest request does not cause a notification.
func (s *NotificationService) Poll(ctx context.Context, lastSeen idx.ID) (idx.ID, error) {
	newestStr, err := s.Store.HelpRequests().NewestHelpRequestID(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return lastSeen, nil
	}
	if err != nil {
		return lastSeen, err
	}

	newest, err := idx.Parse(newestStr)
	if err != nil {
		return lastSeen, err
	}

	if lastSeen.IsZero() {
		return newest, nil
	}
	if !idx.After(newest, lastSeen) {
		return lastSeen, nil
	}

	tokens, err := s.Store.Users().ListPushTokens(ctx)
	if err != nil {
		return lastSeen, err
	}

	if len(tokens) > 0 {
		if err := s.Sink.Send(ctx, tokens, notify.NewHelpRequestMessage(newest.String())); err != nil {
			// Delivery is best effort; the request is not announced again.
			metrics.RecordNotification(metrics.OutcomeError)
			s.Logger.Warn("failed to send notifications",
				slog.String("request_id", newest.String()),
				slog.Int("recipients", len(tokens)),
				slog.Any("error", err),
			)
			return newest, nil
		}
		metrics.RecordNotification(metrics.OutcomeOK)
	}

	s.Logger.Info("new help request announced",
		slog.String("request_id", newest.String()),
		slog.Int("recipients", len(tokens)),
	)
	return newest, nil
}
