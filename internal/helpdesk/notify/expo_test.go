package notify_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/notify"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	To    []string          `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

type ticket struct {
	Status  string            `json:"status"`
	ID      string            `json:"id,omitempty"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type expoRecorder struct {
	mu      sync.Mutex
	auth    string
	batches [][]pushed
}

func (r *expoRecorder) got() (string, [][]pushed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.auth, r.batches
}

// expoServer answers every message with the ticket returned by answer.
func expoServer(t *testing.T, answer func(p pushed) ticket) (*httptest.Server, *expoRecorder) {
	t.Helper()
	rec := &expoRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/--/api/v2/push/send", r.URL.Path)

		var batch []pushed
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		rec.mu.Lock()
		rec.auth = r.Header.Get("Authorization")
		rec.batches = append(rec.batches, batch)
		rec.mu.Unlock()

		tickets := make([]ticket, len(batch))
		for i, p := range batch {
			tickets[i] = answer(p)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": tickets})
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func okTicket(pushed) ticket { return ticket{Status: "ok", ID: "ticket"} }

func TestExpoSinkBatches(t *testing.T) {
	srv, rec := expoServer(t, okTicket)

	tokens := make([]string, 250)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("ExponentPushToken[%d]", i)
	}

	sink := notify.NewExpoSink(srv.URL, "secret", slogx.Discard())
	require.NoError(t, sink.Send(context.Background(), tokens, notify.NewHelpRequestMessage("01ABC")))
	require.NoError(t, sink.Close())

	auth, got := rec.got()
	require.Equal(t, "Bearer secret", auth)
	require.Len(t, got, 3)
	require.Len(t, got[0], 100)
	require.Len(t, got[1], 100)
	require.Len(t, got[2], 50)

	first := got[0][0]
	require.Equal(t, []string{"ExponentPushToken[0]"}, first.To)
	require.Equal(t, "default", first.Sound)
	require.Equal(t, "Nieuwe hulpaanvraag!", first.Title)
	require.Equal(t, "new_help_request", first.Data["type"])
	require.Equal(t, "01ABC", first.Data["requestId"])
}

func TestExpoSinkNoTokensSendsNothing(t *testing.T) {
	srv, rec := expoServer(t, okTicket)

	require.NoError(t, notify.NewExpoSink(srv.URL, "", slogx.Discard()).Send(context.Background(), nil, notify.NewHelpRequestMessage("x")))
	_, got := rec.got()
	require.Empty(t, got)
}

func TestExpoSinkReportsTicketErrors(t *testing.T) {
	srv, rec := expoServer(t, func(p pushed) ticket {
		if p.To[0] == "ExponentPushToken[stale]" {
			return ticket{
				Status:  "error",
				Message: `"ExponentPushToken[stale]" is not a registered push notification recipient`,
				Details: map[string]string{"error": "DeviceNotRegistered"},
			}
		}
		return okTicket(p)
	})

	tokens := []string{"ExponentPushToken[fresh]", "ExponentPushToken[stale]"}
	err := notify.NewExpoSink(srv.URL, "", slogx.Discard()).Send(context.Background(), tokens, notify.NewHelpRequestMessage("x"))
	require.ErrorContains(t, err, "1 of 2 messages failed")
	_, got := rec.got()
	require.Len(t, got, 1)
	require.Len(t, got[0], 2, "the healthy token is still delivered")
}

func TestExpoSinkSkipsMalformedTokens(t *testing.T) {
	srv, rec := expoServer(t, okTicket)

	tokens := []string{"not-a-token", "ExponentPushToken[ok]"}
	err := notify.NewExpoSink(srv.URL, "", slogx.Discard()).Send(context.Background(), tokens, notify.NewHelpRequestMessage("x"))
	require.ErrorContains(t, err, "1 of 2 messages failed")

	_, got := rec.got()
	require.Len(t, got, 1)
	require.Len(t, got[0], 1)
	require.Equal(t, []string{"ExponentPushToken[ok]"}, got[0][0].To)
}

func TestExpoSinkReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := notify.NewExpoSink(srv.URL, "", slogx.Discard()).Send(context.Background(), []string{"ExponentPushToken[t]"}, notify.NewHelpRequestMessage("x"))
	require.ErrorContains(t, err, "expo push")
}
