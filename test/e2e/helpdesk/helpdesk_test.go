//go:build e2e

package helpdesk_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	client := helpdesksdk.NewClient(setupContainer(t, relaxedRateLimits))

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestVolunteerJourney(t *testing.T) {
	baseURL := setupContainer(t, relaxedRateLimits)
	client := helpdesksdk.NewClient(baseURL)
	ctx := t.Context()

	coord := bootstrapCoordinator(t, client)
	vera := approvedVolunteer(t, client, coord, "vera@example.com")
	require.NoError(t, vera.UpdatePushToken(ctx, "ExponentPushToken[vera]"))

	// The mobile client talks to the /api prefix.
	mobile := helpdesksdk.NewClient(baseURL + "/api")
	created, err := mobile.CreateHelpRequest(ctx, helpdesksdk.CreateHelpRequest{
		RequesterName: "Meneer de Boer",
		Kind:          helpdesksdk.KindTransport,
		Date:          "2026-11-03",
		Street:        "Kerkweg",
		City:          "Amersfoort",
		Phone:         "0611112222",
	})
	require.NoError(t, err)

	open, err := vera.ListHelpRequests(ctx, helpdesksdk.ViewAvailable)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Empty(t, open[0].Phone)

	require.NoError(t, vera.AcceptHelpRequest(ctx, created.ID))

	held, err := vera.GetHelpRequest(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "0611112222", held.Phone)

	require.NoError(t, vera.CancelHelpRequest(ctx, created.ID))
	require.NoError(t, coord.DeleteHelpRequest(ctx, created.ID))

	_, err = coord.GetHelpRequest(ctx, created.ID)
	var apiErr *helpdesksdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestSessionsSurviveRestartOfClient(t *testing.T) {
	client := helpdesksdk.NewClient(setupContainer(t, relaxedRateLimits))
	coord := bootstrapCoordinator(t, client)

	// A session is a bearer token; a fresh client can reuse it.
	reused := helpdesksdk.NewClient(client.BaseURL).NewSession(coord.Token)
	_, err := reused.ListPendingVolunteers(t.Context())
	require.NoError(t, err)
}

func TestLoginRateLimit(t *testing.T) {
	client := helpdesksdk.NewClient(setupContainer(t, nil))
	ctx := t.Context()

	var lastErr error
	for range 6 {
		_, lastErr = client.VolunteerLogin(ctx, "nobody@example.com", "wrong")
	}

	var apiErr *helpdesksdk.APIError
	require.True(t, errors.As(lastErr, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, helpdesksdk.CodeRateLimited, apiErr.Code)
}
