package http_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	httpapi "github.com/burenvoorburen/helpdesk/internal/helpdesk/http"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store/drivers/sqlite"
	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer         = "helpdesk-test"
	testBootstrapToken = "let-me-in"
	testPassword       = "correct horse battery"
	coordinatorEmail   = "coordinator@example.com"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "helpdesk-http")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// Every test client shares one IP; login flows would trip the strict profile.
	httpx.StrictLimit = httpx.LenientLimit

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testServer struct {
	*httptest.Server
	Client *helpdesksdk.Client
	Store  *sqlite.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "helpdesk.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	router := httpapi.NewRouter(keys, jwtx.NewVerifierEdDSA(keys, testIssuer), "test", st, slogx.Discard(), nil)
	router.RequestService = &service.RequestService{Store: st}
	router.IdentityService = &service.IdentityService{Store: st}
	router.SessionService = &service.SessionService{Store: st, Signer: signer, Issuer: testIssuer, TTL: time.Hour}
	router.BootstrapService = &service.BootstrapService{Store: st, Token: testBootstrapToken}
	router.DirectoryService = &service.DirectoryService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, Client: helpdesksdk.NewClient(srv.URL), Store: st}
}

// coordinator bootstraps the first coordinator and logs them in.
func (ts *testServer) coordinator(t *testing.T) *helpdesksdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := ts.Client.Bootstrap(ctx, testBootstrapToken, coordinatorEmail, testPassword)
	require.NoError(t, err)
	sess, err := ts.Client.CoordinatorLogin(ctx, coordinatorEmail, testPassword)
	require.NoError(t, err)
	return sess
}

// volunteer registers email, has coord approve it and logs it in.
func (ts *testServer) volunteer(t *testing.T, coord *helpdesksdk.Session, email string) *helpdesksdk.Session {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, ts.Client.Register(ctx, email, testPassword))

	pending, err := coord.ListPendingVolunteers(ctx)
	require.NoError(t, err)
	var id string
	for _, u := range pending {
		if u.Email == email {
			id = u.ID
		}
	}
	require.NotEmpty(t, id, "registered volunteer should be pending")
	require.NoError(t, coord.ApproveVolunteer(ctx, id))

	sess, err := ts.Client.VolunteerLogin(ctx, email, testPassword)
	require.NoError(t, err)
	return sess
}

func validHelpRequest() helpdesksdk.CreateHelpRequest {
	return helpdesksdk.CreateHelpRequest{
		RequesterName: "Mevrouw Jansen",
		Kind:          helpdesksdk.KindGroceries,
		Message:       "Boodschappen voor de week",
		Date:          "2026-11-02",
		TimeSlot:      "ochtend",
		Street:        "Dorpsstraat",
		HouseNumber:   "12",
		PostalCode:    "1234 AB",
		City:          "Utrecht",
		Phone:         "0612345678",
	}
}

func requireAPIError(t *testing.T, err error, status int, code string) *helpdesksdk.APIError {
	t.Helper()
	var apiErr *helpdesksdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
