package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/avolkova/ecommute/internal/logging"
	"github.com/avolkova/ecommute/internal/server/config"
	"github.com/avolkova/ecommute/internal/server/creds"
	"github.com/avolkova/ecommute/internal/server/docstore"
	"github.com/avolkova/ecommute/internal/server/leaderboard"
	"github.com/avolkova/ecommute/internal/server/ledger"
	"github.com/avolkova/ecommute/internal/server/models"
	"github.com/avolkova/ecommute/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := docstore.NewMemoryStore()
	l := ledger.New(store)
	credStore := creds.New(store, creds.PlainHasher{})

	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	users := services.NewUserService(credStore, cfg)
	emissions := services.NewEmissionService(l, leaderboard.New(l))

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(NewRouter(logger, users, emissions))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, rawURL string, params url.Values) (*http.Response, []byte) {
	t.Helper()
	if params != nil {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequest(method, rawURL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestSignupLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/signup", url.Values{"user": {"kevin"}, "pass": {"p"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Duplicate registration is rejected.
	resp, body := do(t, http.MethodPost, srv.URL+"/signup", url.Values{"user": {"kevin"}, "pass": {"p"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "Username already taken")

	resp, body = do(t, http.MethodGet, srv.URL+"/login", url.Values{"user": {"kevin"}, "pass": {"p"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	require.NoError(t, json.Unmarshal(body, &loginResp))
	assert.NotEmpty(t, loginResp["token"])

	resp, _ = do(t, http.MethodGet, srv.URL+"/login", url.Values{"user": {"kevin"}, "pass": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignup_MissingParams(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/signup", url.Values{"user": {"kevin"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/signup", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAccount(t *testing.T) {
	srv := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/signup", url.Values{"user": {"clara"}, "pass": {"p"}})

	resp, _ := do(t, http.MethodDelete, srv.URL+"/signup", url.Values{"user": {"clara"}, "pass": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/signup", url.Values{"user": {"clara"}, "pass": {"p"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/login", url.Values{"user": {"clara"}, "pass": {"p"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	srv := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/signup", url.Values{"user": {"aryan"}, "pass": {"old"}})

	resp, _ := do(t, http.MethodPut, srv.URL+"/signup",
		url.Values{"user": {"aryan"}, "oldpass": {"bad"}, "newpass": {"new"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/signup",
		url.Values{"user": {"aryan"}, "oldpass": {"old"}, "newpass": {"new"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/login", url.Values{"user": {"aryan"}, "pass": {"new"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTrackAndListEmissions(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/trackEmissions",
		url.Values{"user": {"kevin"}, "distance": {"10"}, "mode": {"Bike"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, srv.URL+"/trackEmissions", url.Values{"user": {"kevin"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []models.EmissionEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(90), entries[0].Amount)

	// Unknown user gets an empty list, not an error.
	resp, body = do(t, http.MethodGet, srv.URL+"/trackEmissions", url.Values{"user": {"ghost"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &entries))
	assert.Empty(t, entries)
}

func TestTrackEmissions_InvalidDistance(t *testing.T) {
	srv := newTestServer(t)

	for _, distance := range []string{"abc", "-5", "1.5"} {
		resp, _ := do(t, http.MethodPost, srv.URL+"/trackEmissions",
			url.Values{"user": {"kevin"}, "distance": {distance}, "mode": {"Bike"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "distance=%q", distance)
	}
}

func TestLeaderboard(t *testing.T) {
	srv := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/trackEmissions", url.Values{"user": {"clara"}, "distance": {"10"}, "mode": {"Train"}})
	do(t, http.MethodPost, srv.URL+"/trackEmissions", url.Values{"user": {"kevin"}, "distance": {"10"}, "mode": {"Bike"}})

	resp, body := do(t, http.MethodGet, srv.URL+"/getLeaderboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var standings []leaderboard.Standing
	require.NoError(t, json.Unmarshal(body, &standings))
	require.Len(t, standings, 2)
	assert.Equal(t, leaderboard.Standing{Rank: 1, User: "kevin", Total: 90}, standings[0])
	assert.Equal(t, leaderboard.Standing{Rank: 2, User: "clara", Total: 1770}, standings[1])
}

func TestMethodNotAllowedAndNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, http.MethodPatch, srv.URL+"/signup", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
