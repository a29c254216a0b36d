//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/confirm/internal/authapi"
	"github.com/agenthands/confirm/internal/config"
	"github.com/agenthands/confirm/internal/server"
)

// liveAPI returns the authentication API config from the environment,
// skipping the test when it is not configured.
func liveAPI(t *testing.T) config.AuthAPIConfig {
	t.Helper()
	_ = godotenv.Load("../../.env")

	baseURL := os.Getenv("AUTH_API_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: AUTH_API_URL not set")
	}
	return config.AuthAPIConfig{BaseURL: baseURL}
}

func TestUnknownTokenRejected(t *testing.T) {
	client := authapi.NewClient(liveAPI(t))

	res := client.Confirm(context.Background(), "integration-unknown-token")

	require.Equal(t, authapi.Rejected, res.Outcome, res.String())
	assert.NotEqual(t, http.StatusCreated, res.Status)
}

// TestConfirmFlow consumes CONFIRM_TOKEN: a token can only be activated
// once, so set a fresh one per run.
func TestConfirmFlow(t *testing.T) {
	apiCfg := liveAPI(t)
	token := os.Getenv("CONFIRM_TOKEN")
	if token == "" {
		t.Skip("Skipping integration test: CONFIRM_TOKEN not set")
	}

	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.AuthAPI = apiCfg
	require.NoError(t, cfg.Validate())

	logger := zap.NewExample().Sugar()
	srv := server.NewServer(cfg, authapi.NewClient(cfg.AuthAPI, authapi.WithLogger(logger)), logger)
	r := srv.SetupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/confirm/"+url.PathEscape(token), nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/success", w.Header().Get("Location"))

	// The token is spent now.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/confirm/"+url.PathEscape(token), nil))
	assert.Equal(t, "/error", w.Header().Get("Location"))
}
