package usermodule_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/usermodule"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/circuitbreaker"
)

func newServer(t *testing.T, handler http.HandlerFunc) *usermodule.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return usermodule.NewClient(&config.UserModuleConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestClient_PersonExists(t *testing.T) {
	var gotPath, gotAuth string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAuth = r.URL.Path, r.Header.Get("Authorization")
		if r.URL.Path == "/api/person/search/ext-1" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"external_id":"ext-1"}}`))
			return
		}
		http.NotFound(w, r)
	})
	ctx := context.Background()

	exists, err := client.PersonExists(ctx, "ext-1", "tok")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "/api/person/search/ext-1", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)

	exists, err = client.PersonExists(ctx, "ext-2", "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, gotAuth)
}

func TestClient_Unauthorized(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.PersonExists(context.Background(), "ext-1", "expired")

	var statusErr *usermodule.UnexpectedStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx := context.Background()

	for range 5 {
		_, err := client.PersonExists(ctx, "ext-1", "tok")
		require.Error(t, err)
	}
	_, err := client.PersonExists(ctx, "ext-1", "tok")

	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 5, calls)
}
