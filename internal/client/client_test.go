package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiredTokenIsRefreshedOnce(t *testing.T) {
	const workers = 8

	var refreshCalls, rejected atomic.Int32
	allRejected := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/refresh":
			// Hold the rotation until every worker has been turned
			// away with the stale token, so all of them join the same
			// in-flight refresh.
			<-allRejected
			refreshCalls.Add(1)
			var body struct {
				RefreshToken string `json:"refreshToken"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "refresh-old", body.RefreshToken)
			writeData(w, http.StatusOK, map[string]string{
				"accessToken":  "access-new",
				"refreshToken": "refresh-new",
			})
		case "/api/v1/cart":
			if r.Header.Get("Authorization") != "Bearer access-new" {
				if rejected.Add(1) == workers {
					close(allRejected)
				}
				writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
				return
			}
			writeData(w, http.StatusOK, map[string]interface{}{"items": []interface{}{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession("access-old", "refresh-old")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Cart(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), refreshCalls.Load(), "concurrent 401s must share one refresh")
	assert.True(t, c.Authenticated())
}

func TestRefreshFailureDropsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/refresh":
			writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
		case "/api/v1/cart":
			writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession("access-old", "refresh-old")

	expired := false
	c.OnSessionExpired = func() { expired = true }

	_, err := c.Cart(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindAuth, KindOf(err))
	assert.True(t, expired, "OnSessionExpired must fire")
	assert.False(t, c.Authenticated())
}

func TestErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/promo/validate":
			writeError(w, http.StatusUnprocessableEntity, "promo_expired", "promo code has expired")
		case "/api/v1/orders":
			writeError(w, http.StatusBadRequest, "validation_error", "customer name required")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.ValidatePromo(context.Background(), "OLD10", 1500)
	require.Error(t, err)
	assert.Equal(t, KindBusiness, KindOf(err))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "promo_expired", apiErr.Code)

	_, err = c.CreateOrder(context.Background(), OrderDraft{})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestNetworkErrorKind(t *testing.T) {
	c := New("http://127.0.0.1:1")

	_, err := c.Cart(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
