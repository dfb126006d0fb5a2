package restclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"reviewlens/internal/adapters/restclient"
	"reviewlens/internal/domain"
)

func TestClient_GetJSON_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			if r.Header.Get("X-Token") != "secret" {
				t.Errorf("header not forwarded: %v", r.Header)
			}
			_, _ = w.Write([]byte(`{"id":123}`))
		}
	}))
	defer ts.Close()

	cl := restclient.New("test", 100, time.Second, nil) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var got map[string]any
	err := cl.GetJSON(ctx, "thing", ts.URL, http.Header{"X-Token": {"secret"}}, &got)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id, ok := got["id"].(float64); !ok || int(id) != 123 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, domain.ErrSourceAuth},
		{http.StatusForbidden, domain.ErrSourceAuth},
		{http.StatusNotFound, domain.ErrSourceNotFound},
		{http.StatusUnprocessableEntity, nil},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"errors":"nope"}`))
		}))

		cl := restclient.New("shopify", 100, time.Second, nil)
		_, err := cl.Get(context.Background(), "shop.json", ts.URL, nil)
		ts.Close()

		if err == nil {
			t.Fatalf("%d: expected error", tc.status)
		}
		if tc.sentinel != nil && !errors.Is(err, tc.sentinel) {
			t.Fatalf("%d: expected %v, got %v", tc.status, tc.sentinel, err)
		}
		var se *domain.StatusError
		if !errors.As(err, &se) || se.Code != tc.status || se.Message != "nope" || se.Service != "shopify" {
			t.Fatalf("%d: unexpected status error %#v", tc.status, se)
		}
	}
}

func TestClient_TooManyRequestsGivesUp(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cl := restclient.New("judgeme", 100, time.Second, nil)
	_, err := cl.Get(context.Background(), "reviews", ts.URL, nil)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 4 {
		t.Fatalf("expected 4 attempts, got %d", hits)
	}
}

func TestClient_ContextCanceledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cl := restclient.New("test", 100, time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := cl.Get(ctx, "x", ts.URL, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
