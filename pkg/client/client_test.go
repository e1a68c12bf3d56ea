package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webcode-dev/webcode/pkg/types"
)

func TestFetchNotDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fetch-callback", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("vscode-requestId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	p := &Poller{BaseURL: srv.URL}
	_, err := p.Fetch(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotDelivered)
}

func TestFetchDelivered(t *testing.T) {
	want := types.URIComponents{Scheme: "vscode", Path: "/open", Query: "code=1"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	p := &Poller{BaseURL: srv.URL}
	uri, err := p.Fetch(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, want, *uri)
}

func TestFetchEmptyRequestID(t *testing.T) {
	p := &Poller{BaseURL: "http://127.0.0.1:0"}
	_, err := p.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestAwaitRetriesUntilDelivered(t *testing.T) {
	var calls atomic.Int32
	want := types.URIComponents{Scheme: "vscode", Path: "/done"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	p := &Poller{BaseURL: srv.URL, InitialInterval: 10 * time.Millisecond, MaxInterval: 20 * time.Millisecond}
	uri, err := p.Await(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, want, *uri)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestAwaitContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	p := &Poller{BaseURL: srv.URL, InitialInterval: 10 * time.Millisecond}
	_, err := p.Await(ctx, "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotDelivered) || errors.Is(err, context.DeadlineExceeded))
}
