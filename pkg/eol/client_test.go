package eol_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/eol"
)

func TestProductName(t *testing.T) {
	tests := map[string]string{
		"Node.js":        "nodejs",
		"Amazon Linux":   "amazonlinux",
		"PostgreSQL":     "postgresql",
		"Apache Kafka ":  "apachekafka",
		"dot.net core":   "dotnetcore",
		"already-normal": "already-normal",
	}
	for in, want := range tests {
		assert.Equal(t, want, eol.ProductName(in), in)
	}
}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"cycle": "20", "latest": true}]`))
	}))
	defer server.Close()

	c := eol.NewClient(eol.WithBaseURL(server.URL+"/api/"), eol.WithUserAgent("eolcheck-test"))
	body, err := c.Fetch(context.Background(), "Node.js")
	require.NoError(t, err)

	assert.Equal(t, "/api/nodejs.json", gotPath)
	assert.Equal(t, "eolcheck-test", gotUA)
	assert.JSONEq(t, `[{"cycle": "20", "latest": true}]`, string(body))
}

func TestClient_Fetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := eol.NewClient(eol.WithBaseURL(server.URL))
	_, err := c.Fetch(context.Background(), "nosuchtool")
	require.Error(t, err)

	var statusErr *eol.StatusError
	require.True(t, xerrors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, server.URL+"/nosuchtool.json", statusErr.URL)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := eol.NewClient(eol.WithBaseURL(server.URL), eol.WithTimeout(50*time.Millisecond))
	_, err := c.Fetch(context.Background(), "slow")
	require.Error(t, err)

	var statusErr *eol.StatusError
	assert.False(t, xerrors.As(err, &statusErr), "a timeout is a transport failure, not a status error")
}

func TestClient_ProductURL_Default(t *testing.T) {
	c := eol.NewClient()
	assert.Equal(t, "https://endoflife.date/api/python.json", c.ProductURL("Python"))
}
