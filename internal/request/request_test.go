package request

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"trailing slash on base, leading on path", "https://api.example.com/", "/widgets", "https://api.example.com/widgets"},
		{"no slashes", "https://api.example.com", "widgets", "https://api.example.com/widgets"},
		{"trailing slash only", "https://api.example.com/", "widgets", "https://api.example.com/widgets"},
		{"leading slash only", "https://api.example.com", "/widgets", "https://api.example.com/widgets"},
		{"absolute URL passes through", "https://api.example.com", "https://other.example.com/x", "https://other.example.com/x"},
		{"nested path", "https://api.example.com/v1/", "/pages/abc", "https://api.example.com/v1/pages/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.path))
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, headers map[string]string) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, headers, WithHTTPClient(server.Client())), server
}

func TestDoAppliesHeaders(t *testing.T) {
	var gotAuth, gotOverride string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotOverride = r.Header.Get("X-Custom")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}, map[string]string{"Authorization": "Bearer tok", "X-Custom": "base"})

	_, err := client.Do(context.Background(), Spec{
		URL:     "/things",
		Headers: map[string]string{"X-Custom": "override"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "override", gotOverride)
}

func TestDoGETOmitsBody(t *testing.T) {
	var bodyLen int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodyLen = len(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}, nil)

	_, err := client.Do(context.Background(), Spec{
		Method: http.MethodGet,
		URL:    "/things",
		Body:   map[string]string{"ignored": "yes"},
	})
	require.NoError(t, err)
	assert.Zero(t, bodyLen)
}

func TestDoSerializesJSONBody(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}, nil)

	res, err := client.Do(context.Background(), Spec{
		Method: http.MethodPost,
		URL:    "/things",
		Body:   map[string]string{"name": "Test"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{"name": "Test"}, gotBody)
}

func TestDoNoContentSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	res, err := client.Do(context.Background(), Spec{Method: http.MethodDelete, URL: "/things/1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.Status)
	assert.True(t, res.JSON)
	assert.Empty(t, res.Body)

	// Decoding the empty body must not fail.
	var v map[string]any
	require.NoError(t, res.Decode(&v))
	assert.Nil(t, v)
}

func TestDoEmptyJSONBodySuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}, nil)

	res, err := client.Do(context.Background(), Spec{URL: "/things"})
	require.NoError(t, err)
	assert.True(t, res.JSON)

	var v any
	require.NoError(t, res.Decode(&v))
	assert.Nil(t, v)
}

func TestDoTextResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("plain result"))
	}, nil)

	res, err := client.Do(context.Background(), Spec{URL: "/things"})
	require.NoError(t, err)
	assert.False(t, res.JSON)
	assert.Equal(t, "plain result", res.Text())
}

func TestDoPaginationHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-WP-Total", "25")
		w.Header().Set("X-WP-TotalPages", "3")
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	res, err := client.Do(context.Background(), Spec{URL: "/posts"})
	require.NoError(t, err)
	require.NotNil(t, res.Page)
	assert.Equal(t, 25, res.Page.Total)
	assert.Equal(t, 3, res.Page.TotalPages)
}

func TestDoNoPaginationHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	res, err := client.Do(context.Background(), Spec{URL: "/posts"})
	require.NoError(t, err)
	assert.Nil(t, res.Page)
}

func TestDoVendorError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not found", "code": "rest_post_invalid_id"}`))
	}, nil)

	_, err := client.Do(context.Background(), Spec{Method: http.MethodDelete, URL: "/posts/999"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Not found", apiErr.Message)
	assert.Equal(t, "rest_post_invalid_id", apiErr.Code)
	assert.Contains(t, string(apiErr.Body), "Not found")
}

func TestDoVendorErrorNestedMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid field", "type": "validation"}}`))
	}, nil)

	_, err := client.Do(context.Background(), Spec{Method: http.MethodPost, URL: "/records"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid field", apiErr.Message)
	assert.Equal(t, "validation", apiErr.Code)
}

func TestDoVendorErrorNonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}, nil)

	_, err := client.Do(context.Background(), Spec{URL: "/x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, string(apiErr.Body), "bad gateway")
}

func TestDoTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(server.URL, nil, WithHTTPClient(server.Client()))
	server.Close() // connection refused from here on

	_, err := client.Do(context.Background(), Spec{URL: "/x"})
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)

	// Never conflated with a vendor rejection.
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDoQueryParameters(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	q := url.Values{}
	q.Set("per_page", "5")
	_, err := client.Do(context.Background(), Spec{URL: "/posts", Query: q})
	require.NoError(t, err)
	assert.Equal(t, "5", gotQuery.Get("per_page"))
}

func TestDoAllStopsAtServerPageCount(t *testing.T) {
	var requests []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requests = append(requests, page)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-WP-Total", "5")
		w.Header().Set("X-WP-TotalPages", "2")
		_, _ = w.Write([]byte(`["p` + page + `"]`))
	}, nil)

	results, err := client.DoAll(context.Background(), Spec{URL: "/posts"}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"1", "2"}, requests)
}

func TestDoAllStopsAtMaxPages(t *testing.T) {
	count := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		count++
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-WP-TotalPages", strconv.Itoa(100))
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	results, err := client.DoAll(context.Background(), Spec{URL: "/posts"}, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 3, count)
}

func TestDoAllSinglePageWithoutHeaders(t *testing.T) {
	count := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		count++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	results, err := client.DoAll(context.Background(), Spec{URL: "/posts"}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, count)
}
