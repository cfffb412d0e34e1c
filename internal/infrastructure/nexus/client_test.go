package nexus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Token: "secret"}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestListRepositories(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service/rest/v1/repositories", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]map[string]string{
			{"name": "maven-releases", "format": "maven2", "type": "hosted"},
			{"name": "maven-public", "format": "maven2", "type": "GROUP"},
		})
	}))

	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "maven-releases", repos[0].Name)
	assert.False(t, repos[0].IsAggregate())
	// Repository type is normalized to lower case.
	assert.True(t, repos[1].IsAggregate())
}

func TestListComponents_PaginationAndConversion(t *testing.T) {
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	downloaded := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service/rest/v1/components", r.URL.Path)
		assert.Equal(t, "maven-releases", r.URL.Query().Get("repository"))

		if r.URL.Query().Get("continuationToken") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"continuationToken": "page-2",
				"items": []map[string]any{
					{
						"id":         "c1",
						"repository": "maven-releases",
						"format":     "maven2",
						"group":      "com.example",
						"name":       "lib",
						"version":    "1.0.0",
						"assets": []map[string]any{
							{
								"id":             "a1",
								"blobCreated":    created.Format(time.RFC3339),
								"lastDownloaded": downloaded.Format(time.RFC3339),
								"fileSize":       2048,
							},
							{
								"id": "a2",
								// never downloaded, size unknown
								"blobCreated": created.Format(time.RFC3339),
							},
						},
					},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))

	page, err := client.ListComponents(context.Background(), "maven-releases", "")
	require.NoError(t, err)
	assert.Equal(t, "page-2", page.ContinuationToken)
	require.Len(t, page.Items, 1)

	c := page.Items[0]
	assert.Equal(t, "c1", c.ID)
	require.Len(t, c.Assets, 2)
	assert.Equal(t, created, c.Assets[0].CreatedAt.UTC())
	require.NotNil(t, c.Assets[0].LastDownloadedAt)
	assert.Equal(t, downloaded, c.Assets[0].LastDownloadedAt.UTC())
	assert.Equal(t, int64(2048), c.Assets[0].SizeBytes)
	assert.Nil(t, c.Assets[1].LastDownloadedAt)
	assert.Zero(t, c.Assets[1].SizeBytes)
	assert.Equal(t, int64(2048), c.SizeBytes())

	last, err := client.ListComponents(context.Background(), "maven-releases", "page-2")
	require.NoError(t, err)
	assert.Empty(t, last.ContinuationToken)
	assert.Empty(t, last.Items)
}

func TestListComponents_ErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not allowed", http.StatusForbidden)
	}))

	_, err := client.ListComponents(context.Background(), "maven-releases", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDeleteComponent(t *testing.T) {
	var deletedPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	}))

	require.NoError(t, client.DeleteComponent(context.Background(), "abc123"))
	assert.Equal(t, "/service/rest/v1/components/abc123", deletedPath)
}

func TestDeleteComponent_Failure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	err := client.DeleteComponent(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestBasicAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "admin123", pass)
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, Username: "admin", Password: "admin123"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.ListRepositories(context.Background())
	require.NoError(t, err)
}
