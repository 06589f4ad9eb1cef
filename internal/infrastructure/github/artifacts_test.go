package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-artifact-cleanup/internal/domain/repositories"

	gh "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestArtifactClient points an ArtifactClient at a test server.
func newTestArtifactClient(t *testing.T, handler http.Handler) *ArtifactClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	client.BaseURL, _ = client.BaseURL.Parse(server.URL + "/")

	return newArtifactClient(client, "testowner", "testrepo", zap.NewNop())
}

func TestNewArtifactClient(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		owner   string
		repo    string
		apiURL  string
		wantErr bool
	}{
		{name: "valid inputs", token: "token123", owner: "owner", repo: "repo"},
		{name: "public api url", token: "token123", owner: "owner", repo: "repo", apiURL: "https://api.github.com/"},
		{name: "enterprise api url", token: "token123", owner: "owner", repo: "repo", apiURL: "https://ghe.example.com/api/v3"},
		{name: "missing token", owner: "owner", repo: "repo", wantErr: true},
		{name: "missing owner", token: "t", repo: "repo", wantErr: true},
		{name: "missing repo", token: "t", owner: "owner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewArtifactClient(tt.token, tt.owner, tt.repo, tt.apiURL, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, c.owner)
			assert.Equal(t, tt.repo, c.repo)
		})
	}
}

func TestListArtifactsPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/testowner/testrepo/actions/artifacts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		page := r.URL.Query().Get("page")
		switch page {
		case "", "1":
			w.Header().Set("Link", `<http://example.com/repos/testowner/testrepo/actions/artifacts?page=2&per_page=100>; rel="next"`)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total_count": 3,
				"artifacts": []map[string]any{
					{"id": 1, "name": "build", "size_in_bytes": 100, "created_at": "2024-01-15T10:00:00Z"},
					{"id": 2, "name": "logs", "size_in_bytes": 200, "created_at": "2024-02-15T10:00:00Z"},
				},
			})
		case "2":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total_count": 3,
				"artifacts": []map[string]any{
					{"id": 3, "name": "coverage", "size_in_bytes": 300},
				},
			})
		default:
			t.Errorf("unexpected page %q", page)
		}
	})

	client := newTestArtifactClient(t, mux)

	artifacts, err := client.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	assert.Equal(t, int64(1), artifacts[0].ID)
	assert.Equal(t, "build", artifacts[0].Name)
	assert.Equal(t, int64(100), artifacts[0].SizeInBytes)
	require.NotNil(t, artifacts[0].CreatedAt)
	assert.Equal(t, 2024, artifacts[0].CreatedAt.Year())

	assert.Equal(t, int64(3), artifacts[2].ID)
	assert.Nil(t, artifacts[2].CreatedAt)
}

func TestListArtifactsDropsRepeatedIDs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/testowner/testrepo/actions/artifacts", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", `<http://example.com/repos/testowner/testrepo/actions/artifacts?page=2&per_page=100>; rel="next"`)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total_count": 3,
				"artifacts": []map[string]any{
					{"id": 1, "name": "build", "size_in_bytes": 100},
					{"id": 2, "name": "logs", "size_in_bytes": 200},
				},
			})
		default:
			// artifact 2 shifted onto the next page after a deletion upstream
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total_count": 3,
				"artifacts": []map[string]any{
					{"id": 2, "name": "logs", "size_in_bytes": 200},
					{"id": 3, "name": "coverage", "size_in_bytes": 300},
				},
			})
		}
	})

	client := newTestArtifactClient(t, mux)

	artifacts, err := client.ListArtifacts(context.Background())
	require.NoError(t, err)

	got := make([]int64, 0, len(artifacts))
	for _, a := range artifacts {
		got = append(got, a.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestListArtifactsError(t *testing.T) {
	client := newTestArtifactClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
	}))

	_, err := client.ListArtifacts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testowner/testrepo")
}

func TestDeleteArtifact(t *testing.T) {
	var deleted []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/testowner/testrepo/actions/artifacts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/repos/testowner/testrepo/actions/artifacts/7":
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case "/repos/testowner/testrepo/actions/artifacts/8":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"boom"}`)
		}
	})

	client := newTestArtifactClient(t, mux)
	ctx := context.Background()

	require.NoError(t, client.DeleteArtifact(ctx, 7))
	assert.Len(t, deleted, 1)

	err := client.DeleteArtifact(ctx, 8)
	assert.ErrorIs(t, err, repositories.ErrArtifactNotFound)

	err = client.DeleteArtifact(ctx, 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrArtifactNotFound)
}
