// internal/infrastructure/github/artifacts.go
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-artifact-cleanup/internal/domain/models"
	"go-artifact-cleanup/internal/domain/repositories"

	gh "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIURL = "https://api.github.com"
	pageSize      = 100
)

// Verify that ArtifactClient implements ArtifactRepository
var _ repositories.ArtifactRepository = (*ArtifactClient)(nil)

// ArtifactClient lists and deletes the Actions artifacts of one repository.
type ArtifactClient struct {
	client *gh.Client
	owner  string
	repo   string
	logger *zap.Logger
}

// NewArtifactClient creates a client authenticated with token. apiURL may be
// empty or the public API URL; anything else is treated as a GitHub Enterprise server.
func NewArtifactClient(token, owner, repo, apiURL string, logger *zap.Logger) (*ArtifactClient, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = 30 * time.Second
	client := gh.NewClient(tc)

	apiURL = strings.TrimSuffix(apiURL, "/")
	if apiURL != "" && apiURL != DefaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
	}

	return newArtifactClient(client, owner, repo, logger), nil
}

func newArtifactClient(client *gh.Client, owner, repo string, logger *zap.Logger) *ArtifactClient {
	return &ArtifactClient{
		client: client,
		owner:  owner,
		repo:   repo,
		logger: logger,
	}
}

// ListArtifacts walks every page of the artifact listing. Pages are offset
// based, so an artifact can show up on two pages when the listing changes
// between requests; only its first occurrence is kept.
func (c *ArtifactClient) ListArtifacts(ctx context.Context) ([]models.Artifact, error) {
	opts := &gh.ListOptions{PerPage: pageSize}

	artifacts := make([]models.Artifact, 0)
	seen := make(map[int64]struct{})
	for {
		list, resp, err := c.client.Actions.ListArtifacts(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list artifacts for %s/%s: %w", c.owner, c.repo, err)
		}

		for _, a := range list.Artifacts {
			if _, dup := seen[a.GetID()]; dup {
				c.logger.Debug("Skipping repeated artifact", zap.Int64("artifact_id", a.GetID()))
				continue
			}
			seen[a.GetID()] = struct{}{}
			artifacts = append(artifacts, artifactFromGitHub(a))
		}

		c.logger.Debug("Fetched artifact page",
			zap.Int("page", opts.Page),
			zap.Int("page_count", len(list.Artifacts)),
			zap.Int64("total_count", list.GetTotalCount()))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("Retrieved all artifacts", zap.Int("count", len(artifacts)))
	return artifacts, nil
}

func (c *ArtifactClient) DeleteArtifact(ctx context.Context, artifactID int64) error {
	resp, err := c.client.Actions.DeleteArtifact(ctx, c.owner, c.repo, artifactID)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("delete artifact %d: %w", artifactID, repositories.ErrArtifactNotFound)
		}
		var rateErr *gh.RateLimitError
		if errors.As(err, &rateErr) {
			return fmt.Errorf("delete artifact %d: rate limited until %s: %w",
				artifactID, rateErr.Rate.Reset.Format(time.RFC3339), err)
		}
		return fmt.Errorf("delete artifact %d: %w", artifactID, err)
	}

	c.logger.Debug("Deleted artifact", zap.Int64("artifact_id", artifactID))
	return nil
}

func artifactFromGitHub(a *gh.Artifact) models.Artifact {
	artifact := models.Artifact{
		ID:          a.GetID(),
		Name:        a.GetName(),
		SizeInBytes: a.GetSizeInBytes(),
	}
	if a.CreatedAt != nil {
		created := a.CreatedAt.Time
		artifact.CreatedAt = &created
	}
	return artifact
}
