package repositories

import (
	"context"
	"errors"

	"go-artifact-cleanup/internal/domain/models"
)

// ErrArtifactNotFound is returned by DeleteArtifact when the artifact no longer exists.
var ErrArtifactNotFound = errors.New("artifact not found")

type ArtifactRepository interface {
	// ListArtifacts returns every artifact of the configured repository, all pages included
	ListArtifacts(ctx context.Context) ([]models.Artifact, error)

	// DeleteArtifact removes one artifact by its ID
	DeleteArtifact(ctx context.Context, artifactID int64) error
}
