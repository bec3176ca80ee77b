package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"talentvet/internal/domain"
)

// Service writes a candidate's full record to the archive object store
// before the candidate is flipped to ARCHIVED.
type Service interface {
	ExportCandidate(ctx context.Context, candidate *domain.Candidate, profiles []domain.SocialProfile, screenings []domain.Screening) (string, error)
}

type export struct {
	Candidate  *domain.Candidate      `json:"candidate"`
	Profiles   []domain.SocialProfile `json:"profiles"`
	Screenings []domain.Screening     `json:"screenings"`
	ExportedAt time.Time              `json:"exported_at"`
}

type service struct {
	client *minio.Client
	bucket string
}

func NewService(client *minio.Client, bucket string) Service {
	return &service{client: client, bucket: bucket}
}

func (s *service) ExportCandidate(ctx context.Context, candidate *domain.Candidate, profiles []domain.SocialProfile, screenings []domain.Screening) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("archive store is not configured")
	}

	payload, err := json.MarshalIndent(export{
		Candidate:  candidate,
		Profiles:   profiles,
		Screenings: screenings,
		ExportedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate export: %w", err)
	}

	objectName := fmt.Sprintf("candidates/%s.json", candidate.ID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload candidate export: %w", err)
	}

	return objectName, nil
}
