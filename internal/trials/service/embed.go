package service

import (
	"context"

	"trialfinder/internal/trials/models"
	dErrors "trialfinder/pkg/domain-errors"
	"trialfinder/pkg/platform/sentinel"
)

// EmbedToken signs a token for the embedded analytics dashboard.
func (s *Service) EmbedToken(ctx context.Context) (*models.EmbedToken, error) {
	if s.embedder == nil {
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable, "dashboard embedding is not configured")
	}
	token, err := s.embedder.Issue(s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to sign embed token", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign embed token")
	}
	return token, nil
}
