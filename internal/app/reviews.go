package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
)

type ReviewService struct {
	backend domain.Backend
	cache   domain.Cache
}

func NewReviewService(b domain.Backend, c domain.Cache) *ReviewService {
	return &ReviewService{backend: b, cache: c}
}

// Submit posts a review. It needs both a session and a place id; otherwise
// it returns ErrNotLoggedIn without touching the network. On success the
// cached place and its reviews are dropped so the next render refetches.
func (s *ReviewService) Submit(ctx context.Context, sess domain.Session, placeID string, in domain.ReviewInput) error {
	placeID = strings.TrimSpace(placeID)
	if !sess.Authenticated() || placeID == "" {
		return domain.ErrNotLoggedIn
	}
	if err := s.backend.CreateReview(ctx, sess.Token, placeID, in); err != nil {
		log.Error().Err(err).Str("place_id", placeID).Msg("submit review failed")
		return err
	}
	invalidate(ctx, s.cache, placeKey(placeID), reviewsKey(placeID))
	return nil
}
