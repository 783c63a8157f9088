package app

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"hbnb_web/internal/domain"
)

type DetailService struct {
	backend  domain.Backend
	cache    domain.Cache
	cacheTTL time.Duration
	sf       singleflight.Group
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

func NewDetailService(b domain.Backend, c domain.Cache, ttl time.Duration) *DetailService {
	return &DetailService{
		backend:  b,
		cache:    c,
		cacheTTL: ttl,
		md:       goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Detail loads a place with its host, reviews and amenity names.
//
// The place is fetched first; owner, reviews and the amenity catalog
// follow concurrently and each degrades on its own: the host falls back
// to "Unknown", reviews to an empty list and amenities to raw values.
// Without a session the view only carries ShowReviewForm=false.
func (s *DetailService) Detail(ctx context.Context, sess domain.Session, id string) (domain.DetailView, error) {
	view := domain.DetailView{ShowReviewForm: sess.Authenticated()}

	id = strings.TrimSpace(id)
	if id == "" {
		log.Warn().Msg("place detail requested without id")
		return view, domain.ErrMissingID
	}
	if !sess.Authenticated() {
		return view, nil
	}

	ttl := int(s.cacheTTL.Seconds())
	place, err := cached(ctx, s.cache, &s.sf, placeKey(id), ttl, func(ctx context.Context) (domain.Place, error) {
		return s.backend.GetPlace(ctx, sess.Token, id)
	})
	if err != nil {
		log.Error().Err(err).Str("place_id", id).Msg("fetch place failed")
		return view, err
	}
	view.Place = &place

	var (
		owner   domain.Owner
		reviews []domain.Review
		catalog []domain.Amenity
	)
	var g errgroup.Group
	g.Go(func() error {
		if place.OwnerID == "" {
			return nil
		}
		o, err := cached(ctx, s.cache, &s.sf, ownerKey(place.OwnerID), ttl, func(ctx context.Context) (domain.Owner, error) {
			return s.backend.GetUser(ctx, sess.Token, place.OwnerID)
		})
		if err != nil {
			log.Warn().Err(err).Str("owner_id", place.OwnerID).Msg("fetch owner failed")
			return nil
		}
		owner = o
		return nil
	})
	g.Go(func() error {
		rs, err := cached(ctx, s.cache, &s.sf, reviewsKey(id), ttl, func(ctx context.Context) ([]domain.Review, error) {
			rs, err := s.backend.ListReviews(ctx, sess.Token, id)
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Review{}, nil
			}
			return rs, err
		})
		if err != nil {
			log.Warn().Err(err).Str("place_id", id).Msg("fetch reviews failed")
			return nil
		}
		reviews = rs
		return nil
	})
	if len(place.Amenities) > 0 {
		g.Go(func() error {
			as, err := cached(ctx, s.cache, &s.sf, amenitiesKey, ttl, func(ctx context.Context) ([]domain.Amenity, error) {
				return s.backend.ListAmenities(ctx, sess.Token)
			})
			if err != nil {
				log.Debug().Err(err).Msg("fetch amenity catalog failed")
				return nil
			}
			catalog = as
			return nil
		})
	}
	_ = g.Wait()

	view.HostName = owner.FullName()
	if view.HostName == "" {
		view.HostName = UnknownHost
	}
	view.Amenities = amenityLabel(place.Amenities, catalog)
	view.DescriptionHTML = s.renderDescription(place.Description)
	view.Reviews = mapReviews(reviews)
	return view, nil
}

func (s *DetailService) renderDescription(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		log.Warn().Err(err).Msg("render description failed")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes()))
}
