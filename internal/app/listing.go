package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hbnb_web/internal/domain"
)

type ListingService struct {
	backend  domain.Backend
	cache    domain.Cache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewListingService(b domain.Backend, c domain.Cache, ttl time.Duration) *ListingService {
	return &ListingService{backend: b, cache: c, cacheTTL: ttl}
}

// Cards builds one card per place. Without a session no request is made
// and the listing stays empty.
func (s *ListingService) Cards(ctx context.Context, sess domain.Session) ([]domain.Card, error) {
	if !sess.Authenticated() {
		return nil, nil
	}
	places, err := cached(ctx, s.cache, &s.sf, placesKey(sess.Token), int(s.cacheTTL.Seconds()),
		func(ctx context.Context) ([]domain.Place, error) {
			return s.backend.ListPlaces(ctx, sess.Token)
		})
	if err != nil {
		log.Error().Err(err).Msg("fetch places failed")
		return nil, err
	}
	cards := make([]domain.Card, 0, len(places))
	for _, p := range places {
		cards = append(cards, NewCard(p))
	}
	return cards, nil
}

var priceOptions = []domain.PriceOption{
	{Label: "All"},
	{Label: "10", Max: 10},
	{Label: "50", Max: 50},
	{Label: "100", Max: 100},
}

// PriceOptions returns the fixed filter choices, "All" first.
func PriceOptions() []domain.PriceOption {
	out := make([]domain.PriceOption, len(priceOptions))
	copy(out, priceOptions)
	return out
}

// ParsePriceOption maps a submitted filter value to an option. Unknown
// values fall back to "All".
func ParsePriceOption(raw string) domain.PriceOption {
	raw = strings.TrimSpace(raw)
	for _, o := range priceOptions {
		if strings.EqualFold(raw, o.Label) {
			return o
		}
	}
	return priceOptions[0]
}

// ApplyPriceFilter hides cards priced above the threshold. It works on
// already built cards and never refetches.
func ApplyPriceFilter(cards []domain.Card, opt domain.PriceOption) []domain.Card {
	for i := range cards {
		cards[i].Hidden = !opt.All() && cards[i].Price > opt.Max
	}
	return cards
}
