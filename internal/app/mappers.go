package app

import (
	"hash/fnv"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
)

// PlaceImages is the fixed placeholder set for listing cards.
var PlaceImages = []string{
	"/static/images/place-1.svg",
	"/static/images/place-2.svg",
	"/static/images/place-3.svg",
}

// PlaceImage picks a placeholder from the place id so a card keeps its
// picture across renders.
func PlaceImage(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return PlaceImages[h.Sum32()%uint32(len(PlaceImages))]
}

type detailQuery struct {
	ID string `url:"id"`
}

// DetailHref is the detail page URL for a place.
func DetailHref(id string) string {
	v, err := query.Values(detailQuery{ID: id})
	if err != nil {
		log.Error().Err(err).Str("place_id", id).Msg("build detail href")
		return "/place"
	}
	return "/place?" + v.Encode()
}

func NewCard(p domain.Place) domain.Card {
	return domain.Card{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: PlaceImage(p.ID),
		Href:  DetailHref(p.ID),
	}
}

func mapReviews(in []domain.Review) []domain.ReviewView {
	out := make([]domain.ReviewView, 0, len(in))
	for _, r := range in {
		out = append(out, domain.ReviewView{Author: r.Author(), Text: r.Text, Rating: r.Rating})
	}
	return out
}

// amenityLabel joins amenities, resolving ids through the catalog when possible.
func amenityLabel(ids []string, catalog []domain.Amenity) string {
	if len(ids) == 0 {
		return NoAmenities
	}
	names := make(map[string]string, len(catalog))
	for _, a := range catalog {
		names[a.ID] = a.Name
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := names[id]; ok && n != "" {
			out = append(out, n)
			continue
		}
		out = append(out, id)
	}
	return strings.Join(out, ", ")
}
