package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
)

type AuthService struct {
	backend domain.Backend
}

func NewAuthService(b domain.Backend) *AuthService {
	return &AuthService{backend: b}
}

// Login exchanges credentials for a bearer token. Fields are passed through
// untouched; the backend does all validation.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	tok, err := s.backend.Login(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Msg("login failed")
		return "", err
	}
	return tok, nil
}

// LoginFailureMessage picks the text shown after a failed login: the
// server's message, then the HTTP status text, then a generic string.
func LoginFailureMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if m := strings.TrimSpace(apiErr.Message); m != "" {
			return m
		}
		if st := http.StatusText(apiErr.Status); st != "" {
			return st
		}
	}
	return NoticeLoginGeneric
}
