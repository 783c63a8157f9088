package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
)

func TestAuthService_Login(t *testing.T) {
	b := &fakeBackend{loginToken: "jwt-1"}
	tok, err := app.NewAuthService(b).Login(context.Background(), "a@b.c", "pw")
	assert.NoError(t, err)
	assert.Equal(t, "jwt-1", tok)

	b = &fakeBackend{loginErr: &domain.APIError{Status: 401, Message: "bad credentials"}}
	_, err = app.NewAuthService(b).Login(context.Background(), "a@b.c", "nope")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestLoginFailureMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &domain.APIError{Status: 401, Message: "bad credentials"}, "bad credentials"},
		{"status text", &domain.APIError{Status: 401}, "Unauthorized"},
		{"unknown status", &domain.APIError{Status: 599}, app.NoticeLoginGeneric},
		{"network", errors.New("dial tcp: connection refused"), app.NoticeLoginGeneric},
		{"wrapped", errors.Join(errors.New("ctx"), &domain.APIError{Status: 400, Message: "missing email"}), "missing email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, app.LoginFailureMessage(tc.err))
		})
	}
}
