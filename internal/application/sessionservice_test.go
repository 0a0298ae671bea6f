package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
)

func newTestSessionService(creds *memCredentialStore, validator *stubValidator) (*SessionService, *KeyProvider) {
	keys := NewKeyProvider("FALLBACK", "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionService(creds, validator, keys, newTestRecorder(), logger), keys
}

func TestSessionService_RegisterEmailShape(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"valid", "a@b.com", nil},
		{"subdomain", "user@mail.example.org", nil},
		{"missing at", "ab.com", ErrInvalidEmail},
		{"missing tld", "a@b", ErrInvalidEmail},
		{"interior whitespace", "a b@c.com", ErrInvalidEmail},
		{"empty", "", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSessionService(&memCredentialStore{}, &stubValidator{result: true})

			err := svc.Register(context.Background(), tt.id, "KEY1", "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionService_RegisterConfirmMismatch(t *testing.T) {
	svc, _ := newTestSessionService(&memCredentialStore{}, &stubValidator{result: true})
	ctx := context.Background()

	err := svc.Register(ctx, "a@b.com", "KEY1", "KEY2")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	// An empty confirmation means none was supplied.
	err = svc.Register(ctx, "a@b.com", "KEY1", "")
	assert.NoError(t, err)
}

func TestSessionService_RegisterDuplicate(t *testing.T) {
	creds := &memCredentialStore{}
	svc, _ := newTestSessionService(creds, &stubValidator{result: true})
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.com", "KEY1", "KEY1"))

	err := svc.Register(ctx, "a@b.com", "KEY2", "KEY2")
	assert.ErrorIs(t, err, driven.ErrDuplicateAccount)
	assert.Len(t, creds.accounts, 1)
}

func TestSessionService_RegisterDoesNotCreateSession(t *testing.T) {
	svc, _ := newTestSessionService(&memCredentialStore{}, &stubValidator{result: true})
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.com", "KEY1", ""))

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSessionService_LoginRequiresLocalAndRemoteValidity(t *testing.T) {
	ctx := context.Background()

	t.Run("no local match", func(t *testing.T) {
		validator := &stubValidator{result: true}
		svc, _ := newTestSessionService(&memCredentialStore{}, validator)

		_, err := svc.Login(ctx, "a@b.com", "KEY1", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		// The validator is never consulted without a local match.
		assert.Zero(t, validator.calls)
	})

	t.Run("local match but remote rejection", func(t *testing.T) {
		creds := &memCredentialStore{}
		svc, _ := newTestSessionService(creds, &stubValidator{result: false})
		require.NoError(t, svc.Register(ctx, "a@b.com", "KEY1", ""))

		_, err := svc.Login(ctx, "a@b.com", "KEY1", false)
		assert.ErrorIs(t, err, ErrKeyRejected)

		current, err := svc.Current(ctx)
		require.NoError(t, err)
		assert.Nil(t, current, "no session after remote rejection")
	})

	t.Run("local match and remote acceptance", func(t *testing.T) {
		creds := &memCredentialStore{}
		svc, _ := newTestSessionService(creds, &stubValidator{result: true})
		require.NoError(t, svc.Register(ctx, "a@b.com", "KEY1", ""))

		account, err := svc.Login(ctx, "a@b.com", "KEY1", true)
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", account.ID)

		current, err := svc.Current(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, "a@b.com", current.ID)
	})
}

func TestSessionService_LoginMalformedEmail(t *testing.T) {
	svc, _ := newTestSessionService(&memCredentialStore{}, &stubValidator{result: true})

	_, err := svc.Login(context.Background(), "not-an-email", "KEY1", false)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSessionService_LoginActivatesKeyLogoutReverts(t *testing.T) {
	creds := &memCredentialStore{}
	svc, keys := newTestSessionService(creds, &stubValidator{result: true})
	ctx := context.Background()

	assert.Equal(t, "FALLBACK", keys.Key())

	require.NoError(t, svc.Register(ctx, "a@b.com", "KEY1", ""))
	_, err := svc.Login(ctx, "a@b.com", "KEY1", false)
	require.NoError(t, err)
	assert.Equal(t, "KEY1", keys.Key())

	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, "FALLBACK", keys.Key())

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	// Logging out while anonymous is a no-op success.
	require.NoError(t, svc.Logout(ctx))
}

func TestSessionService_ConcurrentLoginsLastCommitWins(t *testing.T) {
	creds := &memCredentialStore{}
	svc, keys := newTestSessionService(creds, &stubValidator{result: true})
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "first@b.com", "K1", ""))
	require.NoError(t, svc.Register(ctx, "second@b.com", "K2", ""))

	_, err := svc.Login(ctx, "first@b.com", "K1", false)
	require.NoError(t, err)
	_, err = svc.Login(ctx, "second@b.com", "K2", false)
	require.NoError(t, err)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "second@b.com", current.ID)
	assert.Equal(t, "K2", keys.Key())
}
