package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
)

func TestAccessGate_DeniedCarriesOrigin(t *testing.T) {
	gate := NewAccessGate(&memCredentialStore{})

	decision, err := gate.Check(context.Background(), "/movie/42")
	require.NoError(t, err)
	assert.False(t, decision.Allow)
	assert.Equal(t, SigninPath, decision.RedirectTo)
	assert.Equal(t, "/movie/42", decision.From)
}

func TestAccessGate_AllowsWithSession(t *testing.T) {
	creds := &memCredentialStore{
		session: &model.Session{Account: model.Account{ID: "a@b.com", Secret: "KEY1"}},
	}
	gate := NewAccessGate(creds)

	decision, err := gate.Check(context.Background(), "/movie/42")
	require.NoError(t, err)
	assert.True(t, decision.Allow)
}

func TestAccessGate_LoginResumesDeniedOrigin(t *testing.T) {
	creds := &memCredentialStore{}
	gate := NewAccessGate(creds)
	keys := NewKeyProvider("FALLBACK", "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewSessionService(creds, &stubValidator{result: true}, keys, newTestRecorder(), logger)
	ctx := context.Background()

	denied, err := gate.Check(ctx, "/movie/42")
	require.NoError(t, err)
	require.False(t, denied.Allow)

	require.NoError(t, svc.Register(ctx, "a@b.com", "KEY1", ""))
	_, err = svc.Login(ctx, "a@b.com", "KEY1", false)
	require.NoError(t, err)

	// The origin carried through the detour is the resume target.
	resumed, err := gate.Check(ctx, denied.From)
	require.NoError(t, err)
	assert.True(t, resumed.Allow)
	assert.Equal(t, "/movie/42", denied.From)
}

func TestAccessGate_ConsultedPerNavigation(t *testing.T) {
	creds := &memCredentialStore{
		session: &model.Session{Account: model.Account{ID: "a@b.com", Secret: "KEY1"}},
	}
	gate := NewAccessGate(creds)
	ctx := context.Background()

	decision, err := gate.Check(ctx, "/wishlist")
	require.NoError(t, err)
	require.True(t, decision.Allow)

	// The session vanishes between navigations (logout in another tab,
	// expiry). A repeat check must deny; the first answer is not cached.
	creds.session = nil

	decision, err = gate.Check(ctx, "/wishlist")
	require.NoError(t, err)
	assert.False(t, decision.Allow)
	assert.Equal(t, "/wishlist", decision.From)
}
