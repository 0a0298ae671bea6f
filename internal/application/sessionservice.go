package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
	"github.com/ericfisherdev/watchdeck/internal/metrics"
)

// emailPattern accepts local-part@domain.tld with no interior whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SessionService orchestrates registration and login over the credential
// store and the remote key validator. Registration never creates a session;
// login is the single enforcement point where both the local match and the
// remote key validity are checked before the one atomic commit.
type SessionService struct {
	creds     driven.CredentialStore
	validator driven.KeyValidator
	keys      *KeyProvider
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewSessionService creates a SessionService with all required dependencies.
func NewSessionService(
	creds driven.CredentialStore,
	validator driven.KeyValidator,
	keys *KeyProvider,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		creds:     creds,
		validator: validator,
		keys:      keys,
		recorder:  recorder,
		logger:    logger,
	}
}

// Register adds a new account. confirm, when non-empty, must equal secret.
// Returns ErrInvalidEmail, ErrPasswordMismatch, or driven.ErrDuplicateAccount.
// The caller stays anonymous; logging in is a separate step.
func (s *SessionService) Register(ctx context.Context, id, secret, confirm string) error {
	if !emailPattern.MatchString(id) {
		return ErrInvalidEmail
	}
	if confirm != "" && confirm != secret {
		return ErrPasswordMismatch
	}

	if err := s.creds.Register(ctx, model.Account{ID: id, Secret: secret}); err != nil {
		return err
	}

	s.recorder.RecordRegistration()
	s.logger.Info("account registered", "id", id)
	return nil
}

// Login authenticates id/secret, confirms the secret is still an accepted
// catalog API key, and commits the session. A previously-registered account
// becomes unusable the moment its key is revoked upstream; nothing local
// changes. Concurrent logins are not coordinated: the last commit wins.
func (s *SessionService) Login(ctx context.Context, id, secret string, remember bool) (*model.Account, error) {
	if !emailPattern.MatchString(id) {
		s.recorder.RecordLoginFailure(metrics.ReasonInvalidEmail)
		return nil, ErrInvalidEmail
	}

	account, err := s.creds.FindAccount(ctx, id, secret)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		s.recorder.RecordLoginFailure(metrics.ReasonInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	if !s.validator.Validate(ctx, account.Secret) {
		s.recorder.RecordLoginFailure(metrics.ReasonKeyRejected)
		s.recorder.RecordKeyValidationFailure()
		s.logger.Info("login rejected by key validator", "id", id)
		return nil, ErrKeyRejected
	}

	if err := s.creds.CommitSession(ctx, *account, remember); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}
	s.keys.Activate(account.Secret)

	s.recorder.RecordLoginSuccess()
	s.logger.Info("login succeeded", "id", id, "remember", remember)
	return account, nil
}

// Logout clears the session slot and reverts the catalog key to the
// fallback. Logging out while anonymous is a no-op success.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.creds.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.keys.Deactivate()
	s.logger.Info("logged out")
	return nil
}

// Current returns the account of the active session, or nil when anonymous.
func (s *SessionService) Current(ctx context.Context) (*model.Account, error) {
	session, err := s.creds.CurrentSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	account := session.Account
	return &account, nil
}
