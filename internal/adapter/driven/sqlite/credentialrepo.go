package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// The registry lives as one JSON array under "users"; the session slot is
// the "currentUser" record plus the cached key, the remember flag, and the
// expiry instant for non-remembered sessions. Every registry mutation is a
// read-modify-write of the whole array; there is no row-level locking, so
// the last writer wins.
type CredentialRepo struct {
	db         *DB
	sessionTTL time.Duration

	now func() time.Time // overridable in tests
}

// NewCredentialRepo creates a CredentialRepo. sessionTTL bounds the lifetime
// of sessions committed without the remember flag; remembered sessions
// never lapse.
func NewCredentialRepo(db *DB, sessionTTL time.Duration) *CredentialRepo {
	return &CredentialRepo{
		db:         db,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// loadAccounts reads the full registry. An absent or unparsable record
// yields an empty registry rather than an error.
func (r *CredentialRepo) loadAccounts(ctx context.Context) ([]model.Account, error) {
	raw, ok, err := getValue(ctx, r.db, keyUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var accounts []model.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		slog.Debug("malformed account registry, treating as empty", "error", err)
		return nil, nil
	}
	return accounts, nil
}

// saveAccounts rewrites the full registry.
func (r *CredentialRepo) saveAccounts(ctx context.Context, accounts []model.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	return setValue(ctx, r.db, keyUsers, string(data))
}

// Register appends the account to the registry.
// Returns driven.ErrDuplicateAccount if the id is already taken; the
// registry is left untouched in that case.
func (r *CredentialRepo) Register(ctx context.Context, account model.Account) error {
	accounts, err := r.loadAccounts(ctx)
	if err != nil {
		return err
	}

	for _, a := range accounts {
		if a.ID == account.ID {
			return driven.ErrDuplicateAccount
		}
	}

	return r.saveAccounts(ctx, append(accounts, account))
}

// FindAccount returns the account matching both id and secret exactly.
// The secret is compared verbatim; it doubles as the upstream API key the
// user already holds, so it is stored in plain text.
func (r *CredentialRepo) FindAccount(ctx context.Context, id, secret string) (*model.Account, error) {
	accounts, err := r.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		if a.ID == id && a.Secret == secret {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

// CommitSession persists the session record, the remember flag, and the
// account's secret under the active-key slot. A previous session is
// overwritten without coordination.
func (r *CredentialRepo) CommitSession(ctx context.Context, account model.Account, remember bool) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal session account: %w", err)
	}

	if err := setValue(ctx, r.db, keyCurrentUser, string(data)); err != nil {
		return err
	}
	if err := setValue(ctx, r.db, keyActiveAPIKey, account.Secret); err != nil {
		return err
	}

	flag := "false"
	if remember {
		flag = "true"
	}
	if err := setValue(ctx, r.db, keyKeepLogin, flag); err != nil {
		return err
	}

	if remember {
		return deleteValue(ctx, r.db, keySessionExpiry)
	}
	expiry := r.now().Add(r.sessionTTL).UTC().Format(time.RFC3339)
	return setValue(ctx, r.db, keySessionExpiry, expiry)
}

// CurrentSession returns the active session. Absence, a malformed record,
// and a lapsed non-remembered session all read as logged out; the latter
// two also clear the slot.
func (r *CredentialRepo) CurrentSession(ctx context.Context) (*model.Session, error) {
	raw, ok, err := getValue(ctx, r.db, keyCurrentUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var account model.Account
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		slog.Debug("malformed session record, treating as logged out", "error", err)
		if err := r.ClearSession(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	session := model.Session{Account: account}

	if flag, ok, err := getValue(ctx, r.db, keyKeepLogin); err != nil {
		return nil, err
	} else if ok && flag == "true" {
		session.Remember = true
	}

	if !session.Remember {
		raw, ok, err := getValue(ctx, r.db, keySessionExpiry)
		if err != nil {
			return nil, err
		}
		if ok {
			expiry, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				slog.Debug("malformed session expiry, treating as logged out", "error", err)
				if err := r.ClearSession(ctx); err != nil {
					return nil, err
				}
				return nil, nil
			}
			session.ExpiresAt = expiry
		}
	}

	if session.Expired(r.now()) {
		if err := r.ClearSession(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &session, nil
}

// ClearSession removes the session record, the cached active key, the
// remember flag, and the expiry. Clearing an absent session is a no-op.
func (r *CredentialRepo) ClearSession(ctx context.Context) error {
	for _, key := range []string{keyCurrentUser, keyActiveAPIKey, keyKeepLogin, keySessionExpiry} {
		if err := deleteValue(ctx, r.db, key); err != nil {
			return err
		}
	}
	return nil
}

// ActiveKey returns the cached secret of the active session, or "" when
// logged out. The catalog client reads this slot to build authenticated
// request URLs without touching the session record.
func (r *CredentialRepo) ActiveKey(ctx context.Context) (string, error) {
	key, _, err := getValue(ctx, r.db, keyActiveAPIKey)
	return key, err
}
