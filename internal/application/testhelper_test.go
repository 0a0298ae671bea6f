package application

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
	"github.com/ericfisherdev/watchdeck/internal/metrics"
)

// memCredentialStore is an in-memory CredentialStore for service tests.
// It mirrors the durable store's semantics, including the uncoordinated
// session slot where the last commit wins.
type memCredentialStore struct {
	accounts  []model.Account
	session   *model.Session
	activeKey string
}

var _ driven.CredentialStore = (*memCredentialStore)(nil)

func (m *memCredentialStore) Register(_ context.Context, account model.Account) error {
	for _, a := range m.accounts {
		if a.ID == account.ID {
			return driven.ErrDuplicateAccount
		}
	}
	m.accounts = append(m.accounts, account)
	return nil
}

func (m *memCredentialStore) FindAccount(_ context.Context, id, secret string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id && a.Secret == secret {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memCredentialStore) CommitSession(_ context.Context, account model.Account, remember bool) error {
	m.session = &model.Session{Account: account, Remember: remember}
	m.activeKey = account.Secret
	return nil
}

func (m *memCredentialStore) CurrentSession(_ context.Context) (*model.Session, error) {
	return m.session, nil
}

func (m *memCredentialStore) ClearSession(_ context.Context) error {
	m.session = nil
	m.activeKey = ""
	return nil
}

func (m *memCredentialStore) ActiveKey(_ context.Context) (string, error) {
	return m.activeKey, nil
}

// memWatchlistStore is an in-memory WatchlistStore for service tests.
type memWatchlistStore struct {
	entries []model.WatchlistEntry
}

var _ driven.WatchlistStore = (*memWatchlistStore)(nil)

func (m *memWatchlistStore) IsSaved(_ context.Context, id int64) (bool, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memWatchlistStore) Toggle(_ context.Context, movie model.Movie) ([]model.WatchlistEntry, error) {
	kept := make([]model.WatchlistEntry, 0, len(m.entries))
	removed := false
	for _, e := range m.entries {
		if e.ID == movie.ID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		kept = append(kept, model.NewWatchlistEntry(movie))
	}
	m.entries = kept
	return kept, nil
}

func (m *memWatchlistStore) List(_ context.Context) ([]model.WatchlistEntry, error) {
	return m.entries, nil
}

// stubValidator returns a fixed verdict and counts invocations.
type stubValidator struct {
	result bool
	calls  int
}

var _ driven.KeyValidator = (*stubValidator)(nil)

func (v *stubValidator) Validate(context.Context, string) bool {
	v.calls++
	return v.result
}

// newTestRecorder returns a Recorder backed by a throwaway registry.
func newTestRecorder() metrics.Recorder {
	return metrics.NewCollector(prometheus.NewRegistry())
}
