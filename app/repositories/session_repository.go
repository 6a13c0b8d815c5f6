package repositories

import (
	"errors"
	"fmt"
	"time"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository stores sessions as expiring Badger entries.
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, now: time.Now}
}

// Create stores the session with a TTL matching its expiry
func (r *BadgerSessionRepository) Create(session *models.Session) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(session.ID), data).WithTTL(ttl))
	})
}

// Get returns a live session; expired sessions read as ErrNotFound
func (r *BadgerSessionRepository) Get(id string) (*models.Session, error) {
	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, sessionKey(id), &session)
	})
	if err != nil {
		return nil, err
	}
	// Badger TTLs have second granularity.
	if session.Expired(r.now()) {
		return nil, fmt.Errorf("session expired: %w", ErrNotFound)
	}
	return &session, nil
}

// Delete removes a session; deleting an unknown session is not an error
func (r *BadgerSessionRepository) Delete(id string) error {
	return update(r.db, func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}
