package repositories

import (
	"errors"
	"fmt"
	"strconv"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new account; usernames are unique.
func (r *BadgerUserRepository) Create(user *models.User) error {
	user.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, usernameKey(user.Username))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(strconv.Itoa(user.ID)))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user through the username index
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id int
		if err := item.Value(func(val []byte) error {
			id, err = strconv.Atoi(string(val))
			return err
		}); err != nil {
			return fmt.Errorf("corrupt username index for %q: %w", username, err)
		}
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every account in id order
func (r *BadgerUserRepository) List() ([]*models.User, error) {
	users := []*models.User{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(UserKeyPrefix), func(_, val []byte) error {
			var user models.User
			if err := unmarshalEntity(val, &user); err != nil {
				return err
			}
			users = append(users, &user)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the account and everything it owns
func (r *BadgerUserRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		var user models.User
		if err := getEntity(txn, userKey(id), &user); err != nil {
			return err
		}

		posts, err := filterPostsTxn(txn, byAuthor(id))
		if err != nil {
			return err
		}
		for _, post := range posts {
			if err := deletePostTxn(txn, post.ID); err != nil {
				return fmt.Errorf("failed to delete post %d: %w", post.ID, err)
			}
		}

		var sessions [][]byte
		err = scan(txn, []byte(SessionKeyPrefix), func(k, val []byte) error {
			var session models.Session
			if err := unmarshalEntity(val, &session); err != nil {
				return err
			}
			if session.UserID == id {
				sessions = append(sessions, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range sessions {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}

		if err := txn.Delete(usernameKey(user.Username)); err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
}
