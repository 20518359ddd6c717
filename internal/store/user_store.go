package store

import (
	"context"

	users "github.com/AdamBeresnev/wc-bracket/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const userColumns = "id, email, username, created_at, provider, provider_id, avatar_url"

const (
	getUserQuery           = "SELECT " + userColumns + " FROM users WHERE id = ?"
	getUserByProviderQuery = "SELECT " + userColumns + " FROM users WHERE provider = ? AND provider_id = ?"
	insertUserQuery        = `
		INSERT INTO users (id, email, username, provider, provider_id, avatar_url)
		VALUES (:id, :email, :username, :provider, :provider_id, :avatar_url)
	`
	insertUserIfMissingQuery = insertUserQuery + " ON CONFLICT (id) DO NOTHING"
	updateProfileQuery       = `
		UPDATE users
		SET email = :email, username = :username, avatar_url = :avatar_url
		WHERE id = :id
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByProvider(ctx context.Context, provider, providerID string) (*users.User, error) {
	var user users.User
	if err := s.db.GetContext(ctx, &user, getUserByProviderQuery, provider, providerID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	if err := s.db.GetContext(ctx, &user, getUserQuery, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, insertUserQuery, user)
	return err
}

// EnsureUser inserts the user unless the id already exists and returns the stored row.
// Concurrent first visits of the guest account all end up with the same row.
func (s *UserStore) EnsureUser(ctx context.Context, user *users.User) (*users.User, error) {
	if _, err := s.db.NamedExecContext(ctx, insertUserIfMissingQuery, user); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, user.ID)
}

// UpdateProfile refreshes the fields an OAuth provider may change between logins
func (s *UserStore) UpdateProfile(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, updateProfileQuery, user)
	return err
}
