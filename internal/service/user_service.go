package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/wc-bracket/internal/store"
	users "github.com/AdamBeresnev/wc-bracket/internal/user"
	"github.com/AdamBeresnev/wc-bracket/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
)

type UserService struct {
	store *store.UserStore
}

func NewUserService(store *store.UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		if profileChanged(user, gothUser) {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			user.Username = displayName(gothUser)
			user.Email = gothUser.Email
			if err := s.store.UpdateProfile(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		newUser := &users.User{
			ID:         uuid.New(),
			Email:      gothUser.Email,
			Username:   displayName(gothUser),
			Provider:   utils.Ptr(gothUser.Provider),
			ProviderID: utils.Ptr(gothUser.UserID),
			AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
		}
		err := s.store.CreateUser(ctx, newUser)
		return newUser, err
	}

	return nil, err
}

func profileChanged(user *users.User, gothUser goth.User) bool {
	return utils.OrZero(user.AvatarURL) != gothUser.AvatarURL ||
		user.Username != displayName(gothUser) ||
		user.Email != gothUser.Email
}

// displayName prefers the provider nickname and falls back to the full name
func displayName(gothUser goth.User) string {
	if gothUser.NickName != "" {
		return gothUser.NickName
	}
	return gothUser.Name
}

func (s *UserService) EnsureGuestUser(ctx context.Context) (*users.User, error) {
	return s.store.EnsureUser(ctx, &users.User{
		ID:       users.GuestID,
		Email:    "guest@wc-bracket.app",
		Username: "Guest User",
	})
}
