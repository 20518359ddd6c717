package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/middleware"
	"github.com/AdamBeresnev/wc-bracket/internal/store"
	"github.com/google/uuid"
)

var ErrBracketNotFound = errors.New("saved bracket not found")
var ErrInvalidBracketName = errors.New("bracket name must be between 1 and 50 characters")
var ErrNoUser = errors.New("user ID not found in the context")

const maxBracketNameLength = 50

type SavedBracketService struct {
	store *store.BracketStore
}

func NewSavedBracketService(store *store.BracketStore) *SavedBracketService {
	return &SavedBracketService{store: store}
}

// Save stores a new named snapshot for the current user
func (s *SavedBracketService) Save(ctx context.Context, name string, snapshot []byte, champion *bracket.Team) (*bracket.SavedBracket, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxBracketNameLength {
		return nil, ErrInvalidBracketName
	}

	saved := &bracket.SavedBracket{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     name,
		Snapshot: snapshot,
		Champion: championName(champion),
	}
	if err := s.store.CreateBracket(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save bracket: %w", err)
	}
	return saved, nil
}

// Update overwrites the snapshot of an existing bracket, keeping its name
func (s *SavedBracketService) Update(ctx context.Context, id string, snapshot []byte, champion *bracket.Team) error {
	saved, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	saved.Snapshot = snapshot
	saved.Champion = championName(champion)
	if err := s.store.UpdateBracket(ctx, saved); err != nil {
		return s.notFound(err)
	}
	return nil
}

func (s *SavedBracketService) List(ctx context.Context) ([]bracket.SavedBracket, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}
	return s.store.GetBracketsByOwner(ctx, ownerID)
}

func (s *SavedBracketService) Get(ctx context.Context, id string) (*bracket.SavedBracket, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}
	bracketID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBracketNotFound, err)
	}
	saved, err := s.store.GetBracket(ctx, bracketID, ownerID)
	if err != nil {
		return nil, s.notFound(err)
	}
	return saved, nil
}

func (s *SavedBracketService) Delete(ctx context.Context, id string) error {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrNoUser
	}
	bracketID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBracketNotFound, err)
	}
	return s.notFound(s.store.DeleteBracket(ctx, bracketID, ownerID))
}

func (s *SavedBracketService) notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBracketNotFound
	}
	return err
}

func championName(champion *bracket.Team) *string {
	if champion == nil || champion.Name == "" {
		return nil
	}
	name := champion.Name
	return &name
}
