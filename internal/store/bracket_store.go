package store

import (
	"context"
	"database/sql"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BracketStore struct {
	db *sqlx.DB
}

const (
	createBracketQuery = `
		INSERT INTO saved_brackets (id, owner_id, name, snapshot, champion)
		VALUES (:id, :owner_id, :name, :snapshot, :champion)
	`
	updateBracketQuery = `
		UPDATE saved_brackets SET
		name = :name,
		snapshot = :snapshot,
		champion = :champion,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = :id AND owner_id = :owner_id
	`
	getBracketQuery    = "SELECT * FROM saved_brackets WHERE id = ? AND owner_id = ?"
	listBracketsQuery  = "SELECT * FROM saved_brackets WHERE owner_id = ? ORDER BY updated_at DESC, name ASC"
	deleteBracketQuery = "DELETE FROM saved_brackets WHERE id = ? AND owner_id = ?"
)

func NewBracketStore(db *sqlx.DB) *BracketStore {
	return &BracketStore{db: db}
}

func (s *BracketStore) CreateBracket(ctx context.Context, b *bracket.SavedBracket) error {
	_, err := s.db.NamedExecContext(ctx, createBracketQuery, b)
	return err
}

// UpdateBracket returns sql.ErrNoRows when the owner has no such bracket
func (s *BracketStore) UpdateBracket(ctx context.Context, b *bracket.SavedBracket) error {
	res, err := s.db.NamedExecContext(ctx, updateBracketQuery, b)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *BracketStore) GetBracket(ctx context.Context, id, ownerID uuid.UUID) (*bracket.SavedBracket, error) {
	var b bracket.SavedBracket
	if err := s.db.GetContext(ctx, &b, getBracketQuery, id, ownerID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BracketStore) GetBracketsByOwner(ctx context.Context, ownerID uuid.UUID) ([]bracket.SavedBracket, error) {
	var brackets []bracket.SavedBracket
	err := s.db.SelectContext(ctx, &brackets, listBracketsQuery, ownerID)
	return brackets, err
}

func (s *BracketStore) DeleteBracket(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, deleteBracketQuery, id, ownerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
