package bracket

import (
	"time"

	"github.com/google/uuid"
)

// SavedBracket is a named snapshot of a finished or in-progress bracket owned by a user
type SavedBracket struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"ownerId"`
	Name      string    `db:"name" json:"name"`
	Snapshot  []byte    `db:"snapshot" json:"-"`
	Champion  *string   `db:"champion" json:"champion,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
