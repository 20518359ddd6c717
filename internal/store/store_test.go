package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/db"
	users "github.com/AdamBeresnev/wc-bracket/internal/user"
	"github.com/AdamBeresnev/wc-bracket/internal/utils"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSuperUserID = "00000000-0000-0000-0000-000000000001"

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Connect("file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	// every new connection would get its own empty in-memory database
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	t.Cleanup(func() { database.Close() })

	return database
}

func createOwner(t *testing.T, database *sqlx.DB) uuid.UUID {
	t.Helper()
	user := &users.User{
		ID:       uuid.MustParse(testSuperUserID),
		Email:    "guest@wc-bracket.app",
		Username: "Guest User",
	}
	require.NoError(t, NewUserStore(database).CreateUser(context.Background(), user))
	return user.ID
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	userStore := NewUserStore(database)

	user := &users.User{
		ID:         uuid.New(),
		Email:      "fan@example.com",
		Username:   "fan",
		Provider:   utils.Ptr("discord"),
		ProviderID: utils.Ptr("1234"),
		AvatarURL:  utils.Ptr("https://cdn.example.com/a.png"),
	}
	require.NoError(t, userStore.CreateUser(ctx, user))

	fetched, err := userStore.GetUserByProvider(ctx, "discord", "1234")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Equal(t, "fan", fetched.Username)
	assert.False(t, fetched.CreatedAt.IsZero())

	fetched.Username = "renamed"
	fetched.AvatarURL = utils.Ptr("https://cdn.example.com/b.png")
	require.NoError(t, userStore.UpdateProfile(ctx, fetched))

	again, err := userStore.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", again.Username)
	assert.Equal(t, "https://cdn.example.com/b.png", utils.OrZero(again.AvatarURL))

	_, err = userStore.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBracketStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	ownerID := createOwner(t, database)
	bracketStore := NewBracketStore(database)

	saved := &bracket.SavedBracket{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     "Chalk",
		Snapshot: []byte{0x84, 0x01, 0x02},
	}
	require.NoError(t, bracketStore.CreateBracket(ctx, saved))

	fetched, err := bracketStore.GetBracket(ctx, saved.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Chalk", fetched.Name)
	assert.Equal(t, saved.Snapshot, fetched.Snapshot)
	assert.Nil(t, fetched.Champion)

	fetched.Champion = utils.Ptr("Spain")
	fetched.Snapshot = []byte{0x80}
	require.NoError(t, bracketStore.UpdateBracket(ctx, fetched))

	updated, err := bracketStore.GetBracket(ctx, saved.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Spain", utils.OrZero(updated.Champion))
	assert.Equal(t, []byte{0x80}, updated.Snapshot)

	list, err := bracketStore.GetBracketsByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	require.NoError(t, bracketStore.DeleteBracket(ctx, saved.ID, ownerID))
	_, err = bracketStore.GetBracket(ctx, saved.ID, ownerID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBracketStoreScopesByOwner(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	ownerID := createOwner(t, database)
	bracketStore := NewBracketStore(database)

	saved := &bracket.SavedBracket{ID: uuid.New(), OwnerID: ownerID, Name: "Mine", Snapshot: []byte{0x80}}
	require.NoError(t, bracketStore.CreateBracket(ctx, saved))

	stranger := uuid.New()
	_, err := bracketStore.GetBracket(ctx, saved.ID, stranger)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	hijack := *saved
	hijack.OwnerID = stranger
	assert.ErrorIs(t, bracketStore.UpdateBracket(ctx, &hijack), sql.ErrNoRows)
	assert.ErrorIs(t, bracketStore.DeleteBracket(ctx, saved.ID, stranger), sql.ErrNoRows)

	list, err := bracketStore.GetBracketsByOwner(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBracketStoreRequiresOwner(t *testing.T) {
	database := setupTestDB(t)
	err := NewBracketStore(database).CreateBracket(context.Background(), &bracket.SavedBracket{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Name:     "Orphan",
		Snapshot: []byte{0x80},
	})
	assert.Error(t, err)
}

func TestSessionKVSurvivesCommit(t *testing.T) {
	database := setupTestDB(t)

	sm := scs.New()
	sm.Lifetime = time.Hour
	sm.Store = sqlite3store.NewWithCleanupInterval(database.DB, 0)
	kv := NewSessionKV(sm)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	_, ok := kv.Get(ctx, "group_orderings")
	assert.False(t, ok)

	kv.Put(ctx, "group_orderings", []byte{0x81, 0xa1, 0x41})
	kv.Put(ctx, "knockout_picks", []byte{0x80})
	kv.Remove(ctx, "knockout_picks")

	token, _, err := sm.Commit(ctx)
	require.NoError(t, err)

	reloaded, err := sm.Load(context.Background(), token)
	require.NoError(t, err)

	b, ok := kv.Get(reloaded, "group_orderings")
	require.True(t, ok)
	assert.Equal(t, []byte{0x81, 0xa1, 0x41}, b)
	_, ok = kv.Get(reloaded, "knockout_picks")
	assert.False(t, ok)
	assert.Empty(t, sm.GetString(reloaded, "group_orderings"), "values are namespaced")
}
