package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AdamBeresnev/wc-bracket/internal/db"
	"github.com/AdamBeresnev/wc-bracket/internal/store"
	users "github.com/AdamBeresnev/wc-bracket/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	database, err := db.Connect("file::memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(database.DB))
	t.Cleanup(func() { database.Close() })
	return store.NewUserStore(database)
}

func newSessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = time.Hour
	sm.Store = memstore.NewWithCleanupInterval(0)
	return sm
}

// sessionWithUser returns the cookie of a committed session holding userID
func sessionWithUser(t *testing.T, sm *scs.SessionManager, userID string) *http.Cookie {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	sm.Put(ctx, SessionUserIDKey, userID)
	token, _, err := sm.Commit(ctx)
	require.NoError(t, err)
	return &http.Cookie{Name: sm.Cookie.Name, Value: token}
}

func TestLoadAuthenticatedUser(t *testing.T) {
	userStore := setupUserStore(t)
	sm := newSessionManager()

	known := &users.User{ID: uuid.New(), Email: "fan@example.com", Username: "fan"}
	require.NoError(t, userStore.CreateUser(context.Background(), known))

	tests := []struct {
		name       string
		sessionID  string
		wantUserID uuid.UUID
		wantOK     bool
	}{
		{"no session", "", uuid.Nil, false},
		{"known user", known.ID.String(), known.ID, true},
		{"garbage id", "not-a-uuid", uuid.Nil, false},
		{"deleted user", uuid.NewString(), uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			var gotOK bool
			var gotUser *users.User
			handler := sm.LoadAndSave(LoadAuthenticatedUser(sm, userStore)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, gotOK = GetUserIDFromContext(r.Context())
				gotUser = GetAuthenticatedUser(r.Context())
			})))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.sessionID != "" {
				req.AddCookie(sessionWithUser(t, sm, tt.sessionID))
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantOK, gotOK)
			assert.Equal(t, tt.wantUserID, gotID)
			if tt.wantOK {
				require.NotNil(t, gotUser)
				assert.Equal(t, "fan", gotUser.Username)
			} else {
				assert.Nil(t, gotUser)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	protected := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/brackets", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/brackets", nil)
	protected.ServeHTTP(rec, req.WithContext(WithUserID(req.Context(), uuid.New())))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
