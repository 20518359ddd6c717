package store

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

const sessionKVPrefix = "bracket:"

// SessionKV keeps bracket snapshot parts in the visitor's scs session
type SessionKV struct {
	sm *scs.SessionManager
}

func NewSessionKV(sm *scs.SessionManager) *SessionKV {
	return &SessionKV{sm: sm}
}

func (kv *SessionKV) Get(ctx context.Context, key string) ([]byte, bool) {
	b := kv.sm.GetBytes(ctx, sessionKVPrefix+key)
	return b, b != nil
}

func (kv *SessionKV) Put(ctx context.Context, key string, value []byte) {
	kv.sm.Put(ctx, sessionKVPrefix+key, value)
}

func (kv *SessionKV) Remove(ctx context.Context, key string) {
	kv.sm.Remove(ctx, sessionKVPrefix+key)
}
