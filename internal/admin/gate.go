package admin

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"

	"github.com/operlabs/conexao/internal/apperr"
	"github.com/operlabs/conexao/internal/digest"
)

// Hasher computes the hex digest compared against the stored password hash.
// It is injected so the gate can be tested deterministically.
type Hasher interface {
	Hash(password string) string
}

// SHA256Hasher is the production Hasher.
type SHA256Hasher struct{}

// Hash returns the hex-encoded SHA-256 digest of password.
func (SHA256Hasher) Hash(password string) string {
	return digest.SumString(password)
}

// SessionStore persists issued session tokens. Tokens live for the process
// lifetime only; there is no expiry beyond logout.
type SessionStore interface {
	Put(token string)
	Has(token string) bool
	Delete(token string)
}

// MemorySessionStore is the default in-process SessionStore.
type MemorySessionStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{tokens: make(map[string]struct{})}
}

// Put records a token.
func (s *MemorySessionStore) Put(token string) {
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
}

// Has reports whether a token was issued and not yet revoked.
func (s *MemorySessionStore) Has(token string) bool {
	s.mu.RLock()
	_, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok
}

// Delete revokes a token.
func (s *MemorySessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Gate is the admin password check: a fixed username and a SHA-256 hex digest
// of the password compared against a stored constant. It is a minimal gate,
// not a security boundary.
type Gate struct {
	username     string
	passwordHash string
	hasher       Hasher
	sessions     SessionStore
}

// NewGate creates a Gate with the given credentials and capabilities.
func NewGate(username, passwordHash string, hasher Hasher, sessions SessionStore) *Gate {
	return &Gate{
		username:     username,
		passwordHash: passwordHash,
		hasher:       hasher,
		sessions:     sessions,
	}
}

// Login verifies the credentials and issues a session token.
func (g *Gate) Login(username, password string) (string, error) {
	if username != g.username {
		return "", apperr.ErrUnauthorized
	}
	hash := g.hasher.Hash(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(g.passwordHash)) != 1 {
		return "", apperr.ErrUnauthorized
	}
	token := uuid.NewString()
	g.sessions.Put(token)
	return token, nil
}

// Valid reports whether token identifies a live session.
func (g *Gate) Valid(token string) bool {
	return token != "" && g.sessions.Has(token)
}

// Logout revokes the session token.
func (g *Gate) Logout(token string) {
	g.sessions.Delete(token)
}
