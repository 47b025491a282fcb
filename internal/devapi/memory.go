package devapi

import (
	"context"
	"strconv"
	"sync"

	"github.com/yanizio/adept-userform/internal/userapi"
)

type memRecord struct {
	user userapi.User
	hash string
}

// MemoryStore keeps users in a map.  Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	seq  int
	rows map[string]memRecord
}

// NewMemoryStore returns an empty store.  IDs are assigned 1, 2, 3, …
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]memRecord)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (userapi.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[id]
	if !ok {
		return userapi.User{}, ErrNotFound
	}
	return r.user, nil
}

func (m *MemoryStore) Create(_ context.Context, u userapi.User) (userapi.User, error) {
	hash, err := hashPassword(u.Password)
	if err != nil {
		return userapi.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(u.Email, "") {
		return userapi.User{}, ErrDuplicateEmail
	}
	m.seq++
	out := userapi.User{
		ID:       userapi.ID(strconv.Itoa(m.seq)),
		Username: u.Username,
		Email:    u.Email,
	}
	m.rows[string(out.ID)] = memRecord{user: out, hash: hash}
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, u userapi.User) (userapi.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return userapi.User{}, ErrNotFound
	}
	if m.emailTaken(u.Email, id) {
		return userapi.User{}, ErrDuplicateEmail
	}
	r.user.Username = u.Username
	r.user.Email = u.Email
	m.rows[id] = r
	return r.user, nil
}

// emailTaken must be called with mu held.
func (m *MemoryStore) emailTaken(email, exceptID string) bool {
	e := normEmail(email)
	for id, r := range m.rows {
		if id != exceptID && normEmail(r.user.Email) == e {
			return true
		}
	}
	return false
}
