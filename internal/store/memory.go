package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is a process-local Store used when the database is disabled.
type Memory struct {
	mu       sync.RWMutex
	now      func() time.Time
	nextUser int64
	nextRec  int64
	users    map[int64]*User
	sessions map[string]Session
	records  map[int64]*Record
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		now:      time.Now,
		users:    make(map[int64]*User),
		sessions: make(map[string]Session),
		records:  make(map[int64]*Record),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() {}

func (m *Memory) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = NormalizeEmail(email)
	if m.findEmail(email) != nil {
		return nil, ErrEmailTaken
	}
	m.nextUser++
	u := &User{
		ID:           m.nextUser,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    m.now().UTC(),
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *Memory) UserByID(ctx context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.findEmail(NormalizeEmail(email))
	if u == nil {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) UpdateProfile(ctx context.Context, id int64, name, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	email = NormalizeEmail(email)
	if other := m.findEmail(email); other != nil && other.ID != id {
		return nil, ErrEmailTaken
	}
	u.Name = name
	u.Email = email
	cp := *u
	return &cp, nil
}

func (m *Memory) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *Memory) CreateSession(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[s.UserID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *Memory) SessionByToken(ctx context.Context, token string, now time.Time) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if !now.Before(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, ErrSessionExpired
	}
	return &s, nil
}

func (m *Memory) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

func (m *Memory) SaveRecord(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[rec.UserID]; !ok {
		return ErrNotFound
	}
	m.nextRec++
	rec.ID = m.nextRec
	rec.CreatedAt = m.now().UTC()
	cp := *rec
	m.records[cp.ID] = &cp
	return nil
}

func (m *Memory) RecordsByUser(ctx context.Context, userID int64) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Record{}
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) RecordByID(ctx context.Context, userID, id int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) findEmail(email string) *User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
