package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/repository"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu       sync.Mutex
	byID     map[string]*entities.User
	touched  []string
	touchErr error
	findErr  error
	notified map[string]time.Time
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entities.User{}, notified: map[string]time.Time{}}
}

func (m *memUsers) add(u *entities.User) *entities.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.TimerStatus == "" {
		u.TimerStatus = entities.TimerActive
	}
	if u.TimerIdleThresholdSec == 0 {
		u.TimerIdleThresholdSec = entities.DefaultIdleThresholdSec
	}
	m.byID[u.ID] = u
	return u
}

func (m *memUsers) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	m.mu.Lock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			m.mu.Unlock()
			return nil, repository.ErrDuplicate
		}
	}
	m.mu.Unlock()
	cp := *user
	cp.CreatedAt = baseTime
	cp.LastActiveAt = baseTime
	return m.add(&cp), nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, upd repository.ProfileUpdate) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Nickname != nil {
		u.Nickname = *upd.Nickname
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			u.Name = nil
		} else {
			name := *upd.Name
			u.Name = &name
		}
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) UpdatePreferences(_ context.Context, id string, upd repository.PreferencesUpdate) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.TimerStatus != nil {
		u.TimerStatus = *upd.TimerStatus
	}
	if upd.TimerIdleThresholdSec != nil {
		u.TimerIdleThresholdSec = *upd.TimerIdleThresholdSec
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) TouchLastActive(_ context.Context, id string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	if m.touchErr != nil {
		return time.Time{}, m.touchErr
	}
	at := baseTime.Add(time.Duration(len(m.touched)) * time.Hour)
	if u, ok := m.byID[id]; ok {
		u.LastActiveAt = at
	}
	return at, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) FindInactive(context.Context, time.Time, *repository.InactiveCursor, int) ([]*entities.User, error) {
	return nil, nil
}

func (m *memUsers) MarkInactivityNotified(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified[id] = at
	return nil
}

// memDiaries is an in-memory DiaryRepository; each insert is one second
// newer than the previous one.
type memDiaries struct {
	mu      sync.Mutex
	rows    []*entities.Diary
	tick    int
	listErr error
}

func (m *memDiaries) Create(_ context.Context, userID, content string) (*entities.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick++
	at := baseTime.Add(time.Duration(m.tick) * time.Second)
	d := &entities.Diary{ID: uuid.NewString(), UserID: userID, Content: content, CreatedAt: at, UpdatedAt: at}
	m.rows = append(m.rows, d)
	cp := *d
	return &cp, nil
}

func (m *memDiaries) ListByUser(_ context.Context, userID, cursor string, limit int) ([]*entities.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}

	var own []*entities.Diary
	for _, d := range m.rows {
		if d.UserID == userID {
			own = append(own, d)
		}
	}
	sort.Slice(own, func(i, j int) bool {
		if !own[i].CreatedAt.Equal(own[j].CreatedAt) {
			return own[i].CreatedAt.After(own[j].CreatedAt)
		}
		return own[i].ID > own[j].ID
	})

	start := 0
	if cursor != "" {
		start = -1
		for i, d := range own {
			if d.ID == cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return []*entities.Diary{}, nil
		}
	}

	out := []*entities.Diary{}
	for _, d := range own[start:] {
		if len(out) == limit {
			break
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memDiaries) find(id string) *entities.Diary {
	for _, d := range m.rows {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (m *memDiaries) FindByIDForUser(_ context.Context, id, userID string) (*entities.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.find(id)
	if d == nil || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDiaries) FindByID(_ context.Context, id string) (*entities.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.find(id)
	if d == nil {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDiaries) UpdateContent(_ context.Context, id, userID, content string) (*entities.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.find(id)
	if d == nil || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	d.Content = content
	d.UpdatedAt = d.UpdatedAt.Add(time.Minute)
	cp := *d
	return &cp, nil
}

// memContacts is an in-memory ContactRepository.
type memContacts struct {
	mu         sync.Mutex
	byUser     map[string][]*entities.Contact
	replaceErr error
	lastInput  []repository.ContactInput
}

func newMemContacts() *memContacts {
	return &memContacts{byUser: map[string][]*entities.Contact{}}
}

func (m *memContacts) ListByUser(_ context.Context, userID string) ([]*entities.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entities.Contact{}
	out = append(out, m.byUser[userID]...)
	return out, nil
}

func (m *memContacts) ReplaceAll(_ context.Context, userID string, contacts []repository.ContactInput) ([]*entities.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastInput = contacts
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	out := make([]*entities.Contact, 0, len(contacts))
	for i, c := range contacts {
		out = append(out, &entities.Contact{
			ID:       uuid.NewString(),
			UserID:   userID,
			Email:    c.Email,
			Phone:    c.Phone,
			Position: i,
		})
	}
	m.byUser[userID] = out
	return out, nil
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	keys map[string]time.Duration
	err  error
}

func newMemCache() *memCache {
	return &memCache{keys: map[string]time.Duration{}}
}

func (c *memCache) Set(_ context.Context, key string, _ string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.keys[key] = expiration
	return nil
}

func (c *memCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.keys[key]
	return ok, nil
}

func (c *memCache) Ping(context.Context) error { return c.err }
func (c *memCache) Close() error               { return nil }
