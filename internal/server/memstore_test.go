package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/repository"
)

// memStore backs all three repositories with maps so the router can be
// exercised end to end without PostgreSQL.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*entities.User
	diaries  []*entities.Diary
	contacts map[string][]*entities.Contact
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*entities.User{},
		contacts: map[string][]*entities.Contact{},
		clock:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memUserRepo struct{ *memStore }
type memDiaryRepo struct{ *memStore }
type memContactRepo struct{ *memStore }

func (r memUserRepo) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	now := r.tick()
	cp := *user
	cp.ID = uuid.NewString()
	cp.TimerStatus = entities.TimerActive
	cp.TimerIdleThresholdSec = entities.DefaultIdleThresholdSec
	cp.CreatedAt, cp.LastActiveAt = now, now
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUserRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUserRepo) UpdateProfile(_ context.Context, id string, upd repository.ProfileUpdate) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Nickname != nil {
		u.Nickname = *upd.Nickname
	}
	if upd.Name != nil {
		u.Name = nil
		if *upd.Name != "" {
			name := *upd.Name
			u.Name = &name
		}
	}
	cp := *u
	return &cp, nil
}

func (r memUserRepo) UpdatePreferences(_ context.Context, id string, upd repository.PreferencesUpdate) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
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

func (r memUserRepo) TouchLastActive(_ context.Context, id string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return time.Time{}, repository.ErrNotFound
	}
	u.LastActiveAt = r.tick()
	return u.LastActiveAt, nil
}

func (r memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	delete(r.contacts, id)
	kept := r.diaries[:0]
	for _, d := range r.diaries {
		if d.UserID != id {
			kept = append(kept, d)
		}
	}
	r.diaries = kept
	return nil
}

func (r memUserRepo) FindInactive(context.Context, time.Time, *repository.InactiveCursor, int) ([]*entities.User, error) {
	return nil, nil
}

func (r memUserRepo) MarkInactivityNotified(context.Context, string, time.Time) error {
	return nil
}

func (r memDiaryRepo) Create(_ context.Context, userID, content string) (*entities.Diary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	d := &entities.Diary{ID: uuid.NewString(), UserID: userID, Content: content, CreatedAt: now, UpdatedAt: now}
	r.diaries = append(r.diaries, d)
	cp := *d
	return &cp, nil
}

func (r memDiaryRepo) ListByUser(_ context.Context, userID, cursor string, limit int) ([]*entities.Diary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var own []*entities.Diary
	for _, d := range r.diaries {
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

	if cursor != "" {
		idx := -1
		for i, d := range own {
			if d.ID == cursor {
				idx = i
			}
		}
		if idx < 0 {
			return []*entities.Diary{}, nil
		}
		own = own[idx+1:]
	}
	if len(own) > limit {
		own = own[:limit]
	}

	out := make([]*entities.Diary, len(own))
	for i, d := range own {
		cp := *d
		out[i] = &cp
	}
	return out, nil
}

func (r memDiaryRepo) findLocked(id string) *entities.Diary {
	for _, d := range r.diaries {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (r memDiaryRepo) FindByIDForUser(_ context.Context, id, userID string) (*entities.Diary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.findLocked(id)
	if d == nil || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r memDiaryRepo) FindByID(_ context.Context, id string) (*entities.Diary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.findLocked(id)
	if d == nil {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r memDiaryRepo) UpdateContent(_ context.Context, id, userID, content string) (*entities.Diary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.findLocked(id)
	if d == nil || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	d.Content = content
	d.UpdatedAt = r.tick()
	cp := *d
	return &cp, nil
}

func (r memContactRepo) ListByUser(_ context.Context, userID string) ([]*entities.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entities.Contact{}, r.contacts[userID]...), nil
}

func (r memContactRepo) ReplaceAll(_ context.Context, userID string, contacts []repository.ContactInput) ([]*entities.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = &entities.Contact{ID: uuid.NewString(), UserID: userID, Email: c.Email, Phone: c.Phone, Position: i, CreatedAt: r.tick()}
	}
	r.contacts[userID] = out
	return append([]*entities.Contact{}, out...), nil
}
