// Package mock provides in-memory repository implementations for tests.
package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

type Mocks struct {
	Users    *UserRepo
	Profiles *ProfileRepo
	Posts    *PostRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:    &UserRepo{byID: map[string]*models.User{}},
		Profiles: &ProfileRepo{byUser: map[string]*models.Profile{}},
		Posts:    &PostRepo{byID: map[string]*models.Post{}},
	}
}

type UserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User

	CreateErr error
	GetErr    error
	DeleteErr error
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

// Count reports how many users are stored; used by registration tests.
func (m *UserRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type ProfileRepo struct {
	mu     sync.Mutex
	byUser map[string]*models.Profile

	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error
	// UpdateConflicts makes the next N UpdateProfile calls fail with
	// ErrVersionConflict to exercise the retry path.
	UpdateConflicts int
}

var _ repository.ProfileRepo = (*ProfileRepo)(nil)

func (m *ProfileRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Version = 1
	cp := cloneProfile(p)
	m.byUser[p.UserID] = cp
	return nil
}

func (m *ProfileRepo) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byUser[userID]; ok {
		return cloneProfile(p), nil
	}
	return nil, nil
}

func (m *ProfileRepo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Profile, 0, len(m.byUser))
	for _, p := range m.byUser {
		out = append(out, *cloneProfile(p))
	}
	return out, nil
}

func (m *ProfileRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateConflicts > 0 {
		m.UpdateConflicts--
		return repository.ErrVersionConflict
	}
	stored, ok := m.byUser[p.UserID]
	if !ok || stored.Version != p.Version {
		return repository.ErrVersionConflict
	}
	p.Version++
	m.byUser[p.UserID] = cloneProfile(p)
	return nil
}

func (m *ProfileRepo) DeleteProfileByUserID(ctx context.Context, userID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUser, userID)
	return nil
}

type PostRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Post

	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error
}

var _ repository.PostRepo = (*PostRepo)(nil)

func (m *PostRepo) CreatePost(ctx context.Context, p *models.Post) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Version = 1
	m.byID[p.ID] = clonePost(p)
	return nil
}

func (m *PostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		return clonePost(p), nil
	}
	return nil, nil
}

func (m *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *clonePost(p))
	}
	// newest first, matching the sqlite implementation
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Created > out[i].Created {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *PostRepo) UpdatePost(ctx context.Context, p *models.Post) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[p.ID]
	if !ok || stored.Version != p.Version {
		return repository.ErrVersionConflict
	}
	p.Version++
	m.byID[p.ID] = clonePost(p)
	return nil
}

func (m *PostRepo) DeletePost(ctx context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func cloneProfile(p *models.Profile) *models.Profile {
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Experience = append([]models.Experience(nil), p.Experience...)
	cp.Education = append([]models.Education(nil), p.Education...)
	if p.Social != nil {
		s := *p.Social
		cp.Social = &s
	}
	return &cp
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]models.Like(nil), p.Likes...)
	cp.Comments = append([]models.Comment(nil), p.Comments...)
	return &cp
}
