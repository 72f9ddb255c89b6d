package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"blogpress/internal/apperror"
	"blogpress/internal/models"
)

// Мок-репозиторий пользователей (в памяти)
type fakeUserRepo struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*models.User
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (m *fakeUserRepo) clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (m *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return m.clone(u), nil
	}
	return nil, apperror.NotFound("User")
}

func (m *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return m.clone(u), nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return m.clone(u), nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.ErrEmailInUse
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = m.clone(user)
	return nil
}

func (m *fakeUserRepo) LinkGoogle(_ context.Context, userID int64, googleID string, avatarURL *string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	u.GoogleID = &googleID
	if u.AvatarURL == nil || *u.AvatarURL == "" {
		u.AvatarURL = avatarURL
	}
	u.UpdatedAt = time.Now()
	m.updates++
	return m.clone(u), nil
}

func (m *fakeUserRepo) UpdateProfile(_ context.Context, userID int64, patch models.ProfilePatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	if patch.Username.Set {
		u.Username = patch.Username.Value
	}
	if patch.AvatarURL.Set {
		u.AvatarURL = patch.AvatarURL.Value
	}
	u.UpdatedAt = time.Now()
	m.updates++
	return m.clone(u), nil
}

func (m *fakeUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// Мок-репозиторий статей: проверяет автора в Update/Delete так же, как SQL.
type fakeArticleRepo struct {
	mu       sync.Mutex
	nextID   int64
	articles map[int64]*models.Article
	writes   int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[int64]*models.Article{}}
}

func (m *fakeArticleRepo) clone(a *models.Article) *models.Article {
	c := *a
	return &c
}

func containsFold(v *string, sub string) bool {
	return v != nil && strings.Contains(strings.ToLower(*v), strings.ToLower(sub))
}

func (m *fakeArticleRepo) List(_ context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*models.Article
	for _, a := range m.articles {
		if f.Category != "" && !containsFold(a.Category, f.Category) {
			continue
		}
		if f.AuthorID != nil && a.AuthorID != *f.AuthorID {
			continue
		}
		if f.Search != "" && !containsFold(&a.Title, f.Search) && !containsFold(&a.Content, f.Search) && !containsFold(a.Excerpt, f.Search) {
			continue
		}
		matched = append(matched, m.clone(a))
	}
	sort.Slice(matched, func(i, j int) bool {
		pi, pj := matched[i].PublishedAt, matched[j].PublishedAt
		if !pi.Equal(*pj) {
			return pi.After(*pj)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset >= total {
		return []*models.Article{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *fakeArticleRepo) Categories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, a := range m.articles {
		if a.Category == nil || *a.Category == "" {
			continue
		}
		if _, ok := seen[*a.Category]; !ok {
			seen[*a.Category] = struct{}{}
			out = append(out, *a.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *fakeArticleRepo) GetByID(_ context.Context, id int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.articles[id]; ok {
		return m.clone(a), nil
	}
	return nil, apperror.NotFound("Article")
}

func (m *fakeArticleRepo) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.articles {
		if a.Slug == slug {
			return m.clone(a), nil
		}
	}
	return nil, apperror.NotFound("Article")
}

func (m *fakeArticleRepo) slugTaken(slug string, exceptID int64) bool {
	for _, a := range m.articles {
		if a.Slug == slug && a.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *fakeArticleRepo) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(a.Slug, 0) {
		return nil, apperror.Conflict("Slug already in use")
	}
	m.nextID++
	c := m.clone(a)
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.articles[c.ID] = c
	m.writes++
	return m.clone(c), nil
}

func (m *fakeArticleRepo) Update(_ context.Context, id, authorID int64, patch models.ArticlePatch) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok || a.AuthorID != authorID {
		return nil, apperror.NotFound("Article")
	}
	if patch.Slug.Set && m.slugTaken(patch.Slug.Value, id) {
		return nil, apperror.Conflict("Slug already in use")
	}
	if patch.Title.Set {
		a.Title = patch.Title.Value
	}
	if patch.Slug.Set {
		a.Slug = patch.Slug.Value
	}
	if patch.Content.Set {
		a.Content = patch.Content.Value
	}
	if patch.Excerpt.Set {
		a.Excerpt = patch.Excerpt.Value
	}
	if patch.ImageURL.Set {
		a.ImageURL = patch.ImageURL.Value
	}
	if patch.Category.Set {
		a.Category = patch.Category.Value
	}
	if patch.PublishedAt.Set {
		a.PublishedAt = patch.PublishedAt.Value
	}
	a.UpdatedAt = a.UpdatedAt.Add(time.Second)
	m.writes++
	return m.clone(a), nil
}

func (m *fakeArticleRepo) Delete(_ context.Context, id, authorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok || a.AuthorID != authorID {
		return false, nil
	}
	delete(m.articles, id)
	m.writes++
	return true, nil
}
