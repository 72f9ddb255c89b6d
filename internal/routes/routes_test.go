package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogpress/internal/apperror"
	"blogpress/internal/handlers"
	"blogpress/internal/middleware"
	"blogpress/internal/models"
	"blogpress/internal/repository"
	"blogpress/internal/services"
	"blogpress/internal/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memArticles минимальный ArticleRepo в памяти, чтобы гонять настоящий сервис.
type memArticles struct {
	items map[int64]*models.Article
}

var _ repository.ArticleRepo = (*memArticles)(nil)

func (m *memArticles) List(_ context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, int, error) {
	out := []*models.Article{}
	for _, a := range m.items {
		if f.AuthorID == nil || a.AuthorID == *f.AuthorID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *memArticles) Categories(context.Context) ([]string, error) { return []string{"Go"}, nil }

func (m *memArticles) GetByID(_ context.Context, id int64) (*models.Article, error) {
	if a, ok := m.items[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, apperror.NotFound("Article")
}

func (m *memArticles) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	for _, a := range m.items {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, apperror.NotFound("Article")
}

func (m *memArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	a.ID = int64(len(m.items) + 1)
	m.items[a.ID] = a
	return a, nil
}

func (m *memArticles) Update(_ context.Context, id, authorID int64, patch models.ArticlePatch) (*models.Article, error) {
	a, ok := m.items[id]
	if !ok || a.AuthorID != authorID {
		return nil, apperror.NotFound("Article")
	}
	if patch.Title.Set {
		a.Title = patch.Title.Value
	}
	return a, nil
}

func (m *memArticles) Delete(_ context.Context, id, authorID int64) (bool, error) {
	a, ok := m.items[id]
	if !ok || a.AuthorID != authorID {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

type memUsers map[int64]*models.User

func (m memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("User")
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type noAuth struct{ handlers.AuthService }

func newTestRouter(t *testing.T) (*mux.Router, *utils.TokenManager) {
	t.Helper()
	tokens, err := utils.NewTokenManager("secret")
	require.NoError(t, err)

	repo := &memArticles{items: map[int64]*models.Article{
		1: {ID: 1, Title: "Mine", Slug: "mine", AuthorID: 1},
		2: {ID: 2, Title: "Theirs", Slug: "theirs", AuthorID: 2},
	}}
	users := memUsers{
		1: {ID: 1, Username: "alice", Email: "alice@example.com"},
		2: {ID: 2, Username: "bob", Email: "bob@example.com"},
	}

	router := mux.NewRouter()
	InitRoutes(router,
		handlers.NewAuthHandler(noAuth{}, nil, "http://localhost:5173", false),
		handlers.NewArticleHandler(services.NewArticleService(repo)),
		handlers.NewHealthHandler(okPinger{}),
		middleware.JWTAuth(tokens, users),
	)
	return router, tokens
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	router, tokens := newTestRouter(t)
	alice, err := tokens.Issue(1, "alice@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"list is public", http.MethodGet, "/api/articles", "", "", http.StatusOK},
		{"categories not captured by id", http.MethodGet, "/api/articles/categories", "", "", http.StatusOK},
		{"slug lookup", http.MethodGet, "/api/articles/slug/theirs", "", "", http.StatusOK},
		{"by id", http.MethodGet, "/api/articles/2", "", "", http.StatusOK},
		{"non-numeric id", http.MethodGet, "/api/articles/abc", "", "", http.StatusBadRequest},
		{"my-articles requires token", http.MethodGet, "/api/articles/my-articles", "", "", http.StatusUnauthorized},
		{"my-articles with token", http.MethodGet, "/api/articles/my-articles", alice, "", http.StatusOK},
		{"me requires token", http.MethodGet, "/api/auth/me", "", "", http.StatusUnauthorized},
		{"me with token", http.MethodGet, "/api/auth/me", alice, "", http.StatusOK},
		{"create requires token", http.MethodPost, "/api/articles", "", `{"title":"t","content":"c"}`, http.StatusUnauthorized},
		{"create", http.MethodPost, "/api/articles", alice, `{"title":"New One","content":"c"}`, http.StatusCreated},
		{"update foreign", http.MethodPut, "/api/articles/2", alice, `{"title":"x"}`, http.StatusForbidden},
		{"update missing", http.MethodPut, "/api/articles/404", alice, `{"title":"x"}`, http.StatusNotFound},
		{"update own", http.MethodPut, "/api/articles/1", alice, `{"title":"Mine v2"}`, http.StatusOK},
		{"delete foreign", http.MethodDelete, "/api/articles/2", alice, "", http.StatusForbidden},
		{"delete requires token", http.MethodDelete, "/api/articles/1", "", "", http.StatusUnauthorized},
		{"google unconfigured", http.MethodGet, "/api/auth/google", "", "", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(router, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRoutes_MyArticlesScopedToToken(t *testing.T) {
	router, tokens := newTestRouter(t)
	bob, err := tokens.Issue(2, "bob@example.com")
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/api/articles/my-articles", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []models.Article `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(2), body.Data[0].AuthorID)
}
