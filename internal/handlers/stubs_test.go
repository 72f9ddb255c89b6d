package handlers

import (
	"context"

	"blogpress/internal/apperror"
	"blogpress/internal/models"
)

type stubAuthService struct {
	registerFn func(username, email, password string) (*models.User, error)
	loginFn    func(email, password string) (*models.User, string, error)
	resolveFn  func(p models.OAuthProfile) (*models.User, error)
	updateFn   func(userID int64, patch models.ProfilePatch) (*models.User, error)
}

func (s *stubAuthService) Register(_ context.Context, username, email, password string) (*models.User, error) {
	return s.registerFn(username, email, password)
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*models.User, string, error) {
	return s.loginFn(email, password)
}

func (s *stubAuthService) ResolveOAuthProfile(_ context.Context, p models.OAuthProfile) (*models.User, error) {
	return s.resolveFn(p)
}

func (s *stubAuthService) UpdateProfile(_ context.Context, userID int64, patch models.ProfilePatch) (*models.User, error) {
	return s.updateFn(userID, patch)
}

func (s *stubAuthService) IssueToken(user *models.User) (string, error) {
	return "token-for-" + user.Username, nil
}

type stubProvider struct {
	profile models.OAuthProfile
	err     error
}

func (p *stubProvider) AuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *stubProvider) Exchange(_ context.Context, code string) (models.OAuthProfile, error) {
	return p.profile, p.err
}

// stubArticleService хранит статьи в map и применяет правило владельца.
type stubArticleService struct {
	articles   map[int64]*models.Article
	lastFilter models.ArticleFilter
	lastPage   int
	lastLimit  int
	listErr    error
}

func newStubArticleService(articles ...*models.Article) *stubArticleService {
	s := &stubArticleService{articles: map[int64]*models.Article{}}
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return s
}

func (s *stubArticleService) List(_ context.Context, f models.ArticleFilter, page, limit int) (*models.ArticlePage, error) {
	s.lastFilter, s.lastPage, s.lastLimit = f, page, limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []*models.Article{}
	for _, a := range s.articles {
		if f.AuthorID == nil || a.AuthorID == *f.AuthorID {
			out = append(out, a)
		}
	}
	return &models.ArticlePage{
		Articles:   out,
		Pagination: models.Pagination{CurrentPage: page, TotalPages: 1, TotalItems: len(out), ItemsPerPage: limit},
	}, nil
}

func (s *stubArticleService) Categories(context.Context) ([]string, error) {
	return []string{"Go", "Rust"}, nil
}

func (s *stubArticleService) GetByID(_ context.Context, id int64) (*models.Article, error) {
	if a, ok := s.articles[id]; ok {
		return a, nil
	}
	return nil, apperror.NotFound("Article")
}

func (s *stubArticleService) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	for _, a := range s.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, apperror.NotFound("Article")
}

func (s *stubArticleService) Create(_ context.Context, authorID int64, req models.CreateArticleRequest) (*models.Article, error) {
	if req.Title == "" || req.Content == "" {
		return nil, apperror.ValidationFailed("", "Title and content are required.")
	}
	a := &models.Article{ID: int64(len(s.articles) + 1), Title: req.Title, Content: req.Content, AuthorID: authorID}
	s.articles[a.ID] = a
	return a, nil
}

func (s *stubArticleService) Update(_ context.Context, id int64, patch models.ArticlePatch, userID int64) (*models.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, apperror.NotFound("Article")
	}
	if a.AuthorID != userID {
		return nil, apperror.Forbidden("Forbidden: You can only update your own articles.")
	}
	if patch.Title.Set {
		a.Title = patch.Title.Value
	}
	return a, nil
}

func (s *stubArticleService) Delete(_ context.Context, id int64, userID int64) (bool, error) {
	a, ok := s.articles[id]
	if !ok {
		return false, nil
	}
	if a.AuthorID != userID {
		return false, apperror.Forbidden("Forbidden: You can only delete your own articles.")
	}
	delete(s.articles, id)
	return true, nil
}
