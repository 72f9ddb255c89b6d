package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/models"
	"blogpress/internal/repository"
	"blogpress/internal/utils"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

const (
	msgUpdateForbidden = "Forbidden: You can only update your own articles."
	msgDeleteForbidden = "Forbidden: You can only delete your own articles."
)

type ArticleService interface {
	List(ctx context.Context, f models.ArticleFilter, page, limit int) (*models.ArticlePage, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Create(ctx context.Context, authorID int64, req models.CreateArticleRequest) (*models.Article, error)
	Update(ctx context.Context, id int64, patch models.ArticlePatch, userID int64) (*models.Article, error)
	Delete(ctx context.Context, id int64, userID int64) (bool, error)
}

type articleService struct {
	repo   repository.ArticleRepo
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewArticleService(repo repository.ArticleRepo) ArticleService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &articleService{repo: repo, policy: p, now: time.Now}
}

// ClampPage приводит page и limit к допустимым значениям.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func (s *articleService) List(ctx context.Context, f models.ArticleFilter, page, limit int) (*models.ArticlePage, error) {
	log := logger.WithCtx(ctx)
	page, limit = ClampPage(page, limit)
	log.Debug("Получение списка статей",
		zap.Int("page", page),
		zap.Int("limit", limit),
		zap.String("category", f.Category),
		zap.Any("author_id", f.AuthorID),
		zap.String("q", f.Search),
	)

	list, total, err := s.repo.List(ctx, f, limit, (page-1)*limit)
	if err != nil {
		log.Error("Ошибка получения списка статей (repo)", zap.Error(err))
		return nil, err
	}

	return &models.ArticlePage{
		Articles: list,
		Pagination: models.Pagination{
			CurrentPage:  page,
			TotalPages:   (total + limit - 1) / limit,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

func (s *articleService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *articleService) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	logger.WithCtx(ctx).Debug("Получение статьи по ID", zap.Int64("id", id))
	return s.repo.GetByID(ctx, id)
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	logger.WithCtx(ctx).Debug("Получение статьи по slug", zap.String("slug", slug))
	return s.repo.GetBySlug(ctx, slug)
}

func (s *articleService) Create(ctx context.Context, authorID int64, req models.CreateArticleRequest) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	title := strings.TrimSpace(req.Title)
	log.Info("Создание статьи", zap.Int64("author_id", authorID), zap.String("title", title))

	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperror.ValidationFailed("", "Title and content are required.")
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = title
	}
	slug = utils.Slugify(slug)
	if slug == "" {
		log.Warn("Валидация не пройдена: пустой slug", zap.String("title", title))
		return nil, apperror.ValidationFailed("slug", "Slug cannot be derived from the title")
	}

	publishedAt := req.PublishedAt
	if publishedAt == nil {
		now := s.now()
		publishedAt = &now
	}

	a := &models.Article{
		Title:       title,
		Slug:        slug,
		Content:     s.policy.Sanitize(req.Content),
		Excerpt:     req.Excerpt,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		AuthorID:    authorID,
		PublishedAt: publishedAt,
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		log.Warn("Ошибка создания статьи (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Статья создана", zap.Int64("id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

// Update: сначала 404, затем 403; пустой патч возвращает статью без записи.
func (s *articleService) Update(ctx context.Context, id int64, patch models.ArticlePatch, userID int64) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление статьи", zap.Int64("id", id))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Статья для обновления не найдена (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if existing.AuthorID != userID {
		log.Warn("Попытка изменить чужую статью", zap.Int64("id", id), zap.Int64("author_id", existing.AuthorID))
		return nil, apperror.Forbidden(msgUpdateForbidden)
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	if patch.Title.Set {
		patch.Title.Value = strings.TrimSpace(patch.Title.Value)
		if patch.Title.Value == "" {
			return nil, apperror.ValidationFailed("title", "Title cannot be empty")
		}
	}
	if patch.Content.Set {
		if strings.TrimSpace(patch.Content.Value) == "" {
			return nil, apperror.ValidationFailed("content", "Content cannot be empty")
		}
		patch.Content.Value = s.policy.Sanitize(patch.Content.Value)
	}
	switch {
	case patch.Slug.Set:
		patch.Slug.Value = utils.Slugify(patch.Slug.Value)
		if patch.Slug.Value == "" {
			return nil, apperror.ValidationFailed("slug", "Slug cannot be empty")
		}
	case patch.Title.Set:
		derived := utils.Slugify(patch.Title.Value)
		if derived == "" {
			log.Warn("Валидация не пройдена: пустой slug", zap.String("title", patch.Title.Value))
			return nil, apperror.ValidationFailed("slug", "Slug cannot be derived from the title")
		}
		if derived != existing.Slug {
			patch.Slug = models.Some(derived)
		}
	}

	updated, err := s.repo.Update(ctx, id, userID, patch)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, s.recheckOwnership(ctx, id, msgUpdateForbidden)
		}
		log.Warn("Ошибка обновления статьи (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Статья обновлена", zap.Int64("id", id))
	return updated, nil
}

// Delete возвращает false, если статьи нет.
func (s *articleService) Delete(ctx context.Context, id int64, userID int64) (bool, error) {
	log := logger.WithCtx(ctx)
	log.Info("Удаление статьи", zap.Int64("id", id))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if existing.AuthorID != userID {
		log.Warn("Попытка удалить чужую статью", zap.Int64("id", id), zap.Int64("author_id", existing.AuthorID))
		return false, apperror.Forbidden(msgDeleteForbidden)
	}

	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		log.Error("Ошибка удаления статьи (repo)", zap.Int64("id", id), zap.Error(err))
		return false, err
	}
	if !deleted {
		rerr := s.recheckOwnership(ctx, id, msgDeleteForbidden)
		if errors.Is(rerr, apperror.ErrNotFound) {
			return false, nil
		}
		return false, rerr
	}

	log.Info("Статья удалена", zap.Int64("id", id))
	return true, nil
}

// recheckOwnership различает исчезнувшую статью и сменившегося владельца после пустой записи.
func (s *articleService) recheckOwnership(ctx context.Context, id int64, forbiddenMsg string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return apperror.Forbidden(forbiddenMsg)
}
