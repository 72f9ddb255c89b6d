package repository

import (
	"context"
	"fmt"
	"strings"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ArticleRepo interface {
	List(ctx context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, int, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	Update(ctx context.Context, id, authorID int64, patch models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id, authorID int64) (bool, error)
}

type articleRepo struct{ db *pgxpool.Pool }

func NewArticleRepo(db *pgxpool.Pool) ArticleRepo { return &articleRepo{db: db} }

const articleSelect = `
	SELECT a.id, a.title, a.slug, a.content, a.excerpt, a.image_url, a.category, a.author_id,
	       a.published_at, a.created_at, a.updated_at,
	       u.id, u.username, u.avatar_url
	FROM articles a
	JOIN users u ON u.id = a.author_id
`

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var author models.AuthorProfile
	if err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.ImageURL, &a.Category, &a.AuthorID,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
		&author.ID, &author.Username, &author.AvatarURL,
	); err != nil {
		return nil, err
	}
	a.Author = &author
	return &a, nil
}

// buildFilter собирает WHERE для списка и счётчика.
func buildFilter(f models.ArticleFilter) (string, []any) {
	where := []string{}
	args := []any{}
	i := 1

	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, fmt.Sprintf("a.category ILIKE $%d", i))
		args = append(args, "%"+c+"%")
		i++
	}
	if f.AuthorID != nil {
		where = append(where, fmt.Sprintf("a.author_id = $%d", i))
		args = append(args, *f.AuthorID)
		i++
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.content ILIKE $%d OR a.excerpt ILIKE $%d)", i, i, i))
		args = append(args, "%"+q+"%")
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (r *articleRepo) List(ctx context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, int, error) {
	where, args := buildFilter(f)

	var total int
	countSQL := `SELECT COUNT(*) FROM articles a` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		logger.WithCtx(ctx).Error("Ошибка подсчёта статей (repo)", zap.Error(err))
		return nil, 0, err
	}

	n := len(args)
	sql := articleSelect + where +
		fmt.Sprintf(" ORDER BY a.published_at DESC NULLS LAST, a.id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка статей (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]*models.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *articleRepo) Categories(ctx context.Context) ([]string, error) {
	const q = `
		SELECT DISTINCT category FROM articles
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category
	`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения категорий (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *articleRepo) getOne(ctx context.Context, where string, arg any) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, articleSelect+" WHERE "+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("Article")
		}
		logger.WithCtx(ctx).Error("Ошибка получения статьи (repo)", zap.String("where", where), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.getOne(ctx, "a.slug = $1", slug)
}

func slugConflict(err error) error {
	if constraint, ok := uniqueConstraint(err); ok && strings.Contains(constraint, "slug") {
		return apperror.Conflict("Slug already in use")
	}
	return nil
}

func (r *articleRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	const q = `
		INSERT INTO articles (title, slug, content, excerpt, image_url, category, author_id, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q,
		a.Title,
		a.Slug,
		a.Content,
		a.Excerpt,  // *string (nullable)
		a.ImageURL, // *string (nullable)
		a.Category, // *string (nullable)
		a.AuthorID,
		a.PublishedAt,
	).Scan(&id)
	if err != nil {
		if cerr := slugConflict(err); cerr != nil {
			return nil, cerr
		}
		logger.WithCtx(ctx).Error("Ошибка вставки статьи (repo)", zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// buildUpdate собирает UPDATE только по переданным полям; владелец проверяется в том же WHERE.
func buildUpdate(id, authorID int64, patch models.ArticlePatch) (string, []any) {
	set := []string{}
	args := []any{}
	i := 1

	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, v)
		i++
	}
	if patch.Title.Set {
		add("title", patch.Title.Value)
	}
	if patch.Slug.Set {
		add("slug", patch.Slug.Value)
	}
	if patch.Content.Set {
		add("content", patch.Content.Value)
	}
	if patch.Excerpt.Set {
		add("excerpt", patch.Excerpt.Value)
	}
	if patch.ImageURL.Set {
		add("image_url", patch.ImageURL.Value)
	}
	if patch.Category.Set {
		add("category", patch.Category.Value)
	}
	if patch.PublishedAt.Set {
		add("published_at", patch.PublishedAt.Value)
	}
	set = append(set, "updated_at = NOW()")

	sql := fmt.Sprintf(`UPDATE articles SET %s WHERE id = $%d AND author_id = $%d`, strings.Join(set, ", "), i, i+1)
	return sql, append(args, id, authorID)
}

// Update пишет только поля патча. Строка меняется лишь при совпадении автора;
// если совпадения нет, возвращается ErrNotFound.
func (r *articleRepo) Update(ctx context.Context, id, authorID int64, patch models.ArticlePatch) (*models.Article, error) {
	sql, args := buildUpdate(id, authorID, patch)

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if cerr := slugConflict(err); cerr != nil {
			return nil, cerr
		}
		logger.WithCtx(ctx).Error("Ошибка обновления статьи (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NotFound("Article")
	}
	return r.GetByID(ctx, id)
}

func (r *articleRepo) Delete(ctx context.Context, id, authorID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM articles WHERE id = $1 AND author_id = $2", id, authorID)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления статьи (repo)", zap.Int64("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
