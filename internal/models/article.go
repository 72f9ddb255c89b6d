package models

import "time"

type Article struct {
	ID          int64          `db:"id"           json:"id"`
	Title       string         `db:"title"        json:"title"`
	Slug        string         `db:"slug"         json:"slug"`
	Content     string         `db:"content"      json:"content"`
	Excerpt     *string        `db:"excerpt"      json:"excerpt"`
	ImageURL    *string        `db:"image_url"    json:"image_url"`
	Category    *string        `db:"category"     json:"category"`
	AuthorID    int64          `db:"author_id"    json:"author_id"`
	PublishedAt *time.Time     `db:"published_at" json:"published_at"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updated_at"`
	Author      *AuthorProfile `db:"-"            json:"author,omitempty"`
}

// swagger:model CreateArticleRequest
type CreateArticleRequest struct {
	Title       string     `json:"title"        example:"Как писать middleware в Go"`
	Slug        string     `json:"slug"         example:"kak-pisat-middleware-v-go"`
	Content     string     `json:"content"      example:"<p>Контент</p>"`
	Excerpt     *string    `json:"excerpt"      example:"Короткое описание для превью"`
	ImageURL    *string    `json:"image_url"    validate:"omitempty,url" example:"https://example.com/cover.png"`
	Category    *string    `json:"category"     example:"golang"`
	PublishedAt *time.Time `json:"published_at"`
}

// ArticlePatch частичное обновление статьи. Непереданные поля не меняются.
type ArticlePatch struct {
	Title       Optional[string]     `json:"title"        swaggertype:"string"`
	Slug        Optional[string]     `json:"slug"         swaggertype:"string"`
	Content     Optional[string]     `json:"content"      swaggertype:"string"`
	Excerpt     Optional[*string]    `json:"excerpt"      swaggertype:"string"`
	ImageURL    Optional[*string]    `json:"image_url"    swaggertype:"string"`
	Category    Optional[*string]    `json:"category"     swaggertype:"string"`
	PublishedAt Optional[*time.Time] `json:"published_at" swaggertype:"string"`
}

func (p ArticlePatch) IsEmpty() bool {
	return !p.Title.Set && !p.Slug.Set && !p.Content.Set && !p.Excerpt.Set &&
		!p.ImageURL.Set && !p.Category.Set && !p.PublishedAt.Set
}

// ArticleFilter условия выборки списка; пустые поля не участвуют.
type ArticleFilter struct {
	Category string
	AuthorID *int64
	Search   string
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ArticlePage страница списка статей.
type ArticlePage struct {
	Articles   []*Article
	Pagination Pagination
}
