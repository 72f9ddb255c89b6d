package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"blogpress/internal/models"
	"blogpress/internal/reqctx"
	"blogpress/internal/services"
	"blogpress/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type ArticleHandler struct {
	svc       services.ArticleService
	validator *AppValidator
}

func NewArticleHandler(svc services.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc, validator: NewAppValidator()}
}

type articleListResponse struct {
	Message    string            `json:"message"`
	Data       []*models.Article `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

type articleResponse struct {
	Message string          `json:"message"`
	Data    *models.Article `json:"data"`
}

type categoriesResponse struct {
	Message    string   `json:"message"`
	Categories []string `json:"categories"`
}

func articleID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func (h *ArticleHandler) writeList(w http.ResponseWriter, r *http.Request, f models.ArticleFilter) {
	page, err := h.svc.List(r.Context(), f, queryInt(r, "page", 1), queryInt(r, "limit", services.DefaultPageLimit))
	if err != nil {
		writeError(w, r, err, "Error retrieving articles")
		return
	}
	helpers.JSON(w, http.StatusOK, articleListResponse{
		Message:    "Articles retrieved successfully",
		Data:       page.Articles,
		Pagination: page.Pagination,
	})
}

// List
// @Summary      Список статей
// @Description  Пагинация и фильтры: category (подстрока), authorId, q (поиск по заголовку, тексту и анонсу)
// @Tags         articles
// @Produce      json
// @Param        page      query  int     false  "Страница (с 1)"
// @Param        limit     query  int     false  "Размер страницы (до 100)"
// @Param        category  query  string  false  "Категория"
// @Param        authorId  query  int     false  "ID автора"
// @Param        q         query  string  false  "Поиск"
// @Success      200  {object}  articleListResponse
// @Failure      400  {object}  helpers.ErrorResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ArticleFilter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}
	if raw := strings.TrimSpace(q.Get("authorId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			helpers.Error(w, http.StatusBadRequest, "Invalid author ID format")
			return
		}
		f.AuthorID = &id
	}
	h.writeList(w, r, f)
}

// MyArticles
// @Summary      Статьи текущего пользователя
// @Tags         articles
// @Produce      json
// @Param        page      query  int     false  "Страница (с 1)"
// @Param        limit     query  int     false  "Размер страницы (до 100)"
// @Param        category  query  string  false  "Категория"
// @Param        q         query  string  false  "Поиск"
// @Success      200  {object}  articleListResponse
// @Failure      401  {object}  helpers.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/articles/my-articles [get]
func (h *ArticleHandler) MyArticles(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	q := r.URL.Query()
	h.writeList(w, r, models.ArticleFilter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
		AuthorID: &userID,
	})
}

// Categories
// @Summary      Список категорий
// @Tags         articles
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /api/articles/categories [get]
func (h *ArticleHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, "Error retrieving categories")
		return
	}
	helpers.JSON(w, http.StatusOK, categoriesResponse{Message: "Categories retrieved successfully", Categories: cats})
}

// GetBySlug
// @Summary      Статья по slug
// @Tags         articles
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200  {object}  articleResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/articles/slug/{slug} [get]
func (h *ArticleHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err, "Error retrieving article")
		return
	}
	helpers.JSON(w, http.StatusOK, articleResponse{Message: "Article retrieved successfully", Data: a})
}

// GetByID
// @Summary      Статья по ID
// @Tags         articles
// @Produce      json
// @Param        id  path  int  true  "ID статьи"
// @Success      200  {object}  articleResponse
// @Failure      400  {object}  helpers.ErrorResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(r)
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Invalid article ID format")
		return
	}
	a, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Error retrieving article")
		return
	}
	helpers.JSON(w, http.StatusOK, articleResponse{Message: "Article retrieved successfully", Data: a})
}

// Create
// @Summary      Создать статью
// @Description  Автор берётся из токена. Slug по умолчанию строится из заголовка.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateArticleRequest  true  "Данные статьи"
// @Success      201   {object}  articleResponse
// @Failure      400   {object}  helpers.ErrorResponse
// @Failure      409   {object}  helpers.ErrorResponse "Slug уже занят"
// @Security     ApiKeyAuth
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "Error creating article")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err, "Error creating article")
		return
	}

	a, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, "Error creating article")
		return
	}
	helpers.JSON(w, http.StatusCreated, articleResponse{Message: "Article created successfully", Data: a})
}

// Update
// @Summary      Обновить статью
// @Description  Меняет только переданные поля; null очищает необязательное поле. Только автор.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "ID статьи"
// @Param        body  body      models.ArticlePatch  true  "Изменения"
// @Success      200   {object}  articleResponse
// @Failure      400   {object}  helpers.ErrorResponse
// @Failure      403   {object}  helpers.ErrorResponse
// @Failure      404   {object}  helpers.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := articleID(r)
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	var patch models.ArticlePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err, "Error updating article")
		return
	}
	if patch.ImageURL.Set && patch.ImageURL.Value != nil {
		if err := h.validator.ValidateVar("image_url", *patch.ImageURL.Value, "omitempty,url"); err != nil {
			writeError(w, r, err, "Error updating article")
			return
		}
	}

	a, err := h.svc.Update(r.Context(), id, patch, userID)
	if err != nil {
		writeError(w, r, err, "Error updating article")
		return
	}
	helpers.JSON(w, http.StatusOK, articleResponse{Message: "Article updated successfully", Data: a})
}

// Delete
// @Summary      Удалить статью
// @Tags         articles
// @Produce      json
// @Param        id   path      int  true  "ID статьи"
// @Success      200  {object}  helpers.MessageResponse
// @Failure      403  {object}  helpers.ErrorResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := articleID(r)
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err, "Error deleting article")
		return
	}
	if !deleted {
		helpers.Error(w, http.StatusNotFound, "Article not found")
		return
	}
	helpers.Message(w, http.StatusOK, "Article deleted successfully")
}
