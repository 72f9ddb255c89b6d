// Package docs регистрирует описание API для swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Проверка доступности сервиса и БД",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Регистрация нового пользователя",
                "parameters": [
                    {"description": "Данные регистрации", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.registerResponse"}},
                    "400": {"description": "Не заполнены обязательные поля", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "409": {"description": "Email уже используется", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Вход по email и паролю",
                "parameters": [
                    {"description": "Данные для входа", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Неверный email или пароль", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/auth/google": {
            "get": {
                "description": "Перенаправляет на страницу согласия Google. State сохраняется в cookie.",
                "tags": ["auth"],
                "summary": "Вход через Google",
                "responses": {
                    "307": {"description": "Temporary Redirect"},
                    "503": {"description": "Google OAuth не настроен", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/auth/google/callback": {
            "get": {
                "description": "Завершает вход и перенаправляет на клиент с токеном или с кодом ошибки.",
                "tags": ["auth"],
                "summary": "Callback Google OAuth",
                "parameters": [
                    {"type": "string", "description": "Код авторизации", "name": "code", "in": "query", "required": true},
                    {"type": "string", "description": "State из cookie", "name": "state", "in": "query", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/auth/profile": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Меняет только переданные поля (username, avatar_url).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Обновление профиля",
                "parameters": [
                    {"description": "Изменения профиля", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProfilePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.profileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/articles": {
            "get": {
                "description": "Пагинация и фильтры: category (подстрока), authorId, q (поиск по заголовку, тексту и анонсу)",
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Список статей",
                "parameters": [
                    {"type": "integer", "description": "Страница (с 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Размер страницы (до 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Категория", "name": "category", "in": "query"},
                    {"type": "integer", "description": "ID автора", "name": "authorId", "in": "query"},
                    {"type": "string", "description": "Поиск", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.articleListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Автор берётся из токена. Slug по умолчанию строится из заголовка.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Создать статью",
                "parameters": [
                    {"description": "Данные статьи", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateArticleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.articleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "409": {"description": "Slug уже занят", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/articles/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Список категорий",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.categoriesResponse"}}
                }
            }
        },
        "/api/articles/my-articles": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Статьи текущего пользователя",
                "parameters": [
                    {"type": "integer", "description": "Страница (с 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Размер страницы (до 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Категория", "name": "category", "in": "query"},
                    {"type": "string", "description": "Поиск", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.articleListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/articles/slug/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Статья по slug",
                "parameters": [
                    {"type": "string", "description": "Slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.articleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        },
        "/api/articles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Статья по ID",
                "parameters": [
                    {"type": "integer", "description": "ID статьи", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.articleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Меняет только переданные поля; null очищает необязательное поле. Только автор.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Обновить статью",
                "parameters": [
                    {"type": "integer", "description": "ID статьи", "name": "id", "in": "path", "required": true},
                    {"description": "Изменения", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ArticlePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.articleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Удалить статью",
                "parameters": [
                    {"type": "integer", "description": "ID статьи", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.MessageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "helpers.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "helpers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "models.RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "email": {"type": "string", "example": "alice@example.com"},
                "password": {"type": "string", "maxLength": 72, "example": "s3cret-pass"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "alice@example.com"},
                "password": {"type": "string", "example": "s3cret-pass"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "google_id": {"type": "string"},
                "avatar_url": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.ProfilePatch": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        },
        "models.AuthorProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        },
        "models.Article": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "content": {"type": "string"},
                "excerpt": {"type": "string"},
                "image_url": {"type": "string"},
                "category": {"type": "string"},
                "author_id": {"type": "integer"},
                "published_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "author": {"$ref": "#/definitions/models.AuthorProfile"}
            }
        },
        "models.CreateArticleRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Как писать middleware в Go"},
                "slug": {"type": "string", "example": "kak-pisat-middleware-v-go"},
                "content": {"type": "string", "example": "<p>Контент</p>"},
                "excerpt": {"type": "string", "example": "Короткое описание для превью"},
                "image_url": {"type": "string", "example": "https://example.com/cover.png"},
                "category": {"type": "string", "example": "golang"},
                "published_at": {"type": "string"}
            }
        },
        "models.ArticlePatch": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "content": {"type": "string"},
                "excerpt": {"type": "string"},
                "image_url": {"type": "string"},
                "category": {"type": "string"},
                "published_at": {"type": "string"}
            }
        },
        "models.Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "itemsPerPage": {"type": "integer"}
            }
        },
        "handlers.registerResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "handlers.loginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "handlers.profileResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "handlers.articleResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/models.Article"}
            }
        },
        "handlers.articleListResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Article"}},
                "pagination": {"$ref": "#/definitions/models.Pagination"}
            }
        },
        "handlers.categoriesResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "categories": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Blogpress API",
	Description:      "API блог-платформы: регистрация, вход через Google, статьи.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
