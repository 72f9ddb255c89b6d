package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"blogpress/internal/apperror"
	"blogpress/internal/logger"
	"blogpress/internal/utils/helpers"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// writeError сопоставляет категорию ошибки со статусом.
// Непредвиденные ошибки отдаются как 500 с fallback-сообщением и текстом ошибки.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logger.WithCtx(r.Context())

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error(fallback, zap.String("path", r.URL.Path), zap.Error(err))
		helpers.ErrorWithDetail(w, status, fallback, err.Error())
		return
	}

	log.Warn("Ошибка запроса", zap.Int("status", status), zap.Error(err))
	helpers.Error(w, status, apperror.Message(err, fallback))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON", zap.String("path", r.URL.Path), zap.Error(err))
		return apperror.ValidationFailed("", "Invalid JSON")
	}
	return nil
}

// queryInt возвращает def, если параметр отсутствует или не число.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}
