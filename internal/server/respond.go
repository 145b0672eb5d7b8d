package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/yuezh/todo-report-backend/internal/service"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"服务器内部错误"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeJSON decodes the request body into dst and writes a 400 response on
// malformed input. Returns false when the request has already been answered.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "请求体不能为空")
		return false
	}
	respondWithError(w, http.StatusBadRequest, "请求数据格式错误")
	return false
}

// respondServiceError maps a service-layer error onto the HTTP taxonomy:
// validation 400, bad credentials 401, not-found 404, conflicts 400, the rest
// a generic 500 with details logged but not leaked.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidation(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrSessionExpired):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrTodoNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrReportNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCategoryNameTaken),
		errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Internal error handling request: %v", err)
		respondWithError(w, http.StatusInternalServerError, "服务器内部错误")
	}
}
