package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/service"
)

func (s *Server) listReportsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	reportType := domain.ReportType(r.URL.Query().Get("type"))
	page, err := s.reportService.List(r.Context(), user.ID, reportType,
		queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (s *Server) generateReportHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.GenerateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := s.reportService.Generate(r.Context(), user.ID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, report)
}

func (s *Server) getReportHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	report, err := s.reportService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) patchReportHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.SaveReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	report, err := s.reportService.Save(r.Context(), user.ID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) saveReportHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.SaveReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := s.reportService.Save(r.Context(), user.ID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) deleteReportHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	if err := s.reportService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "删除成功"})
}

// exportReportHandler downloads a stored report as raw Markdown or as the
// full JSON record.
func (s *Server) exportReportHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	query := r.URL.Query()
	id := query.Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "报告ID不能为空")
		return
	}
	format := query.Get("format")
	if format == "" {
		format = "markdown"
	}

	report, err := s.reportService.Get(r.Context(), user.ID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	switch format {
	case "markdown":
		content := report.Content
		if content == "" {
			content = report.Summary
		}
		if content == "" {
			content = "无内容"
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+report.ID+".md"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(content))
	case "json":
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+report.ID+".json"))
		respondWithJSON(w, http.StatusOK, report)
	default:
		respondWithError(w, http.StatusBadRequest, "不支持的导出格式")
	}
}
