package webapp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"osint-aggregator/internal/app"
	"osint-aggregator/internal/platform/id"
	"osint-aggregator/internal/services/aggregate"
	"osint-aggregator/internal/services/report"
	"osint-aggregator/internal/services/reportpdf"

	"github.com/sirupsen/logrus"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   app.Version,
	})
}

func (s *Server) handleSearchName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name    string            `json:"name"`
		Options aggregate.Options `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}

	writeJSON(w, http.StatusOK, s.agg.SearchName(r.Context(), req.Name, req.Options))
}

func (s *Server) handleSearchPhone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	number := pathParam(r.URL.Path, "/api/search/phone/")
	if number == "" {
		writeError(w, http.StatusNotFound, fmt.Errorf("endpoint not found"))
		return
	}

	writeJSON(w, http.StatusOK, s.agg.SearchPhone(r.Context(), number))
}

func (s *Server) handleSearchEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	email := pathParam(r.URL.Path, "/api/search/email/")
	if email == "" {
		writeError(w, http.StatusNotFound, fmt.Errorf("endpoint not found"))
		return
	}

	writeJSON(w, http.StatusOK, s.agg.SearchEmail(r.Context(), email))
}

func (s *Server) handleSearchWifi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// WiFi 扫描会执行宿主机命令（进程外副作用），必须显式授权；
	// 这是边界上的硬门禁，不是适配器内部的降级逻辑。
	if !s.cfg.WifiScanAuthorized {
		writeError(w, http.StatusForbidden, fmt.Errorf("wifi scanning is not authorized on this deployment"))
		return
	}

	var req struct {
		Location string `json:"location"`
	}
	// body 可选：空 body / 非 JSON 都按无 location 处理
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, http.StatusOK, s.agg.SearchWifi(r.Context(), req.Location))
}

func (s *Server) handleReportGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SearchResults json.RawMessage `json:"search_results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}

	reportID := id.New("rpt")
	rep := report.Generate(req.SearchResults, reportID)

	if err := s.store.SaveReport(r.Context(), rep); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"report_id":      reportID,
		"total_findings": rep.Summary.TotalFindings,
	}).Info("report generated")

	writeJSON(w, http.StatusOK, map[string]any{
		"report_id": reportID,
		"report":    rep,
	})
}

func (s *Server) handleReportIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 50)
	offset := parseInt(r.URL.Query().Get("offset"), 0)

	reports, err := s.store.ListReports(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleReportRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/report/"), "/")
	if rest == "" {
		writeError(w, http.StatusNotFound, fmt.Errorf("endpoint not found"))
		return
	}

	parts := strings.Split(rest, "/")
	reportID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch action {
	case "":
		s.handleReportGet(w, r, reportID)
	case "pdf":
		s.handleReportPDF(w, r, reportID)
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("endpoint not found"))
	}
}

func (s *Server) handleReportGet(w http.ResponseWriter, r *http.Request, reportID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rep, err := s.store.GetReport(r.Context(), reportID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("report not found"))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleReportPDF 把已存储的报告渲染为 PDF 下载。
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request, reportID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rep, err := s.store.GetReport(r.Context(), reportID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("report not found"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportID+".pdf"))
	if err := reportpdf.Render(w, *rep); err != nil {
		// 头已发出，只能记录
		s.log.WithField("report_id", reportID).WithError(err).Error("render pdf failed")
	}
}

// pathParam 取前缀之后的单段路径参数并做 URL 解码。
// 带斜杠的多段参数视为未匹配路由。
func pathParam(path, prefix string) string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(rest); err == nil {
		return decoded
	}
	return rest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
	})
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
