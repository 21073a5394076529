package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alexanderramin/sitewise/internal/export"
	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/service"
)

func (s *Server) productivity(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Labor.Productivity(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type employeesResponse struct {
	EmployeeCount int                      `json:"employee_count"`
	Employees     []service.EmployeeDetail `json:"employees"`
}

func (s *Server) employees(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryID(r, "project_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	details, err := s.svc.Labor.Employees(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employeesResponse{EmployeeCount: len(details), Employees: details})
}

func (s *Server) payroll(w http.ResponseWriter, r *http.Request) {
	est, err := s.svc.Labor.Payroll(r.Context(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) unions(w http.ResponseWriter, r *http.Request) {
	liabilities, err := s.svc.Labor.Unions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, liabilities)
}

func (s *Server) anomalies(w http.ResponseWriter, r *http.Request) {
	findings, err := s.svc.Anomalies.Scan(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, findings)
}

type insightBody struct {
	Query     string              `json:"query"`
	History   []narration.Message `json:"history"`
	ProjectID *int64              `json:"project_id"`
}

// insights narrates one view. The body is optional; unknown fields are
// ignored so clients may send extra context.
func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("view")
	if raw == "" {
		raw = string(narration.ViewLabor)
	}
	view, err := narration.ParseView(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body insightBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, errors.Join(errBadRequest, err))
		return
	}

	insight, err := s.svc.Insights.Insight(r.Context(), service.InsightRequest{
		View:      view,
		ProjectID: body.ProjectID,
		Query:     body.Query,
		History:   body.History,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

func (s *Server) agentConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Agent.Config())
}

func (s *Server) variance(w http.ResponseWriter, r *http.Request) {
	variances, err := s.svc.Finance.Variance(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, variances)
}

func (s *Server) projectAnalytics(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryID(r, "project_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reports, err := s.svc.Finance.ProjectAnalytics(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Finance.Portfolio(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	d, err := s.svc.Dashboard.Build(r.Context(), service.DashboardRequest{Now: &now})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) dashboardExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	d, err := s.svc.Dashboard.Build(r.Context(), service.DashboardRequest{Now: &now})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=dashboard-"+now.UTC().Format("2006-01-02")+".xlsx")
	if err := export.Write(w, d); err != nil {
		s.logger.ErrorContext(r.Context(), "writing dashboard export", "error", err)
	}
}
