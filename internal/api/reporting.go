package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// date accepts "2006-01-02" as well as RFC 3339 timestamps.
type date struct{ time.Time }

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC 3339)", s)
	}
	d.Time = t.UTC()
	return nil
}

func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type projectBody struct {
	Name                    string  `json:"name"`
	Location                string  `json:"location"`
	Manager                 string  `json:"manager"`
	TotalBudget             float64 `json:"total_budget"`
	BudgetHours             float64 `json:"budget_hours"`
	StatusNotes             string  `json:"status_notes"`
	StartDate               *date   `json:"start_date"`
	OriginalCompletionDate  *date   `json:"original_completion_date"`
	EstimatedCompletionDate *date   `json:"estimated_completion_date"`
}

type eventBody struct {
	Title    string   `json:"title"`
	Date     *date    `json:"date"`
	Type     string   `json:"event_type"`
	Category *string  `json:"category"`
	Amount   *float64 `json:"amount"`
}

type eventPatch struct {
	Title    *string  `json:"title"`
	Date     *date    `json:"date"`
	Type     *string  `json:"event_type"`
	Category *string  `json:"category"`
	Amount   *float64 `json:"amount"`
}

type mediaBody struct {
	Filename string `json:"filename"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Reporting.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.svc.Reporting.GetProject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	p := &domain.Project{
		Name:                    body.Name,
		Location:                body.Location,
		Manager:                 body.Manager,
		TotalBudget:             body.TotalBudget,
		BudgetHours:             body.BudgetHours,
		StatusNotes:             body.StatusNotes,
		StartDate:               body.StartDate.ptr(),
		OriginalCompletionDate:  body.OriginalCompletionDate.ptr(),
		EstimatedCompletionDate: body.EstimatedCompletionDate.ptr(),
	}
	if err := s.svc.Reporting.CreateProject(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) addEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body eventBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev := &domain.ProjectEvent{
		Title:    body.Title,
		Type:     domain.EventType(strings.ToLower(body.Type)),
		Category: body.Category,
		Amount:   body.Amount,
	}
	if body.Date != nil {
		ev.Date = body.Date.Time
	}
	if err := s.svc.Reporting.AddEvent(r.Context(), id, ev); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body eventPatch
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	upd := domain.EventUpdate{
		Title:    body.Title,
		Date:     body.Date.ptr(),
		Category: body.Category,
		Amount:   body.Amount,
	}
	if body.Type != nil {
		t := domain.EventType(strings.ToLower(*body.Type))
		upd.Type = &t
	}
	ev, err := s.svc.Reporting.UpdateEvent(r.Context(), id, upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// addMedia registers file metadata. It takes either a JSON body naming the
// file or a multipart upload, whose bytes are not kept.
func (s *Server) addMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var filename string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		_, header, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, r, errors.Join(errBadRequest, err))
			return
		}
		filename = header.Filename
	} else {
		var body mediaBody
		if err := decodeJSON(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
		filename = body.Filename
	}

	m, err := s.svc.Reporting.AddMedia(r.Context(), id, filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
