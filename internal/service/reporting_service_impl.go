package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/repository"
)

// ProjectDetail is a project with its timeline and attached media.
type ProjectDetail struct {
	domain.Project
	Events []domain.ProjectEvent `json:"events"`
	Media  []domain.ProjectMedia `json:"media"`
}

type reportingService struct {
	projects  repository.ProjectRepo
	events    repository.EventRepo
	media     repository.MediaRepo
	mediaBase string
	observer  UseCaseObserver
}

// NewReportingService wires the project reporting use cases. Media URLs are
// built under mediaBase, for example "/uploads".
func NewReportingService(
	projects repository.ProjectRepo,
	events repository.EventRepo,
	media repository.MediaRepo,
	mediaBase string,
	observers ...UseCaseObserver,
) ReportingService {
	return &reportingService{
		projects:  projects,
		events:    events,
		media:     media,
		mediaBase: domain.CoalesceStr(mediaBase, "/uploads"),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *reportingService) CreateProject(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": p.Name}
	defer observe(ctx, s.observer, "create-project", startedAt, fields, &err)

	if err := domain.ValidateRecord(p); err != nil {
		return err
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	fields["project_id"] = p.ID
	return nil
}

// ListProjects returns every project with its events and media. Reads are
// issued one after another so a single-connection database is never asked
// for two open cursors.
func (s *reportingService) ListProjects(ctx context.Context) ([]ProjectDetail, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	out := make([]ProjectDetail, 0, len(projects))
	for _, p := range projects {
		detail, err := s.detail(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *detail)
	}
	return out, nil
}

func (s *reportingService) GetProject(ctx context.Context, id int64) (*ProjectDetail, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}
	return s.detail(ctx, *p)
}

func (s *reportingService) detail(ctx context.Context, p domain.Project) (*ProjectDetail, error) {
	events, err := s.events.List(ctx, repository.EventFilter{ProjectID: &p.ID})
	if err != nil {
		return nil, fmt.Errorf("listing events of project %d: %w", p.ID, err)
	}
	media, err := s.media.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing media of project %d: %w", p.ID, err)
	}
	return &ProjectDetail{Project: p, Events: events, Media: media}, nil
}

func (s *reportingService) AddEvent(ctx context.Context, projectID int64, ev *domain.ProjectEvent) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "event_type": string(ev.Type)}
	defer observe(ctx, s.observer, "add-event", startedAt, fields, &err)

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return fmt.Errorf("getting project %d: %w", projectID, err)
	}
	ev.ProjectID = projectID
	if ev.Category != nil {
		ev.Category = domain.StrPtr(strings.TrimSpace(*ev.Category))
	}
	if ev.Date.IsZero() {
		ev.Date = time.Now().UTC()
	}
	if err := domain.ValidateRecord(ev); err != nil {
		return err
	}
	if err := s.events.Create(ctx, ev); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

func (s *reportingService) UpdateEvent(ctx context.Context, id int64, upd domain.EventUpdate) (ev *domain.ProjectEvent, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"event_id": id}
	defer observe(ctx, s.observer, "update-event", startedAt, fields, &err)

	ev, err = s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting event %d: %w", id, err)
	}
	upd.Apply(ev)
	if err := domain.ValidateRecord(ev); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("updating event %d: %w", id, err)
	}
	return ev, nil
}

// AddMedia registers metadata for an uploaded file. The stored name is a
// fresh UUID keeping the original extension, so repeated uploads of the
// same file never collide.
func (s *reportingService) AddMedia(ctx context.Context, projectID int64, filename string) (m *domain.ProjectMedia, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "filename": filename}
	defer observe(ctx, s.observer, "add-media", startedAt, fields, &err)

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("getting project %d: %w", projectID, err)
	}
	stored := uuid.NewString() + path.Ext(filename)
	m = &domain.ProjectMedia{
		ProjectID: projectID,
		Filename:  filename,
		FileType:  domain.MediaTypeForFilename(filename),
		URL:       s.mediaBase + "/" + stored,
	}
	if err := domain.ValidateRecord(m); err != nil {
		return nil, err
	}
	if err := s.media.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating media: %w", err)
	}
	fields["file_type"] = string(m.FileType)
	return m, nil
}
