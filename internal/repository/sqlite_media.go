package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
)

// SQLiteMediaRepo stores project media metadata. File bytes are not kept.
type SQLiteMediaRepo struct {
	db db.DBTX
}

func NewSQLiteMediaRepo(conn db.DBTX) *SQLiteMediaRepo {
	return &SQLiteMediaRepo{db: conn}
}

func (r *SQLiteMediaRepo) Create(ctx context.Context, m *domain.ProjectMedia) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO project_media (project_id, filename, file_type, url) VALUES (?, ?, ?, ?)`,
		m.ProjectID, m.Filename, string(m.FileType), m.URL)
	if err != nil {
		return fmt.Errorf("inserting project media: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project media id: %w", err)
	}
	m.ID = id
	return nil
}

func (r *SQLiteMediaRepo) ListByProject(ctx context.Context, projectID int64) ([]domain.ProjectMedia, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, filename, file_type, url FROM project_media WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project media: %w", err)
	}
	defer rows.Close()

	out := []domain.ProjectMedia{}
	for rows.Next() {
		var m domain.ProjectMedia
		var fileType string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Filename, &fileType, &m.URL); err != nil {
			return nil, fmt.Errorf("scanning project media: %w", err)
		}
		m.FileType = domain.MediaType(fileType)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project media: %w", err)
	}
	return out, nil
}
