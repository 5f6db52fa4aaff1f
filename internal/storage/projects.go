package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resumecanvas/internal/domain"
)

// DefaultMaxRevisions is how many saved snapshots are kept per project.
const DefaultMaxRevisions = 40

// Revision is one saved snapshot of a project.
type Revision struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	Number    int             `json:"revision"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProjectStore implements domain.ProjectGateway on a SQL database and keeps
// a bounded revision history of every save.
type ProjectStore struct {
	db           *DB
	maxRevisions int
	now          func() time.Time
	newID        func() string
}

func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{
		db:           db,
		maxRevisions: DefaultMaxRevisions,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// SetMaxRevisions changes the history bound; n < 1 is ignored.
func (s *ProjectStore) SetMaxRevisions(n int) {
	if n >= 1 {
		s.maxRevisions = n
	}
}

func thumbColumns(t *domain.Thumbnail) (url, publicID string) {
	if t == nil {
		return "", ""
	}
	return t.URL, t.PublicID
}

func (s *ProjectStore) Create(ctx context.Context, p domain.ProjectPayload) (*domain.ProjectRecord, error) {
	id := s.newID()
	now := s.now()
	url, pub := thumbColumns(p.Thumbnail)
	data := dataOrEmpty(p.Data)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.rebind(
			`INSERT INTO projects (id, name, description, data, thumbnail_url, thumbnail_public_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			id, p.Name, p.Description, string(data), url, pub, now, now,
		); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return s.pushRevision(ctx, tx, id, p.Name, data, now)
	})
	if err != nil {
		return nil, err
	}
	return &domain.ProjectRecord{
		ID: id, Name: p.Name, Description: p.Description, Data: data,
		Thumbnail: p.Thumbnail, CreatedAt: now, UpdatedAt: now,
	}, nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, p domain.ProjectPayload) (*domain.ProjectRecord, error) {
	now := s.now()
	url, pub := thumbColumns(p.Thumbnail)
	data := dataOrEmpty(p.Data)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.db.rebind(
			`UPDATE projects SET name = ?, description = ?, data = ?, thumbnail_url = ?, thumbnail_public_id = ?, updated_at = ?
			 WHERE id = ?`),
			p.Name, p.Description, string(data), url, pub, now, id,
		)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update project %s: %w", id, domain.ErrNotFound)
		}
		return s.pushRevision(ctx, tx, id, p.Name, data, now)
	})
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, id)
}

func (s *ProjectStore) Fetch(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	var (
		rec            domain.ProjectRecord
		data, url, pub string
	)
	err := s.db.Conn().QueryRowContext(ctx, s.db.rebind(
		`SELECT id, name, description, data, thumbnail_url, thumbnail_public_id, created_at, updated_at
		 FROM projects WHERE id = ?`), id,
	).Scan(&rec.ID, &rec.Name, &rec.Description, &data, &url, &pub, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch project %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project %s: %w", id, err)
	}
	rec.Data = json.RawMessage(data)
	if url != "" {
		rec.Thumbnail = &domain.Thumbnail{URL: url, PublicID: pub}
	}
	return &rec, nil
}

// Revisions lists the kept snapshots of a project, newest first.
func (s *ProjectStore) Revisions(ctx context.Context, projectID string) ([]Revision, error) {
	rows, err := s.db.Conn().QueryContext(ctx, s.db.rebind(
		`SELECT id, project_id, revision, name, data, created_at
		 FROM project_revisions WHERE project_id = ? ORDER BY revision DESC`), projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("load revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		var data string
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Number, &r.Name, &data, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.Data = json.RawMessage(data)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ProjectStore) pushRevision(ctx context.Context, tx *sql.Tx, projectID, name string, data json.RawMessage, now time.Time) error {
	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, s.db.rebind(
		`SELECT MAX(revision) FROM project_revisions WHERE project_id = ?`), projectID,
	).Scan(&last); err != nil {
		return fmt.Errorf("next revision: %w", err)
	}
	next := last.Int64 + 1
	if _, err := tx.ExecContext(ctx, s.db.rebind(
		`INSERT INTO project_revisions (id, project_id, revision, name, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		s.newID(), projectID, next, name, string(data), now,
	); err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return s.prune(ctx, tx, projectID, next)
}

// prune drops revisions older than the newest maxRevisions.
func (s *ProjectStore) prune(ctx context.Context, tx *sql.Tx, projectID string, newest int64) error {
	cutoff := newest - int64(s.maxRevisions)
	if cutoff < 1 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, s.db.rebind(
		`DELETE FROM project_revisions WHERE project_id = ? AND revision <= ?`), projectID, cutoff,
	); err != nil {
		return fmt.Errorf("prune revisions: %w", err)
	}
	return nil
}

func (s *ProjectStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func dataOrEmpty(d json.RawMessage) json.RawMessage {
	if len(d) == 0 {
		return json.RawMessage(`{"elements":[]}`)
	}
	return d
}
