package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skill-bridge/internal/database"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	// ErrVersionConflict signals a lost compare-and-swap race; callers
	// re-read and retry.
	ErrVersionConflict = errors.New("project version conflict")
)

type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "planning"
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusOnHold     ProjectStatus = "on-hold"
)

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

type Member struct {
	UserID   string     `json:"userId"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

type Progress struct {
	Completed   int       `json:"completed"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type Project struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	AdminID     string        `json:"adminId"`
	Members     []Member      `json:"members"`
	Progress    Progress      `json:"progress"`
	Status      ProjectStatus `json:"status"`
	Tags        []string      `json:"tags"`
	StartDate   *time.Time    `json:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Version int64 `json:"-"`
}

type ProjectRepository interface {
	Create(ctx context.Context, p Project) error
	FindAll(ctx context.Context) ([]Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (Project, error)
	// UpdateCAS persists p only if the stored version still matches
	// p.Version; on success the stored version is bumped.
	UpdateCAS(ctx context.Context, p Project) error
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

const projectColumns = `id, title, description, category, admin_id, members,
	progress_completed, progress_updated_at, status, tags,
	start_date, end_date, created_at, updated_at, version`

func (r *PostgresProjectRepository) Create(ctx context.Context, p Project) error {
	members, err := json.Marshal(p.Members)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.Title, p.Description, p.Category, p.AdminID, members,
		p.Progress.Completed, p.Progress.LastUpdated, string(p.Status), p.Tags,
		p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt, p.Version,
	)
	return err
}

func (r *PostgresProjectRepository) FindAll(ctx context.Context) ([]Project, error) {
	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if isNoRows(err) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}
	return p, nil
}

func (r *PostgresProjectRepository) UpdateCAS(ctx context.Context, p Project) error {
	members, err := json.Marshal(p.Members)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx, `
		UPDATE projects SET
			title = $2, description = $3, category = $4, admin_id = $5,
			members = $6, progress_completed = $7, progress_updated_at = $8,
			status = $9, tags = $10, start_date = $11, end_date = $12,
			updated_at = $13, version = version + 1
		WHERE id = $1 AND version = $14`,
		p.ID, p.Title, p.Description, p.Category, p.AdminID, members,
		p.Progress.Completed, p.Progress.LastUpdated, string(p.Status), p.Tags,
		p.StartDate, p.EndDate, p.UpdatedAt, p.Version,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (Project, error) {
	var p Project
	var members []byte
	var status string

	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.AdminID, &members,
		&p.Progress.Completed, &p.Progress.LastUpdated, &status, &p.Tags,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return Project{}, err
	}

	p.Status = ProjectStatus(status)
	if len(members) > 0 {
		if err := json.Unmarshal(members, &p.Members); err != nil {
			return Project{}, err
		}
	}
	if p.Members == nil {
		p.Members = []Member{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}
