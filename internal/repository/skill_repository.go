package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skill-bridge/internal/database"

	"github.com/google/uuid"
)

var ErrSkillNotFound = errors.New("skill not found")

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Address     string      `json:"address,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Skill struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Level     int       `json:"level"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SkillRepository interface {
	// Upsert creates the skill or, when (userId, name) already exists,
	// updates level/category/location and refreshes updated_at.
	Upsert(ctx context.Context, s Skill) error
	FindByUserID(ctx context.Context, userID string) ([]Skill, error)
	FindAll(ctx context.Context) ([]Skill, error)
	// Delete removes the (userID, name) skill; absent rows are not an error.
	Delete(ctx context.Context, userID, name string) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) Upsert(ctx context.Context, s Skill) error {
	loc, err := json.Marshal(s.Location)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO skills (id, user_id, name, category, level, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, name) DO UPDATE SET
			category = EXCLUDED.category,
			level = EXCLUDED.level,
			location = EXCLUDED.location,
			updated_at = EXCLUDED.updated_at`,
		s.ID, s.UserID, s.Name, s.Category, s.Level, loc, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *PostgresSkillRepository) FindByUserID(ctx context.Context, userID string) ([]Skill, error) {
	return r.findWhere(ctx, `WHERE user_id = $1`, userID)
}

func (r *PostgresSkillRepository) FindAll(ctx context.Context) ([]Skill, error) {
	return r.findWhere(ctx, ``)
}

func (r *PostgresSkillRepository) Delete(ctx context.Context, userID, name string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM skills WHERE user_id = $1 AND name = $2`, userID, name)
	return err
}

func (r *PostgresSkillRepository) findWhere(ctx context.Context, where string, args ...any) ([]Skill, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, category, level, location, created_at, updated_at
		FROM skills `+where+` ORDER BY name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		var loc []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Category, &s.Level, &loc, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if len(loc) > 0 {
			if err := json.Unmarshal(loc, &s.Location); err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
