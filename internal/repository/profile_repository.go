package repository

import (
	"context"
	"errors"
	"time"

	"skill-bridge/internal/database"
)

var ErrProfileNotFound = errors.New("profile not found")

type UserProfile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (UserProfile, error)
	// Upsert writes the full profile row, creating it on first save.
	Upsert(ctx context.Context, p UserProfile) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID string) (UserProfile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, display_name, bio, location, avatar_url, updated_at
		FROM user_profiles WHERE user_id = $1`, userID)

	var p UserProfile
	err := row.Scan(&p.UserID, &p.DisplayName, &p.Bio, &p.Location, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return UserProfile{}, ErrProfileNotFound
		}
		return UserProfile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p UserProfile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_profiles (user_id, display_name, bio, location, avatar_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.DisplayName, p.Bio, p.Location, p.AvatarURL, p.UpdatedAt,
	)
	return err
}
