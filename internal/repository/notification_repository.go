package repository

import (
	"context"
	"errors"
	"time"

	"skill-bridge/internal/database"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	ProjectID uuid.UUID `json:"projectId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) error
	FindByUserID(ctx context.Context, userID string) ([]Notification, error)
	// ExistsForProjectSince reports whether the user already has a
	// notification for the project created at or after since.
	ExistsForProjectSince(ctx context.Context, userID string, projectID uuid.UUID, since time.Time) (bool, error)
	MarkRead(ctx context.Context, id uuid.UUID) (Notification, error)
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, project_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.ProjectID, n.Message, n.Read, n.CreatedAt,
	)
	return err
}

func (r *PostgresNotificationRepository) FindByUserID(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, project_id, message, read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ProjectID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) ExistsForProjectSince(ctx context.Context, userID string, projectID uuid.UUID, since time.Time) (bool, error) {
	row := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND project_id = $2 AND created_at >= $3
		)`, userID, projectID, since)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (Notification, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1
		RETURNING id, user_id, project_id, message, read, created_at`, id)

	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.ProjectID, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return Notification{}, ErrNotificationNotFound
		}
		return Notification{}, err
	}
	return n, nil
}
