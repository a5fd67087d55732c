package usecase

import (
	"context"
	"errors"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type NotificationUsecase interface {
	ListForUser(ctx context.Context, userID string) ([]repository.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (repository.Notification, error)
}

type Notification struct {
	repo repository.NotificationRepository
}

func NewNotificationUsecase(repo repository.NotificationRepository) *Notification {
	return &Notification{repo: repo}
}

func (u *Notification) ListForUser(ctx context.Context, userID string) ([]repository.Notification, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Notification) MarkRead(ctx context.Context, id uuid.UUID) (repository.Notification, error) {
	n, err := u.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return repository.Notification{}, ErrNotFound
		}
		return repository.Notification{}, ErrInternal
	}
	return n, nil
}
