package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skill-bridge/internal/repository"
)

type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Location    *string
	AvatarURL   *string
}

type ProfileUsecase interface {
	// Get returns the profile, or (zero, false) when none exists yet.
	Get(ctx context.Context, userID string) (repository.UserProfile, bool, error)
	// Update upserts the requester's own profile; editing another
	// user's profile is ErrForbidden.
	Update(ctx context.Context, requesterID, userID string, in UpdateProfileInput) (repository.UserProfile, error)
}

type Profile struct {
	repo repository.ProfileRepository
	now  func() time.Time
}

func NewProfileUsecase(repo repository.ProfileRepository) *Profile {
	return &Profile{repo: repo, now: time.Now}
}

func (u *Profile) Get(ctx context.Context, userID string) (repository.UserProfile, bool, error) {
	p, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return repository.UserProfile{}, false, nil
		}
		return repository.UserProfile{}, false, ErrInternal
	}
	return p, true, nil
}

func (u *Profile) Update(ctx context.Context, requesterID, userID string, in UpdateProfileInput) (repository.UserProfile, error) {
	requesterID = strings.TrimSpace(requesterID)
	userID = strings.TrimSpace(userID)
	if requesterID == "" || requesterID != userID {
		return repository.UserProfile{}, ErrForbidden
	}

	p, err := u.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return repository.UserProfile{}, ErrInternal
	}
	p.UserID = userID

	if in.DisplayName != nil {
		p.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	p.UpdatedAt = u.now().UTC()

	if err := u.repo.Upsert(ctx, p); err != nil {
		return repository.UserProfile{}, ErrInternal
	}
	return p, nil
}
