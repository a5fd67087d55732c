package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

// casAttempts bounds the read-modify-write retry loop on version
// conflicts before giving up.
const casAttempts = 3

const projectListCacheKey = "projects:list"

type CreateProjectInput struct {
	Title       string
	Description string
	Category    string
	AdminID     string
	Tags        []string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ListCache is the slice of the redis wrapper the project usecase needs.
// A nil cache disables caching entirely.
type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ProjectUsecase interface {
	Create(ctx context.Context, in CreateProjectInput) (repository.Project, error)
	List(ctx context.Context) ([]repository.Project, error)
	Get(ctx context.Context, id uuid.UUID) (repository.Project, error)
	Join(ctx context.Context, id uuid.UUID, userID string) (repository.Project, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, requesterID string, completed int) (repository.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, requesterID string, status string) (repository.Project, error)
}

type Project struct {
	repo  repository.ProjectRepository
	cache ListCache
	now   func() time.Time
}

func NewProjectUsecase(repo repository.ProjectRepository, cache ListCache) *Project {
	return &Project{repo: repo, cache: cache, now: time.Now}
}

func (u *Project) Create(ctx context.Context, in CreateProjectInput) (repository.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.AdminID = strings.TrimSpace(in.AdminID)
	if in.Title == "" || in.Description == "" || in.Category == "" || in.AdminID == "" {
		return repository.Project{}, ErrInvalidInput
	}

	now := u.now().UTC()
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	p := repository.Project{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		AdminID:     in.AdminID,
		Members: []repository.Member{{
			UserID:   in.AdminID,
			Role:     repository.RoleAdmin,
			JoinedAt: now,
		}},
		Progress:  repository.Progress{Completed: 0, LastUpdated: now},
		Status:    repository.StatusPlanning,
		Tags:      tags,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	if err := u.repo.Create(ctx, p); err != nil {
		return repository.Project{}, ErrInternal
	}
	u.invalidateList(ctx)
	return p, nil
}

func (u *Project) List(ctx context.Context) ([]repository.Project, error) {
	if u.cache != nil {
		var cached []repository.Project
		if ok, err := u.cache.GetJSON(ctx, projectListCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	items, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, projectListCacheKey, items, 0)
	}
	return items, nil
}

func (u *Project) Get(ctx context.Context, id uuid.UUID) (repository.Project, error) {
	p, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return repository.Project{}, ErrNotFound
		}
		return repository.Project{}, ErrInternal
	}
	return p, nil
}

func (u *Project) Join(ctx context.Context, id uuid.UUID, userID string) (repository.Project, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return repository.Project{}, ErrInvalidInput
	}

	return u.mutate(ctx, id, func(p *repository.Project, now time.Time) error {
		for _, m := range p.Members {
			if m.UserID == userID {
				return ErrAlreadyMember
			}
		}
		p.Members = append(p.Members, repository.Member{
			UserID:   userID,
			Role:     repository.RoleMember,
			JoinedAt: now,
		})
		return nil
	})
}

func (u *Project) UpdateProgress(ctx context.Context, id uuid.UUID, requesterID string, completed int) (repository.Project, error) {
	if completed < 0 || completed > 100 {
		return repository.Project{}, ErrInvalidInput
	}

	return u.mutate(ctx, id, func(p *repository.Project, now time.Time) error {
		if p.AdminID != requesterID {
			return ErrForbidden
		}
		p.Progress = repository.Progress{Completed: completed, LastUpdated: now}
		p.Status = deriveStatus(p.Status, completed)
		return nil
	})
}

func (u *Project) UpdateStatus(ctx context.Context, id uuid.UUID, requesterID string, status string) (repository.Project, error) {
	next := repository.ProjectStatus(strings.TrimSpace(status))
	if !validStatus(next) {
		return repository.Project{}, ErrInvalidInput
	}

	return u.mutate(ctx, id, func(p *repository.Project, now time.Time) error {
		if p.AdminID != requesterID {
			return ErrForbidden
		}
		p.Status = next
		return nil
	})
}

// mutate runs a read-modify-write cycle under optimistic concurrency,
// retrying when another writer won the version race.
func (u *Project) mutate(ctx context.Context, id uuid.UUID, apply func(p *repository.Project, now time.Time) error) (repository.Project, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := u.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProjectNotFound) {
				return repository.Project{}, ErrNotFound
			}
			return repository.Project{}, ErrInternal
		}

		now := u.now().UTC()
		if err := apply(&p, now); err != nil {
			return repository.Project{}, err
		}
		p.UpdatedAt = now

		err = u.repo.UpdateCAS(ctx, p)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return repository.Project{}, ErrInternal
		}

		p.Version++
		u.invalidateList(ctx)
		return p, nil
	}
	return repository.Project{}, ErrInternal
}

func (u *Project) invalidateList(ctx context.Context) {
	if u.cache != nil {
		_ = u.cache.Delete(ctx, projectListCacheKey)
	}
}

// deriveStatus applies the progress-driven status rule: 100 completes
// the project, anything above zero puts it in progress, and zero keeps
// planning only if the project never left it.
func deriveStatus(current repository.ProjectStatus, completed int) repository.ProjectStatus {
	switch {
	case completed >= 100:
		return repository.StatusCompleted
	case completed > 0:
		return repository.StatusInProgress
	case current == repository.StatusPlanning:
		return repository.StatusPlanning
	default:
		return repository.StatusInProgress
	}
}

func validStatus(s repository.ProjectStatus) bool {
	switch s {
	case repository.StatusPlanning, repository.StatusInProgress, repository.StatusCompleted, repository.StatusOnHold:
		return true
	}
	return false
}
