package usecase

import (
	"context"
	"strings"
	"time"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type UpsertSkillInput struct {
	Name     string
	Category string
	Level    int
	Location repository.Location
}

// SkillItem is the per-user projection: internal id and userId are not
// exposed on owner-scoped listings.
type SkillItem struct {
	Name     string              `json:"name"`
	Level    int                 `json:"level"`
	Category string              `json:"category"`
	Location repository.Location `json:"location"`
}

type SkillUsecase interface {
	// Upsert saves the skill and returns the user's full skill list.
	Upsert(ctx context.Context, userID string, in UpsertSkillInput) ([]SkillItem, error)
	ListForUser(ctx context.Context, userID string) ([]SkillItem, error)
	// ListAll returns every skill with id and userId for discovery.
	ListAll(ctx context.Context) ([]repository.Skill, error)
	// Delete removes the named skill if present and returns the
	// remaining list; deleting an absent skill is not an error.
	Delete(ctx context.Context, userID, name string) ([]SkillItem, error)
}

type Skill struct {
	repo repository.SkillRepository
	now  func() time.Time
}

func NewSkillUsecase(repo repository.SkillRepository) *Skill {
	return &Skill{repo: repo, now: time.Now}
}

func (u *Skill) Upsert(ctx context.Context, userID string, in UpsertSkillInput) ([]SkillItem, error) {
	userID = strings.TrimSpace(userID)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if userID == "" || in.Name == "" || in.Category == "" {
		return nil, ErrInvalidInput
	}
	if in.Level < 0 || in.Level > 100 {
		return nil, ErrInvalidInput
	}

	now := u.now().UTC()
	err := u.repo.Upsert(ctx, repository.Skill{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      in.Name,
		Category:  in.Category,
		Level:     in.Level,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, ErrInternal
	}

	return u.ListForUser(ctx, userID)
}

func (u *Skill) ListForUser(ctx context.Context, userID string) ([]SkillItem, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, s := range items {
		out = append(out, SkillItem{
			Name:     s.Name,
			Level:    s.Level,
			Category: s.Category,
			Location: s.Location,
		})
	}
	return out, nil
}

func (u *Skill) ListAll(ctx context.Context) ([]repository.Skill, error) {
	items, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Skill) Delete(ctx context.Context, userID, name string) ([]SkillItem, error) {
	if err := u.repo.Delete(ctx, userID, name); err != nil {
		return nil, ErrInternal
	}
	return u.ListForUser(ctx, userID)
}
