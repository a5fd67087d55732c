// Package scheduler runs the daily end-of-day reminder job: every
// project member gets at most one reminder notification per project per
// UTC calendar day.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const lockKey = "scheduler:reminders:lock"

// RunLocker is the cross-instance single-flight guard; a nil locker
// leaves only the in-process guard.
type RunLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type ReminderScheduler struct {
	projects      repository.ProjectRepository
	notifications repository.NotificationRepository
	locker        RunLocker
	logger        *log.Logger

	cronSpec string
	cron     *cron.Cron
	running  sync.Mutex
	now      func() time.Time
}

func NewReminderScheduler(
	projects repository.ProjectRepository,
	notifications repository.NotificationRepository,
	locker RunLocker,
	logger *log.Logger,
	cronSpec string,
) *ReminderScheduler {
	return &ReminderScheduler{
		projects:      projects,
		notifications: notifications,
		locker:        locker,
		logger:        logger,
		cronSpec:      cronSpec,
		now:           time.Now,
	}
}

// Start schedules the job. A bad cron spec disables the feature with a
// log line; it never takes the process down.
func (s *ReminderScheduler) Start() {
	c := cron.New()
	_, err := c.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[EOD Scheduler] invalid cron spec %q, daily notifications disabled: %v", s.cronSpec, err)
		}
		return
	}

	c.Start()
	s.cron = c
	if s.logger != nil {
		s.logger.Printf("[EOD Scheduler] scheduled daily notifications | spec=%q", s.cronSpec)
	}
}

func (s *ReminderScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce executes a single reminder sweep. Overlapping runs are
// skipped, never stacked; a failure on one record is logged and the
// sweep moves on.
func (s *ReminderScheduler) RunOnce(ctx context.Context) {
	if !s.running.TryLock() {
		if s.logger != nil {
			s.logger.Printf("[EOD Scheduler] previous run still in progress, skipping")
		}
		return
	}
	defer s.running.Unlock()

	if s.locker != nil {
		ok, err := s.locker.AcquireLock(ctx, lockKey, 10*time.Minute)
		if err == nil && !ok {
			if s.logger != nil {
				s.logger.Printf("[EOD Scheduler] run owned by another instance, skipping")
			}
			return
		}
	}

	if s.logger != nil {
		s.logger.Printf("[EOD Scheduler] running daily notifications job")
	}

	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[EOD Scheduler] failed to load projects: %v", err)
		}
		return
	}

	dayStart := startOfDayUTC(s.now())
	created := 0
	for _, proj := range projects {
		message := fmt.Sprintf("Reminder: You are a member of project '%s'. Please review and contribute updates.", proj.Title)
		for _, member := range proj.Members {
			inserted, err := s.notifyMember(ctx, member.UserID, proj.ID, message, dayStart)
			if err != nil {
				if s.logger != nil {
					s.logger.Printf("[EOD Scheduler] failed for user=%s project=%s: %v", member.UserID, proj.ID, err)
				}
				continue
			}
			if inserted {
				created++
			}
		}
	}

	if s.logger != nil {
		s.logger.Printf("[EOD Scheduler] run finished | projects=%d processed=%d", len(projects), created)
	}
}

// notifyMember reports whether it actually inserted a notification; a
// member already reminded today is a no-op, not a processed record.
func (s *ReminderScheduler) notifyMember(ctx context.Context, userID string, projectID uuid.UUID, message string, dayStart time.Time) (bool, error) {
	exists, err := s.notifications.ExistsForProjectSince(ctx, userID, projectID, dayStart)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = s.notifications.Create(ctx, repository.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		Message:   message,
		Read:      false,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
