package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type stubProjectRepo struct {
	projects []repository.Project
	err      error
}

func (s *stubProjectRepo) Create(ctx context.Context, p repository.Project) error { return nil }
func (s *stubProjectRepo) FindAll(ctx context.Context) ([]repository.Project, error) {
	return s.projects, s.err
}
func (s *stubProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (repository.Project, error) {
	return repository.Project{}, repository.ErrProjectNotFound
}
func (s *stubProjectRepo) UpdateCAS(ctx context.Context, p repository.Project) error { return nil }

type stubNotificationRepo struct {
	existing  map[string]bool // userID|projectID -> already notified today
	existsErr map[string]error
	created   []repository.Notification
	createErr error
}

func existKey(userID string, projectID uuid.UUID) string {
	return userID + "|" + projectID.String()
}

func (s *stubNotificationRepo) Create(ctx context.Context, n repository.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, n)
	return nil
}

func (s *stubNotificationRepo) FindByUserID(ctx context.Context, userID string) ([]repository.Notification, error) {
	return nil, nil
}

func (s *stubNotificationRepo) ExistsForProjectSince(ctx context.Context, userID string, projectID uuid.UUID, since time.Time) (bool, error) {
	if err := s.existsErr[existKey(userID, projectID)]; err != nil {
		return false, err
	}
	return s.existing[existKey(userID, projectID)], nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (repository.Notification, error) {
	return repository.Notification{}, repository.ErrNotificationNotFound
}

type stubLocker struct {
	allow bool
	err   error
	calls int
}

func (s *stubLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.calls++
	return s.allow, s.err
}

func memberProject(title string, userIDs ...string) repository.Project {
	p := repository.Project{ID: uuid.New(), Title: title}
	for i, id := range userIDs {
		role := repository.RoleMember
		if i == 0 {
			role = repository.RoleAdmin
		}
		p.Members = append(p.Members, repository.Member{UserID: id, Role: role})
	}
	return p
}

func newTestScheduler(projects *stubProjectRepo, notifications repository.NotificationRepository, locker RunLocker) *ReminderScheduler {
	s := NewReminderScheduler(projects, notifications, locker, nil, "59 23 * * *")
	s.now = func() time.Time { return time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC) }
	return s
}

func TestRunOnce_NotifiesEveryMemberOnce(t *testing.T) {
	projects := &stubProjectRepo{projects: []repository.Project{
		memberProject("Garden Build", "u1", "u2"),
		memberProject("Repair Cafe", "u1"),
	}}
	notifications := &stubNotificationRepo{}

	newTestScheduler(projects, notifications, nil).RunOnce(context.Background())

	if len(notifications.created) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifications.created))
	}
	first := notifications.created[0]
	want := "Reminder: You are a member of project 'Garden Build'. Please review and contribute updates."
	if first.Message != want {
		t.Fatalf("unexpected message: %q", first.Message)
	}
	if first.Read {
		t.Fatalf("new notification must start unread")
	}
}

func TestRunOnce_SkipsMembersAlreadyNotifiedToday(t *testing.T) {
	proj := memberProject("Garden Build", "u1", "u2")
	projects := &stubProjectRepo{projects: []repository.Project{proj}}
	notifications := &stubNotificationRepo{existing: map[string]bool{
		existKey("u1", proj.ID): true,
	}}

	newTestScheduler(projects, notifications, nil).RunOnce(context.Background())

	if len(notifications.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.created))
	}
	if notifications.created[0].UserID != "u2" {
		t.Fatalf("expected only u2 notified, got %s", notifications.created[0].UserID)
	}
}

func TestRunOnce_ProcessedCountExcludesDedupedMembers(t *testing.T) {
	proj := memberProject("Garden Build", "u1", "u2")
	projects := &stubProjectRepo{projects: []repository.Project{proj}}
	notifications := &stubNotificationRepo{existing: map[string]bool{
		existKey("u1", proj.ID): true,
	}}

	var buf bytes.Buffer
	s := NewReminderScheduler(projects, notifications, nil, log.New(&buf, "", 0), "59 23 * * *")
	s.now = func() time.Time { return time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC) }
	s.RunOnce(context.Background())

	if !strings.Contains(buf.String(), "projects=1 processed=1") {
		t.Fatalf("run summary must count inserts only, got: %s", buf.String())
	}
}

func TestRunOnce_RecordFailureDoesNotAbortSweep(t *testing.T) {
	proj := memberProject("Garden Build", "u1", "u2", "u3")
	projects := &stubProjectRepo{projects: []repository.Project{proj}}
	notifications := &stubNotificationRepo{existsErr: map[string]error{
		existKey("u2", proj.ID): errors.New("connection reset"),
	}}

	newTestScheduler(projects, notifications, nil).RunOnce(context.Background())

	if len(notifications.created) != 2 {
		t.Fatalf("expected sweep to continue past failure, got %d notifications", len(notifications.created))
	}
	for _, n := range notifications.created {
		if n.UserID == "u2" {
			t.Fatalf("failed member should not have been notified")
		}
	}
}

func TestRunOnce_SkipsWhenAnotherInstanceHoldsLock(t *testing.T) {
	projects := &stubProjectRepo{projects: []repository.Project{memberProject("Garden Build", "u1")}}
	notifications := &stubNotificationRepo{}
	locker := &stubLocker{allow: false}

	newTestScheduler(projects, notifications, locker).RunOnce(context.Background())

	if locker.calls != 1 {
		t.Fatalf("expected one lock attempt, got %d", locker.calls)
	}
	if len(notifications.created) != 0 {
		t.Fatalf("locked-out run must not create notifications")
	}
}

func TestRunOnce_LockerErrorDoesNotBlockRun(t *testing.T) {
	projects := &stubProjectRepo{projects: []repository.Project{memberProject("Garden Build", "u1")}}
	notifications := &stubNotificationRepo{}
	locker := &stubLocker{allow: false, err: errors.New("redis down")}

	newTestScheduler(projects, notifications, locker).RunOnce(context.Background())

	if len(notifications.created) != 1 {
		t.Fatalf("lock errors must degrade to running, got %d notifications", len(notifications.created))
	}
}

func TestRunOnce_DedupWindowIsStartOfUTCDay(t *testing.T) {
	proj := memberProject("Garden Build", "u1")
	projects := &stubProjectRepo{projects: []repository.Project{proj}}

	var gotSince time.Time
	notifications := &captureSinceRepo{since: &gotSince}

	newTestScheduler(projects, notifications, nil).RunOnce(context.Background())

	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !gotSince.Equal(want) {
		t.Fatalf("expected dedup window %v, got %v", want, gotSince)
	}
}

type captureSinceRepo struct {
	stubNotificationRepo
	since *time.Time
}

func (c *captureSinceRepo) ExistsForProjectSince(ctx context.Context, userID string, projectID uuid.UUID, since time.Time) (bool, error) {
	*c.since = since
	return false, nil
}

func TestStart_InvalidCronSpecDisablesScheduler(t *testing.T) {
	s := NewReminderScheduler(&stubProjectRepo{}, &stubNotificationRepo{}, nil, nil, "not a cron spec")
	s.Start()
	defer s.Stop()

	if s.cron != nil {
		t.Fatalf("invalid spec must leave the scheduler unscheduled")
	}
}

func TestStart_ValidSpecSchedules(t *testing.T) {
	s := NewReminderScheduler(&stubProjectRepo{}, &stubNotificationRepo{}, nil, nil, "59 23 * * *")
	s.Start()
	defer s.Stop()

	if s.cron == nil {
		t.Fatalf("expected scheduler to be running")
	}
}

func TestStartOfDayUTC(t *testing.T) {
	in := time.Date(2026, 3, 14, 18, 30, 45, 12, time.FixedZone("UTC+7", 7*3600))
	got := startOfDayUTC(in)
	if got.Hour() != 0 || got.Minute() != 0 || !strings.HasPrefix(got.Format(time.RFC3339), "2026-03-14T00:00:00") {
		t.Fatalf("unexpected day start: %v", got)
	}
}
