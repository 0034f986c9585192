package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/amine/notehub/internal/notify"
	"github.com/amine/notehub/internal/service"
	"golang.org/x/sync/semaphore"
)

// Sweeper polls for due reminders on a fixed interval. Each fired reminder
// is logged, pushed to the owner's notification channel, and cleared so it
// cannot refire.
type Sweeper struct {
	notes    *service.NoteService
	users    *service.UserService
	hub      *notify.Hub
	interval time.Duration
	window   time.Duration
	log      *slog.Logger

	// Single-flight guard: a tick that finds the previous sweep still
	// running is skipped instead of running concurrently with it.
	running *semaphore.Weighted
}

func NewSweeper(notes *service.NoteService, users *service.UserService, hub *notify.Hub, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{
		notes:    notes,
		users:    users,
		hub:      hub,
		interval: interval,
		window:   interval,
		log:      log,
		running:  semaphore.NewWeighted(1),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("reminder sweeper started", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			if !s.running.TryAcquire(1) {
				s.log.Warn("previous reminder sweep still running, skipping tick")
				continue
			}
			s.SweepOnce(ctx, time.Now())
			s.running.Release(1)

		case <-ctx.Done():
			s.log.Info("reminder sweeper stopped")
			return
		}
	}
}

// SweepOnce fires every reminder that fell due in the window ending at now.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) {
	from := now.Add(-s.window)

	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		s.log.Error("reminder sweep: failed to list users", "error", err)
		return
	}

	for _, user := range users {
		due, err := s.notes.FindDueReminders(ctx, user.ID, from, now)
		if err != nil {
			s.log.Error("reminder sweep: query failed", "userId", user.ID, "error", err)
			continue
		}

		for _, note := range due {
			s.log.Info("reminder due",
				"userId", user.ID,
				"noteId", note.ID,
				"note", note.Name,
			)

			s.hub.Publish(user.ID, notify.Event{
				Type:       notify.EventReminderDue,
				NoteID:     note.ID,
				NoteName:   note.Name,
				ReminderAt: note.ReminderAt,
				FiredAt:    now,
			})

			if err := s.notes.ClearReminder(ctx, note.ID); err != nil {
				s.log.Error("reminder sweep: failed to clear reminder", "noteId", note.ID, "error", err)
			}
		}
	}
}
