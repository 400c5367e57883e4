package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/estevaoantuness/notion-pangeia-sub000/internal/clock"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/userlock"
)

// Messenger is the delivery collaborator. Sending is fire-and-forget from the
// scheduler's point of view: failures are logged, never retried here.
type Messenger interface {
	Send(ctx context.Context, userID, text string) (messageID string, err error)
}

// PromptSource supplies the current prompt and reminder wording for a
// check-in type.
type PromptSource interface {
	Prompt(kind Type) string
	Reminder(kind Type) string
}

// Config is the scheduling policy. Base times are clamped into the quiet
// window after jitter is applied.
type Config struct {
	// Weekdays lists which check-in types run on each weekday.
	Weekdays map[time.Weekday][]Type
	// BaseTimes holds the nominal "HH:MM" fire time per type.
	BaseTimes map[Type]string
	// RebuildTime is the daily "HH:MM" timetable rebuild moment.
	RebuildTime string
	// Jitter bounds the random offset added to each base time (±Jitter).
	Jitter time.Duration
	// QuietFloorHour and QuietCeilingHour delimit the allowed send window.
	QuietFloorHour   int
	QuietCeilingHour int
	// Window is how long a reply is attributed to the prompt.
	Window time.Duration
	// FollowUpOffset is when the one-shot reminder fires after the prompt.
	FollowUpOffset time.Duration
	Location       *time.Location
}

func DefaultConfig() Config {
	return Config{
		Weekdays: map[time.Weekday][]Type{
			time.Monday:    {TypeMorning, TypeMidday, TypeEvening},
			time.Tuesday:   {TypeMorning, TypeMidday, TypeEvening},
			time.Wednesday: {TypeMorning, TypeMidday, TypeEvening},
			time.Thursday:  {TypeMorning, TypeMidday, TypeEvening},
			time.Friday:    {TypeMorning, TypeMidday, TypeEvening},
			time.Saturday:  {TypeMorning},
			time.Sunday:    {TypeEvening},
		},
		BaseTimes: map[Type]string{
			TypeMorning: "08:30",
			TypeMidday:  "12:30",
			TypeEvening: "18:30",
		},
		RebuildTime:      "00:05",
		Jitter:           10 * time.Minute,
		QuietFloorHour:   8,
		QuietCeilingHour: 21,
		Window:           2 * time.Hour,
		FollowUpOffset:   15 * time.Minute,
		Location:         time.Local,
	}
}

func (c Config) validate() error {
	if len(c.Weekdays) == 0 {
		return fmt.Errorf("weekday table is empty")
	}
	if c.Window <= 0 {
		return fmt.Errorf("response window must be positive")
	}
	if c.QuietFloorHour < 0 || c.QuietCeilingHour > 24 || c.QuietFloorHour >= c.QuietCeilingHour {
		return fmt.Errorf("quiet hours window is invalid")
	}
	for kind, hhmm := range c.BaseTimes {
		if _, _, err := parseHHMM(hhmm); err != nil {
			return fmt.Errorf("base time for %s: %w", kind, err)
		}
	}
	if _, _, err := parseHHMM(c.RebuildTime); err != nil {
		return fmt.Errorf("rebuild time: %w", err)
	}
	return nil
}

// Scheduler computes each day's jittered, quiet-hours-clamped timetable and
// arms one one-shot timer per (user, type, day). Armed timers are never
// cancelled; a stale timer finds its instance id superseded and does nothing.
type Scheduler struct {
	cfg     Config
	clock   clock.Clock
	rng     *rand.Rand
	send    Messenger
	prompts PromptSource
	tracker *Tracker
	locks   *userlock.Keyed
	log     *slog.Logger

	mu         sync.Mutex
	recipients []string
	jobs       map[string]armedJob // key: user|type|date
}

type armedJob struct {
	instance string
	job      Job
}

type SchedulerOption func(*Scheduler)

func WithSchedulerClock(c clock.Clock) SchedulerOption {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSchedulerSeed pins the jitter source. Tests use it.
func WithSchedulerSeed(seed int64) SchedulerOption {
	return func(s *Scheduler) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithUserLocks shares the engine's per-user locks so timer effects and
// message handling for one user never interleave.
func WithUserLocks(k *userlock.Keyed) SchedulerOption {
	return func(s *Scheduler) {
		if k != nil {
			s.locks = k
		}
	}
}

func NewScheduler(cfg Config, send Messenger, prompts PromptSource, tracker *Tracker, opts ...SchedulerOption) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("checkin scheduler config: %w", err)
	}
	if send == nil {
		return nil, fmt.Errorf("messenger is required")
	}
	if prompts == nil {
		return nil, fmt.Errorf("prompt source is required")
	}
	if tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := &Scheduler{
		cfg:     cfg,
		clock:   clock.System(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		send:    send,
		prompts: prompts,
		tracker: tracker,
		locks:   userlock.New(),
		log:     slog.Default(),
		jobs:    make(map[string]armedJob),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetRecipients replaces the active recipient set used by the next rebuild.
func (s *Scheduler) SetRecipients(userIDs []string) {
	s.mu.Lock()
	s.recipients = append([]string(nil), userIDs...)
	s.mu.Unlock()
}

// Start rebuilds today's timetable and arms the daily rebuild cycle.
func (s *Scheduler) Start(ctx context.Context) {
	s.Rebuild(ctx, s.clock.Now().In(s.cfg.Location))
	s.armRebuild(ctx)
}

func (s *Scheduler) armRebuild(ctx context.Context) {
	now := s.clock.Now().In(s.cfg.Location)
	h, m, _ := parseHHMM(s.cfg.RebuildTime)
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, s.cfg.Location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	s.clock.AfterFunc(next.Sub(now), func() {
		s.Rebuild(ctx, s.clock.Now().In(s.cfg.Location))
		s.armRebuild(ctx)
	})
}

// Rebuild computes the timetable for day and arms one job per (user, type).
// Rebuilding the same day replaces jobs instead of duplicating them: the job
// key stays stable while the instance id rotates, so timers armed by the
// previous build become no-ops.
func (s *Scheduler) Rebuild(ctx context.Context, day time.Time) {
	now := s.clock.Now()
	entries := s.Timetable(day)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range entries {
		if !job.FireAt.After(now) {
			continue // already past; do not fire stale prompts on rebuild
		}
		key := jobKey(job.UserID, job.Kind, day)
		instance := uuid.NewString()
		s.jobs[key] = armedJob{instance: instance, job: job}
		fireAt := job.FireAt
		s.clock.AfterFunc(fireAt.Sub(now), func() {
			s.firePrompt(ctx, key, instance)
		})
		s.log.Debug("checkin armed", "user", job.UserID, "type", job.Kind, "fire_at", fireAt)
	}
}

// Timetable computes the concrete fire times for day without arming anything.
// The schedule command uses it for previewing.
func (s *Scheduler) Timetable(day time.Time) []Job {
	s.mu.Lock()
	recipients := append([]string(nil), s.recipients...)
	s.mu.Unlock()

	day = day.In(s.cfg.Location)
	kinds := s.cfg.Weekdays[day.Weekday()]
	out := make([]Job, 0, len(recipients)*len(kinds))
	for _, user := range recipients {
		for _, kind := range kinds {
			base, ok := s.cfg.BaseTimes[kind]
			if !ok {
				continue
			}
			h, m, _ := parseHHMM(base)
			fireAt := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, s.cfg.Location)
			fireAt = fireAt.Add(s.jitter())
			fireAt = s.clamp(fireAt, day)
			out = append(out, Job{
				ID:     fmt.Sprintf("%s|%s|%s", user, kind, day.Format("2006-01-02")),
				Type:   JobPrompt,
				FireAt: fireAt,
				UserID: user,
				Kind:   kind,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// jitter draws a bounded offset in [-Jitter, +Jitter].
func (s *Scheduler) jitter() time.Duration {
	if s.cfg.Jitter <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	span := int64(2 * s.cfg.Jitter)
	return time.Duration(s.rng.Int63n(span)) - s.cfg.Jitter
}

// clamp forces a fire time into the allowed quiet-hours window of its day.
func (s *Scheduler) clamp(t, day time.Time) time.Time {
	floor := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.QuietFloorHour, 0, 0, 0, s.cfg.Location)
	ceiling := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.QuietCeilingHour, 0, 0, 0, s.cfg.Location)
	if t.Before(floor) {
		return floor
	}
	if t.After(ceiling) {
		return ceiling
	}
	return t
}

// firePrompt sends the prompt, registers the pending check-in, and arms the
// follow-up. A superseded instance is a silent no-op.
func (s *Scheduler) firePrompt(ctx context.Context, key, instance string) {
	s.mu.Lock()
	armed, ok := s.jobs[key]
	if !ok || armed.instance != instance {
		s.mu.Unlock()
		return
	}
	delete(s.jobs, key)
	job := armed.job
	s.mu.Unlock()

	unlock := s.locks.Lock(job.UserID)
	defer unlock()

	prompt := s.prompts.Prompt(job.Kind)
	if _, err := s.send.Send(ctx, job.UserID, prompt); err != nil {
		s.log.Error("checkin send failed", "user", job.UserID, "type", job.Kind, "error", err)
		return
	}
	id, err := s.tracker.Record(job.UserID, job.Kind, prompt, s.cfg.Window)
	if err != nil {
		s.log.Error("checkin record failed", "user", job.UserID, "error", err)
		return
	}
	s.clock.AfterFunc(s.cfg.FollowUpOffset, func() {
		s.fireFollowUp(ctx, job.UserID, job.Kind, id)
	})
	s.log.Info("checkin sent", "user", job.UserID, "type", job.Kind, "id", id)
}

// fireFollowUp reminds the user only if the very same pending check-in is
// still live. Answered, superseded, or expired entries make it a no-op.
func (s *Scheduler) fireFollowUp(ctx context.Context, userID string, kind Type, id string) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	p, ok := s.tracker.Lookup(userID)
	if !ok || p.ID != id {
		return
	}
	if _, err := s.send.Send(ctx, userID, s.prompts.Reminder(kind)); err != nil {
		s.log.Error("checkin reminder send failed", "user", userID, "error", err)
	}
}

func jobKey(user string, kind Type, day time.Time) string {
	return fmt.Sprintf("%s|%s|%s", user, kind, day.Format("2006-01-02"))
}

func parseHHMM(v string) (int, int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("invalid HH:MM value %q", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid HH:MM value %q", v)
	}
	return h, m, nil
}
