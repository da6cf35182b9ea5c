package service

import (
	"codequest_backend/internal/judge0"
	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptStore persists in-progress challenge drafts keyed by
// (user, exercise). Production wiring is repository.AttemptRepository.
type AttemptStore interface {
	GetCurrent(ctx context.Context, userID, exerciseID uint) (*model.ChallengeAttempt, error)
	Upsert(ctx context.Context, attempt *model.ChallengeAttempt) (*model.ChallengeAttempt, error)
	Delete(ctx context.Context, userID, exerciseID uint) error
}

// Executor runs submitted code in the external sandbox.
type Executor interface {
	Execute(ctx context.Context, sourceCode string, languageID int) (*judge0.ExecutionResult, error)
}

// SubmissionSink records a graded submission once execution succeeded.
type SubmissionSink interface {
	Create(ctx context.Context, userID uint, exercise *model.Exercise, code string, timeSpentMs int64) (*model.Submission, error)
}

type CloseReason string

const (
	CloseSubmitted CloseReason = "submitted"
	CloseAbandoned CloseReason = "abandoned"
)

const backgroundOpTimeout = 10 * time.Second

type sessionKey struct {
	userID     uint
	exerciseID uint
}

// SessionManager owns every open challenge-solving session. It guarantees
// at most one open session per (user, exercise) pair and that a session's
// ticker never outlives it.
type SessionManager struct {
	store AttemptStore

	mu       sync.Mutex
	sessions map[sessionKey]*Session

	// TickInterval is the elapsed-time resolution. Production uses the
	// 1-second default; tests raise it and drive Tick directly.
	TickInterval time.Duration
}

func NewSessionManager(store AttemptStore) *SessionManager {
	return &SessionManager{
		store:        store,
		sessions:     make(map[sessionKey]*Session),
		TickInterval: time.Second,
	}
}

// Session is the in-memory state of one user working on one challenge.
// Its fields are the single source of truth for teardown saves; there is
// no shadow snapshot to go stale.
type Session struct {
	manager *SessionManager

	userID     uint
	exerciseID uint
	languageID int

	mu              sync.Mutex
	code            string
	elapsedSeconds  int
	defaultTemplate string
	lastSavedAt     *time.Time
	lastActivity    time.Time
	resumed         bool
	completed       bool
	skipAutosave    bool
	saving          bool
	closed          bool
	attemptDeleted  bool

	ticker *time.Ticker
	done   chan struct{}
}

// SessionState is a snapshot handed to the transport layer.
type SessionState struct {
	ExerciseID     uint       `json:"exerciseId"`
	Code           string     `json:"code"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	LastSavedAt    *time.Time `json:"lastSavedAt,omitempty"`
	Resumed        bool       `json:"resumed"`
}

// Open starts a session for (user, exercise). The default template is
// resolved synchronously; the persisted attempt lookup may fail without
// blocking a fresh start. completed marks a challenge the user has already
// solved, which turns saves and submits into "already completed" no-ops.
func (m *SessionManager) Open(ctx context.Context, userID uint, exercise *model.Exercise, completed bool) (*Session, error) {
	lang := judge0.ExerciseLanguage{CodeTemplate: exercise.CodeTemplate}
	if exercise.Language != nil {
		lang.Slug = exercise.Language.Slug
		lang.Name = exercise.Language.Name
	}
	template := judge0.DefaultTemplateForExercise(lang)

	s := &Session{
		manager:         m,
		userID:          userID,
		exerciseID:      exercise.ID,
		languageID:      judge0.LanguageIDForExercise(lang),
		code:            template,
		defaultTemplate: template,
		completed:       completed,
		lastActivity:    time.Now(),
		done:            make(chan struct{}),
	}

	attempt, err := m.store.GetCurrent(ctx, userID, exercise.ID)
	if err != nil {
		// A failed lookup must never block starting fresh.
		if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, util.ErrAttemptNotFound) {
			logger.Log.Error("failed to load saved attempt",
				zap.Uint("userId", userID),
				zap.Uint("exerciseId", exercise.ID),
				zap.Error(err))
		}
		attempt = nil
	}
	if attempt != nil && attempt.Status == model.AttemptInProgress {
		if attempt.Code != "" {
			s.code = attempt.Code
		}
		s.elapsedSeconds = int(attempt.TimeSpentMs / 1000)
		savedAt := attempt.UpdatedAt
		s.lastSavedAt = &savedAt
		s.resumed = true
	}

	key := sessionKey{userID: userID, exerciseID: exercise.ID}
	m.mu.Lock()
	if _, exists := m.sessions[key]; exists {
		m.mu.Unlock()
		return nil, util.ErrSessionAlreadyOpen
	}
	m.sessions[key] = s
	m.mu.Unlock()
	monitoring.OpenSessions.Inc()

	s.ticker = time.NewTicker(m.TickInterval)
	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				s.Tick()
			}
		}
	}()

	return s, nil
}

// Get returns the open session for (user, exercise), if any.
func (m *SessionManager) Get(userID, exerciseID uint) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{userID: userID, exerciseID: exerciseID}]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionManager) remove(s *Session) {
	key := sessionKey{userID: s.userID, exerciseID: s.exerciseID}
	m.mu.Lock()
	if m.sessions[key] == s {
		delete(m.sessions, key)
		monitoring.OpenSessions.Dec()
	}
	m.mu.Unlock()
}

// StartReaper closes sessions idle longer than maxIdle as abandoned, so a
// client that vanished without closing still gets its draft saved.
func (m *SessionManager) StartReaper(maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			m.mu.Lock()
			stale := make([]*Session, 0)
			for _, s := range m.sessions {
				s.mu.Lock()
				idle := time.Since(s.lastActivity)
				s.mu.Unlock()
				if idle > maxIdle {
					stale = append(stale, s)
				}
			}
			m.mu.Unlock()

			for _, s := range stale {
				logger.Log.Info("closing idle challenge session",
					zap.Uint("userId", s.userID),
					zap.Uint("exerciseId", s.exerciseID))
				s.Close(CloseAbandoned)
			}
		}
	}()
}

// Tick advances elapsed time by one second. Ticks arriving after close do
// not apply.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.elapsedSeconds++
}

// UpdateCode replaces the working buffer. Any string is accepted.
func (s *Session) UpdateCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.code = code
	s.lastActivity = time.Now()
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var saved *time.Time
	if s.lastSavedAt != nil {
		t := *s.lastSavedAt
		saved = &t
	}
	return SessionState{
		ExerciseID:     s.exerciseID,
		Code:           s.code,
		ElapsedSeconds: s.elapsedSeconds,
		LastSavedAt:    saved,
		Resumed:        s.resumed,
	}
}

// SaveProgress upserts the current draft. Only one save may be in flight
// per session; an overlapping request is dropped with ErrSaveInFlight, not
// queued. Saving an already-completed challenge is refused with
// ErrChallengeCompleted.
func (s *Session) SaveProgress(ctx context.Context) (*model.ChallengeAttempt, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, util.ErrSessionClosed
	}
	if s.completed {
		s.mu.Unlock()
		return nil, util.ErrChallengeCompleted
	}
	if s.saving {
		s.mu.Unlock()
		return nil, util.ErrSaveInFlight
	}
	s.saving = true
	s.lastActivity = time.Now()
	code := s.code
	elapsed := s.elapsedSeconds
	s.mu.Unlock()

	saved, err := s.manager.store.Upsert(ctx, &model.ChallengeAttempt{
		UserID:      s.userID,
		ExerciseID:  s.exerciseID,
		Code:        code,
		TimeSpentMs: int64(elapsed) * 1000,
		Status:      model.AttemptInProgress,
	})

	s.mu.Lock()
	s.saving = false
	if err == nil {
		savedAt := time.Now()
		if saved != nil {
			savedAt = saved.UpdatedAt
		}
		s.lastSavedAt = &savedAt
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return saved, nil
}

// SubmissionOutcome is the result of a submit: either the sandbox rejected
// the code (ExecutionFailed, Output carries the message verbatim) or a
// submission record was created.
type SubmissionOutcome struct {
	ExecutionFailed bool              `json:"executionFailed"`
	Output          string            `json:"output"`
	Submission      *model.Submission `json:"submission,omitempty"`
}

// Submit runs the code in the sandbox and, on success, records a graded
// submission. An accepted submission deletes the draft attempt and closes
// the session with autosave suppressed. Nothing is retried; failures
// surface verbatim for the caller to react to.
func (s *Session) Submit(ctx context.Context, exercise *model.Exercise, exec Executor, sink SubmissionSink) (*SubmissionOutcome, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, util.ErrSessionClosed
	}
	if s.completed {
		s.mu.Unlock()
		return nil, util.ErrChallengeCompleted
	}
	s.lastActivity = time.Now()
	code := s.code
	elapsed := s.elapsedSeconds
	s.mu.Unlock()

	result, err := exec.Execute(ctx, code, s.languageID)
	if err != nil {
		monitoring.ExecutionCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	if !result.Success {
		monitoring.ExecutionCounter.WithLabelValues("failed").Inc()
		return &SubmissionOutcome{ExecutionFailed: true, Output: result.Output}, nil
	}
	monitoring.ExecutionCounter.WithLabelValues("success").Inc()

	submission, err := sink.Create(ctx, s.userID, exercise, code, int64(elapsed)*1000)
	if err != nil {
		return nil, err
	}

	if submission.Status == model.SubmissionAccepted {
		s.mu.Lock()
		s.skipAutosave = true
		s.completed = true
		s.attemptDeleted = true
		s.mu.Unlock()

		// The draft is advisory once the submission is accepted; a failed
		// delete is logged and swallowed.
		if err := s.manager.store.Delete(ctx, s.userID, s.exerciseID); err != nil {
			logger.Log.Warn("failed to delete attempt after accepted submission",
				zap.Uint("userId", s.userID),
				zap.Uint("exerciseId", s.exerciseID),
				zap.Error(err))
		}

		s.Close(CloseSubmitted)
	}

	return &SubmissionOutcome{Output: result.Output, Submission: submission}, nil
}

// Close tears the session down. It is idempotent and never blocks on I/O:
// the abandoned-with-progress save and the submitted-path delete are
// fire-and-forget.
func (s *Session) Close(reason CloseReason) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	if reason == CloseSubmitted {
		s.skipAutosave = true
	}
	skip := s.skipAutosave
	deleted := s.attemptDeleted
	code := s.code
	elapsed := s.elapsedSeconds
	template := s.defaultTemplate
	s.mu.Unlock()

	s.manager.remove(s)

	if reason == CloseSubmitted {
		if !deleted {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
				defer cancel()
				if err := s.manager.store.Delete(ctx, s.userID, s.exerciseID); err != nil {
					logger.Log.Warn("failed to delete attempt on close",
						zap.Uint("userId", s.userID),
						zap.Uint("exerciseId", s.exerciseID),
						zap.Error(err))
				}
			}()
		}
		return
	}

	if skip {
		return
	}

	hasProgress := strings.TrimSpace(code) != strings.TrimSpace(template) || elapsed > 0
	if !hasProgress {
		return
	}

	// Fire-and-forget: teardown must not block on the network, and a lost
	// autosave is preferable to a stuck caller.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
		defer cancel()
		_, err := s.manager.store.Upsert(ctx, &model.ChallengeAttempt{
			UserID:      s.userID,
			ExerciseID:  s.exerciseID,
			Code:        code,
			TimeSpentMs: int64(elapsed) * 1000,
			Status:      model.AttemptInProgress,
		})
		if err != nil {
			monitoring.AutosaveCounter.WithLabelValues("error").Inc()
			logger.Log.Warn("teardown autosave failed",
				zap.Uint("userId", s.userID),
				zap.Uint("exerciseId", s.exerciseID),
				zap.Error(err))
			return
		}
		monitoring.AutosaveCounter.WithLabelValues("success").Inc()
	}()
}
