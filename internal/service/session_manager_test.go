package service

import (
	"codequest_backend/internal/judge0"
	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

type fakeStore struct {
	mu          sync.Mutex
	attempts    map[[2]uint]*model.ChallengeAttempt
	upsertCalls int
	deleteCalls int
	lastUpsert  *model.ChallengeAttempt

	getErr    error
	upsertErr error

	// upsertGate, when set, blocks Upsert until the channel is closed.
	upsertGate chan struct{}
	// upsertDone receives one value per completed Upsert when set.
	upsertDone chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{attempts: make(map[[2]uint]*model.ChallengeAttempt)}
}

func (f *fakeStore) GetCurrent(ctx context.Context, userID, exerciseID uint) (*model.ChallengeAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.attempts[[2]uint{userID, exerciseID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) Upsert(ctx context.Context, attempt *model.ChallengeAttempt) (*model.ChallengeAttempt, error) {
	if f.upsertGate != nil {
		<-f.upsertGate
	}

	f.mu.Lock()
	f.upsertCalls++
	cp := *attempt
	cp.UpdatedAt = time.Now()
	f.lastUpsert = &cp
	err := f.upsertErr
	if err == nil {
		f.attempts[[2]uint{attempt.UserID, attempt.ExerciseID}] = &cp
	}
	done := f.upsertDone
	f.mu.Unlock()

	if done != nil {
		done <- struct{}{}
	}
	if err != nil {
		return nil, err
	}
	out := cp
	return &out, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, exerciseID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	delete(f.attempts, [2]uint{userID, exerciseID})
	return nil
}

func (f *fakeStore) counts() (upserts, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upsertCalls, f.deleteCalls
}

type fakeExecutor struct {
	result *judge0.ExecutionResult
	err    error
	calls  int
}

func (f *fakeExecutor) Execute(ctx context.Context, sourceCode string, languageID int) (*judge0.ExecutionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSink struct {
	status model.SubmissionStatus
	err    error
	calls  int
	last   *model.Submission
}

func (f *fakeSink) Create(ctx context.Context, userID uint, exercise *model.Exercise, code string, timeSpentMs int64) (*model.Submission, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sub := &model.Submission{
		UserID:      userID,
		ExerciseID:  exercise.ID,
		Code:        code,
		Score:       exercise.BaseXP,
		TimeSpentMs: timeSpentMs,
		Status:      f.status,
	}
	f.last = sub
	return sub, nil
}

func testExercise() *model.Exercise {
	ex := &model.Exercise{
		Title:        "Sum of two numbers",
		CodeTemplate: "// start\n",
		BaseXP:       100,
	}
	ex.ID = 1
	return ex
}

func newTestManager(store AttemptStore) *SessionManager {
	m := NewSessionManager(store)
	// Keep the real ticker out of the way; tests drive Tick directly.
	m.TickInterval = time.Hour
	return m
}

func TestOpenFreshSession(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseAbandoned)

	state := s.State()
	if state.Code != "// start\n" {
		t.Errorf("Code = %q; want the exercise template", state.Code)
	}
	if state.ElapsedSeconds != 0 {
		t.Errorf("ElapsedSeconds = %d; want 0", state.ElapsedSeconds)
	}
	if state.Resumed {
		t.Error("Resumed = true; want false for a fresh session")
	}
	if state.LastSavedAt != nil {
		t.Error("LastSavedAt should be unset for a fresh session")
	}
}

func TestOpenStoreErrorStartsFresh(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() must not fail on a store read error; got %v", err)
	}
	defer s.Close(CloseAbandoned)

	if state := s.State(); state.Code != "// start\n" || state.Resumed {
		t.Errorf("expected a fresh session, got %+v", state)
	}
}

func TestOpenIgnoresCompletedAttempt(t *testing.T) {
	store := newFakeStore()
	store.attempts[[2]uint{7, 1}] = &model.ChallengeAttempt{
		UserID:     7,
		ExerciseID: 1,
		Code:       "old work",
		Status:     model.AttemptCompleted,
	}
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseAbandoned)

	if state := s.State(); state.Resumed || state.Code != "// start\n" {
		t.Errorf("a terminal attempt must not be resumed; got %+v", state)
	}
}

func TestOpenResumesEmptyCodeAsTemplate(t *testing.T) {
	store := newFakeStore()
	store.attempts[[2]uint{7, 1}] = &model.ChallengeAttempt{
		UserID:      7,
		ExerciseID:  1,
		Code:        "",
		TimeSpentMs: 7999,
		Status:      model.AttemptInProgress,
	}
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseAbandoned)

	state := s.State()
	if state.Code != "// start\n" {
		t.Errorf("empty stored code must fall back to the template; got %q", state.Code)
	}
	if state.ElapsedSeconds != 7 {
		t.Errorf("ElapsedSeconds = %d; want floor(7999/1000) = 7", state.ElapsedSeconds)
	}
	if !state.Resumed {
		t.Error("Resumed = false; want true")
	}
}

func TestDuplicateOpenRejected(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseAbandoned)

	if _, err := m.Open(context.Background(), 7, testExercise(), false); !errors.Is(err, util.ErrSessionAlreadyOpen) {
		t.Errorf("second Open() error = %v; want ErrSessionAlreadyOpen", err)
	}
}

func TestResumeRoundTrip(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()

	s, err := m.Open(ctx, 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.UpdateCode("// start\nprint(1)")
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if _, err := s.SaveProgress(ctx); err != nil {
		t.Fatalf("SaveProgress() error = %v", err)
	}
	s.Close(CloseAbandoned)

	s2, err := m.Open(ctx, 7, testExercise(), false)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close(CloseSubmitted)

	state := s2.State()
	if state.Code != "// start\nprint(1)" {
		t.Errorf("resumed Code = %q; want the saved draft", state.Code)
	}
	if state.ElapsedSeconds != 5 {
		t.Errorf("resumed ElapsedSeconds = %d; want 5", state.ElapsedSeconds)
	}
	if state.LastSavedAt == nil {
		t.Error("resumed LastSavedAt should be set")
	}
}

func TestNoProgressSuppressesAutosave(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close(CloseAbandoned)

	// The no-progress path launches no goroutine, but give a buggy
	// implementation a moment to betray itself.
	time.Sleep(20 * time.Millisecond)
	if upserts, _ := store.counts(); upserts != 0 {
		t.Errorf("upsert calls = %d; want 0 for a session with no progress", upserts)
	}
}

func TestAbandonedWithProgressFiresAutosave(t *testing.T) {
	store := newFakeStore()
	store.upsertDone = make(chan struct{}, 1)
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.UpdateCode("// start\nwork in progress")
	s.Tick()
	s.Close(CloseAbandoned)

	select {
	case <-store.upsertDone:
	case <-time.After(2 * time.Second):
		t.Fatal("teardown autosave never reached the store")
	}

	store.mu.Lock()
	last := store.lastUpsert
	store.mu.Unlock()
	if last.Code != "// start\nwork in progress" {
		t.Errorf("autosaved Code = %q; want the latest buffer", last.Code)
	}
	if last.TimeSpentMs != 1000 {
		t.Errorf("autosaved TimeSpentMs = %d; want 1000", last.TimeSpentMs)
	}
}

func TestAutosaveReadsLatestStateNotSnapshot(t *testing.T) {
	store := newFakeStore()
	store.upsertDone = make(chan struct{}, 1)
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.UpdateCode("first draft")
	s.UpdateCode("second draft")
	s.UpdateCode("final draft")
	s.Close(CloseAbandoned)

	select {
	case <-store.upsertDone:
	case <-time.After(2 * time.Second):
		t.Fatal("teardown autosave never reached the store")
	}

	store.mu.Lock()
	last := store.lastUpsert
	store.mu.Unlock()
	if last.Code != "final draft" {
		t.Errorf("autosaved Code = %q; want %q", last.Code, "final draft")
	}
}

func TestSingleFlightSave(t *testing.T) {
	store := newFakeStore()
	store.upsertGate = make(chan struct{})
	store.upsertDone = make(chan struct{}, 1)
	m := newTestManager(store)
	ctx := context.Background()

	s, err := m.Open(ctx, 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseSubmitted)
	s.Tick()

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.SaveProgress(ctx)
		firstDone <- err
	}()

	// Wait for the first save to claim the in-flight slot.
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		saving := s.saving
		s.mu.Unlock()
		if saving {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first save never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.SaveProgress(ctx); !errors.Is(err, util.ErrSaveInFlight) {
		t.Errorf("overlapping SaveProgress() error = %v; want ErrSaveInFlight", err)
	}

	close(store.upsertGate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first SaveProgress() error = %v", err)
	}
	<-store.upsertDone

	if upserts, _ := store.counts(); upserts != 1 {
		t.Errorf("upsert calls = %d; want exactly 1", upserts)
	}
}

func TestSaveOnCompletedChallenge(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseSubmitted)

	if _, err := s.SaveProgress(context.Background()); !errors.Is(err, util.ErrChallengeCompleted) {
		t.Errorf("SaveProgress() error = %v; want ErrChallengeCompleted", err)
	}
	if upserts, _ := store.counts(); upserts != 0 {
		t.Errorf("upsert calls = %d; want 0", upserts)
	}
}

func TestSaveErrorSurfacesAndReleasesFlight(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("timeout")
	m := newTestManager(store)
	ctx := context.Background()

	s, err := m.Open(ctx, 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseSubmitted)
	s.Tick()

	if _, err := s.SaveProgress(ctx); err == nil {
		t.Fatal("SaveProgress() should surface the store error")
	}

	// The failed save must release the single-flight slot.
	store.upsertErr = nil
	if _, err := s.SaveProgress(ctx); err != nil {
		t.Errorf("retry SaveProgress() error = %v; want nil", err)
	}
}

func TestSubmitExecutionFailure(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()
	ex := testExercise()

	s, err := m.Open(ctx, 7, ex, false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseAbandoned)
	s.UpdateCode("broken code")

	exec := &fakeExecutor{result: &judge0.ExecutionResult{Success: false, Output: "compile error: line 1"}}
	sink := &fakeSink{status: model.SubmissionAccepted}

	outcome, err := s.Submit(ctx, ex, exec, sink)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !outcome.ExecutionFailed {
		t.Error("outcome.ExecutionFailed = false; want true")
	}
	if outcome.Output != "compile error: line 1" {
		t.Errorf("outcome.Output = %q; want the sandbox message verbatim", outcome.Output)
	}
	if sink.calls != 0 {
		t.Errorf("sink calls = %d; a failed execution must not create a submission", sink.calls)
	}

	// The session survives a failed execution.
	if _, err := s.SaveProgress(ctx); err != nil {
		t.Errorf("SaveProgress() after failed execute error = %v", err)
	}
}

func TestSubmitSinkErrorSurfaces(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()
	ex := testExercise()

	s, err := m.Open(ctx, 7, ex, false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(CloseAbandoned)

	exec := &fakeExecutor{result: &judge0.ExecutionResult{Success: true, Output: "1"}}
	sink := &fakeSink{err: errors.New("db unavailable")}

	if _, err := s.Submit(ctx, ex, exec, sink); err == nil {
		t.Fatal("Submit() should surface the sink error")
	}
	if _, deletes := store.counts(); deletes != 0 {
		t.Errorf("delete calls = %d; want 0 after a failed submission create", deletes)
	}
}

func TestSkipAutosaveAfterAcceptedSubmission(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()
	ex := testExercise()

	s, err := m.Open(ctx, 7, ex, false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.UpdateCode("// start\nprint(1)")
	s.Tick()

	exec := &fakeExecutor{result: &judge0.ExecutionResult{Success: true, Output: "1"}}
	sink := &fakeSink{status: model.SubmissionAccepted}

	outcome, err := s.Submit(ctx, ex, exec, sink)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if outcome.Submission == nil || outcome.Submission.Status != model.SubmissionAccepted {
		t.Fatalf("outcome = %+v; want an accepted submission", outcome)
	}

	if _, deletes := store.counts(); deletes != 1 {
		t.Errorf("delete calls = %d; want 1 after acceptance", deletes)
	}

	// A late unmount event after acceptance must not save anything.
	s.Close(CloseAbandoned)
	time.Sleep(20 * time.Millisecond)
	if upserts, _ := store.counts(); upserts != 0 {
		t.Errorf("upsert calls = %d; want 0 after an accepted submission", upserts)
	}
}

func TestEndToEndScenario(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()
	ex := testExercise()

	s, err := m.Open(ctx, 7, ex, false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if state := s.State(); state.Code != "// start\n" || state.ElapsedSeconds != 0 {
		t.Fatalf("fresh state = %+v", state)
	}

	s.UpdateCode("// start\nprint(1)")
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	if _, err := s.SaveProgress(ctx); err != nil {
		t.Fatalf("SaveProgress() error = %v", err)
	}
	store.mu.Lock()
	saved := store.lastUpsert
	store.mu.Unlock()
	if saved.Code != "// start\nprint(1)" || saved.TimeSpentMs != 5000 || saved.Status != model.AttemptInProgress {
		t.Errorf("saved attempt = {code: %q, ms: %d, status: %s}; want {%q, 5000, IN_PROGRESS}",
			saved.Code, saved.TimeSpentMs, saved.Status, "// start\nprint(1)")
	}

	exec := &fakeExecutor{result: &judge0.ExecutionResult{Success: true, Output: "1"}}
	sink := &fakeSink{status: model.SubmissionAccepted}
	outcome, err := s.Submit(ctx, ex, exec, sink)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if outcome.Submission.TimeSpentMs != 5000 {
		t.Errorf("submission TimeSpentMs = %d; want 5000", outcome.Submission.TimeSpentMs)
	}

	if _, deletes := store.counts(); deletes != 1 {
		t.Errorf("delete calls = %d; want 1", deletes)
	}

	// Teardown after acceptance stays silent.
	s.Close(CloseAbandoned)
	time.Sleep(20 * time.Millisecond)
	if upserts, _ := store.counts(); upserts != 1 {
		t.Errorf("upsert calls = %d; want only the explicit save", upserts)
	}
}

func TestTickAfterCloseDoesNotApply(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close(CloseAbandoned)
	s.Tick()

	if state := s.State(); state.ElapsedSeconds != 0 {
		t.Errorf("ElapsedSeconds = %d; a tick after close must not apply", state.ElapsedSeconds)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	s, err := m.Open(context.Background(), 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close(CloseAbandoned)
	s.Close(CloseAbandoned)
	s.Close(CloseSubmitted)

	if _, err := m.Get(7, 1); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("Get() after close error = %v; want ErrSessionNotFound", err)
	}
}

func TestReopenAfterCloseAllowed(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()

	s, err := m.Open(ctx, 7, testExercise(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close(CloseAbandoned)

	s2, err := m.Open(ctx, 7, testExercise(), false)
	if err != nil {
		t.Fatalf("reopen after close error = %v", err)
	}
	s2.Close(CloseAbandoned)
}
