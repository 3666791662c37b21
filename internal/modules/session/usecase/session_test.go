package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	historydto "pajama/internal/modules/history/dto"
	replicadto "pajama/internal/modules/replica/dto"
	replicain "pajama/internal/modules/replica/port/in"
	sessionout "pajama/internal/modules/session/adapter/out"
	sessiondto "pajama/internal/modules/session/dto"
	sessionin "pajama/internal/modules/session/port/in"
	"pajama/internal/modules/session/service"
	"pajama/internal/modules/session/usecase"
	timelinedto "pajama/internal/modules/timeline/dto"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{}

func (fakeID) New() string { return "sess-1" }

type fakeTimeline struct{}

func (fakeTimeline) Build(_ context.Context, workoutID string) (timelinedto.TimelineOutput, error) {
	if workoutID == "missing" {
		return timelinedto.TimelineOutput{}, apperrors.ErrNotFound
	}
	if workoutID == "" {
		workoutID = "pajama-classic"
	}
	return timelinedto.TimelineOutput{
		WorkoutID:  workoutID,
		Title:      "Pajama Classic",
		Multiplier: 1.5,
		Phases: []timelinedto.PhaseOutput{
			{Name: "Cat-Cow", Type: "work", Duration: 45},
			{Name: "Rest", Type: "rest", Duration: 15},
			{Name: "Child's Pose", Type: "work", Duration: 60},
		},
	}, nil
}

type fakeHistory struct {
	recorded []historydto.RecordInput
	fail     error
}

func (f *fakeHistory) Record(_ context.Context, input historydto.RecordInput) (historydto.EntryOutput, error) {
	if f.fail != nil {
		return historydto.EntryOutput{}, f.fail
	}
	f.recorded = append(f.recorded, input)
	return historydto.EntryOutput{
		WorkoutID:       input.WorkoutID,
		Title:           input.Title,
		CompletedAt:     "2026-02-25T10:05:00.000Z",
		DurationSecs:    input.DurationSecs,
		PhasesCompleted: input.PhasesCompleted,
		PhasesTotal:     input.PhasesTotal,
		Multiplier:      input.Multiplier,
	}, nil
}
func (f *fakeHistory) List(context.Context) ([]historydto.EntryOutput, error) { return nil, nil }
func (f *fakeHistory) Stats(context.Context) (historydto.StatsOutput, error) {
	return historydto.StatsOutput{}, nil
}
func (f *fakeHistory) Clear(context.Context) error { return nil }

type fakeReplica struct {
	result replicadto.SyncOutput
	calls  int
}

func (f *fakeReplica) Sync(context.Context) replicadto.SyncOutput {
	f.calls++
	return f.result
}
func (f *fakeReplica) Status(context.Context) (replicadto.StatusOutput, error) {
	return replicadto.StatusOutput{}, nil
}
func (f *fakeReplica) SignIn(context.Context, string) (replicadto.SignInOutput, error) {
	return replicadto.SignInOutput{}, nil
}
func (f *fakeReplica) SignOut(context.Context) error { return nil }

func newInteractor(t *testing.T, clk clock.Clock, history *fakeHistory, replica replicain.Usecase) sessionin.Usecase {
	t.Helper()
	store := sessionout.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "active-session.json"))
	return usecase.NewInteractor(service.NewSessionService(clk, fakeID{}), fakeTimeline{}, history, replica, store, nil)
}

func TestSessionLifecycleRecordsHistoryAndSyncs(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 10, 5, 0, 0, time.UTC),
	}}
	history := &fakeHistory{}
	replica := &fakeReplica{result: replicadto.SyncOutput{OK: true, Entries: 1}}
	uc := newInteractor(t, clk, history, replica)

	start, err := uc.Start(context.Background(), sessiondto.StartInput{})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if start.WorkoutID != "pajama-classic" || start.TotalSeconds != 120 || len(start.Steps) != 3 {
		t.Fatalf("unexpected start output: %+v", start)
	}

	active, err := uc.GetActive(context.Background())
	if err != nil {
		t.Fatalf("get active session: %v", err)
	}
	if active.SessionID != start.SessionID {
		t.Fatalf("expected same active session id, got %s vs %s", active.SessionID, start.SessionID)
	}

	done, err := uc.Complete(context.Background(), sessiondto.CompleteInput{PhasesCompleted: -1})
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if done.DurationSecs != 300 {
		t.Fatalf("expected wall-clock duration 300, got %d", done.DurationSecs)
	}
	if done.PhasesCompleted != 3 || done.PhasesTotal != 3 {
		t.Fatalf("expected 3/3 phases, got %d/%d", done.PhasesCompleted, done.PhasesTotal)
	}
	if !done.Synced || replica.calls != 1 {
		t.Fatalf("expected one successful sync, got synced=%v calls=%d", done.Synced, replica.calls)
	}
	if len(history.recorded) != 1 || history.recorded[0].Multiplier != 1.5 {
		t.Fatalf("unexpected history records: %+v", history.recorded)
	}
	if _, err := uc.GetActive(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session after complete, got %v", err)
	}
}

func TestCompleteReportsFailedSyncWithoutFailing(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}}
	replica := &fakeReplica{result: replicadto.SyncOutput{Reason: "not_signed_in"}}
	uc := newInteractor(t, clk, &fakeHistory{}, replica)

	if _, err := uc.Start(context.Background(), sessiondto.StartInput{WorkoutID: "desk-break"}); err != nil {
		t.Fatalf("start session: %v", err)
	}
	done, err := uc.Complete(context.Background(), sessiondto.CompleteInput{SessionID: "sess-1", DurationSecs: 50, PhasesCompleted: 9})
	if err != nil {
		t.Fatalf("complete must not fail on sync: %v", err)
	}
	if done.Synced || done.SyncReason != "not_signed_in" {
		t.Fatalf("expected sync reason to be reported, got %+v", done)
	}
	if done.PhasesCompleted != 3 || done.DurationSecs != 50 {
		t.Fatalf("expected clamped progress, got %+v", done)
	}
}

func TestStartFailsWhenActiveExists(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}}
	uc := newInteractor(t, clk, &fakeHistory{}, nil)

	if _, err := uc.Start(context.Background(), sessiondto.StartInput{}); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := uc.Start(context.Background(), sessiondto.StartInput{}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session error, got %v", err)
	}
	if err := uc.Abandon(context.Background()); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if err := uc.Abandon(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if _, err := uc.Start(context.Background(), sessiondto.StartInput{WorkoutID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown workout, got %v", err)
	}
}

func TestCompleteKeepsActiveSessionWhenHistoryFails(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}}
	history := &fakeHistory{fail: errors.New("disk full")}
	uc := newInteractor(t, clk, history, nil)

	if _, err := uc.Start(context.Background(), sessiondto.StartInput{}); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := uc.Complete(context.Background(), sessiondto.CompleteInput{SessionID: "other"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected session mismatch, got %v", err)
	}
	if _, err := uc.Complete(context.Background(), sessiondto.CompleteInput{}); err == nil {
		t.Fatalf("expected history failure to surface")
	}
	if _, err := uc.GetActive(context.Background()); err != nil {
		t.Fatalf("active session must survive a failed completion: %v", err)
	}
}
