package core

import (
	"context"
	"errors"
	"testing"

	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/shared/scoreapi"
)

var testBoard = scoreapi.Leaderboard{
	ISOWeek: "2026-W10",
	Entries: []scoreapi.RankedEntry{{Rank: 1, Nickname: "tester", Score: 120}},
}

func okSubmit(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
	return scoreapi.SubmitResponse{
		Placement: 1,
		ISOWeek:   "2026-W10",
		Entry:     scoreapi.Entry{ID: "e1", Nickname: req.Nickname, Score: req.Score},
	}, nil
}

func okRefresh(ctx context.Context, week string) (scoreapi.Leaderboard, error) {
	return testBoard, nil
}

func TestHandlerDeliversOnPoll(t *testing.T) {
	h := NewGameOverHandler(okSubmit, okRefresh)
	if err := h.Submit(scoreapi.SubmitRequest{Nickname: "tester", Score: 120}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	h.Wait()

	rec := &messages.Recorder{}
	h.Poll(rec)

	if len(rec.Events) != 2 {
		t.Fatalf("expected submitted then loaded, got %+v", rec.Events)
	}
	sub, ok := rec.Events[0].(messages.ScoreSubmitted)
	if !ok || sub.Placement != 1 || sub.ISOWeek != "2026-W10" || sub.EntryID != "e1" {
		t.Errorf("unexpected first event %+v", rec.Events[0])
	}
	if loaded, ok := rec.Events[1].(messages.LeaderboardLoaded); !ok || loaded.Board.ISOWeek != "2026-W10" {
		t.Errorf("unexpected second event %+v", rec.Events[1])
	}
	if h.InFlight() {
		t.Error("InFlight() = true after completion")
	}
}

func TestHandlerFailureAllowsRetry(t *testing.T) {
	calls := 0
	submit := func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
		calls++
		if calls == 1 {
			return scoreapi.SubmitResponse{}, errors.New("leaderboard unavailable")
		}
		return okSubmit(ctx, req)
	}
	h := NewGameOverHandler(submit, nil)
	rec := &messages.Recorder{}

	h.Submit(scoreapi.SubmitRequest{Nickname: "tester"})
	h.Wait()
	h.Poll(rec)
	failed := messages.Of[messages.ScoreSubmitFailed](rec)
	if len(failed) != 1 || failed[0].Message != "leaderboard unavailable" {
		t.Fatalf("unexpected failures %+v", failed)
	}

	if err := h.Submit(scoreapi.SubmitRequest{Nickname: "tester"}); err != nil {
		t.Fatalf("retry rejected: %v", err)
	}
	h.Wait()
	h.Poll(rec)
	if len(messages.Of[messages.ScoreSubmitted](rec)) != 1 {
		t.Error("retry result not delivered")
	}
}

func TestHandlerRejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	submit := func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
		<-release
		return okSubmit(ctx, req)
	}
	h := NewGameOverHandler(submit, nil)

	if err := h.Submit(scoreapi.SubmitRequest{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := h.Submit(scoreapi.SubmitRequest{}); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit error = %v, want ErrSubmitInFlight", err)
	}
	close(release)
	h.Wait()
}

func TestHandlerCancelDiscardsLateResults(t *testing.T) {
	release := make(chan struct{})
	submit := func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
		<-release
		return okSubmit(ctx, req)
	}
	h := NewGameOverHandler(submit, okRefresh)
	h.Submit(scoreapi.SubmitRequest{})

	h.Cancel()
	if h.InFlight() {
		t.Error("InFlight() = true after Cancel")
	}
	close(release)
	h.Wait()

	rec := &messages.Recorder{}
	h.Poll(rec)
	if len(rec.Events) != 0 {
		t.Errorf("stale results delivered: %+v", rec.Events)
	}
}

func TestHandlerCancelStopsContextAwareRequests(t *testing.T) {
	started := make(chan struct{})
	submit := func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
		close(started)
		<-ctx.Done()
		return scoreapi.SubmitResponse{}, ctx.Err()
	}
	h := NewGameOverHandler(submit, nil)
	h.Submit(scoreapi.SubmitRequest{})
	<-started

	h.Close()

	rec := &messages.Recorder{}
	h.Poll(rec)
	if len(rec.Events) != 0 {
		t.Errorf("cancelled request produced events: %+v", rec.Events)
	}
}

func TestSessionSubmitsFinalScore(t *testing.T) {
	var got scoreapi.SubmitRequest
	submit := func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
		got = req
		return okSubmit(ctx, req)
	}
	h := NewGameOverHandler(submit, okRefresh)
	r := newSessionRig(t, noGravity, h)
	r.endGame(t)

	if err := r.SubmitScore("tester", "t@example.com"); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	h.Wait()
	r.Tick(tick)

	if got.Nickname != "tester" || got.Email != "t@example.com" || got.Score != r.Score() {
		t.Errorf("submitted %+v", got)
	}
	if len(messages.Of[messages.ScoreSubmitted](r.rec)) != 1 {
		t.Error("ScoreSubmitted not delivered on tick")
	}
	if len(messages.Of[messages.LeaderboardLoaded](r.rec)) != 1 {
		t.Error("LeaderboardLoaded not delivered on tick")
	}
}

func TestSessionResetCancelsSubmission(t *testing.T) {
	release := make(chan struct{})
	submit := func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
		<-release
		return okSubmit(ctx, req)
	}
	h := NewGameOverHandler(submit, nil)
	r := newSessionRig(t, noGravity, h)
	r.endGame(t)
	r.SubmitScore("tester", "")

	r.Reset()
	close(release)
	h.Wait()
	r.Tick(tick)

	if n := len(messages.Of[messages.ScoreSubmitted](r.rec)); n != 0 {
		t.Errorf("%d submissions delivered after reset", n)
	}
}
