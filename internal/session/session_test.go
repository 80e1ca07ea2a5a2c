package session

import (
	"context"
	"testing"
	"time"
)

func newFiveQuestionSession(t *testing.T) *TestSession {
	t.Helper()
	ids := []string{"q1", "q2", "q3", "q4", "q5"}
	return NewTestSession("attempt-1", "test-1", ids, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
}

func grade(t *testing.T, s *TestSession, questionID, answer string, correct bool) {
	t.Helper()
	if err := s.SelectAnswer(questionID, answer); err != nil {
		t.Fatalf("SelectAnswer(%s): %v", questionID, err)
	}
	if _, err := s.RecordFeedback(Feedback{
		QuestionID:     questionID,
		Correct:        correct,
		CorrectAnswer:  "A",
		Explanation:    "explanation for " + questionID,
		SelectedAnswer: answer,
	}); err != nil {
		t.Fatalf("RecordFeedback(%s): %v", questionID, err)
	}
}

func TestSelectAnswer(t *testing.T) {
	s := newFiveQuestionSession(t)

	t.Run("EmptyAnswerRejected", func(t *testing.T) {
		if err := s.SelectAnswer("q1", ""); err != ErrNoAnswerSelected {
			t.Errorf("expected ErrNoAnswerSelected, got %v", err)
		}
		if len(s.Answers) != 0 {
			t.Errorf("rejected selection must not change state, answers=%v", s.Answers)
		}
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		if err := s.SelectAnswer("nope", "A"); err != ErrUnknownQuestion {
			t.Errorf("expected ErrUnknownQuestion, got %v", err)
		}
	})

	t.Run("LockedAfterGrading", func(t *testing.T) {
		grade(t, s, "q1", "A", true)
		if err := s.SelectAnswer("q1", "B"); err != ErrAnswerLocked {
			t.Errorf("expected ErrAnswerLocked, got %v", err)
		}
		if s.Answers["q1"] != "A" {
			t.Errorf("graded answer must be immutable, got %q", s.Answers["q1"])
		}
	})
}

func TestRecordFeedbackIdempotent(t *testing.T) {
	s := newFiveQuestionSession(t)
	grade(t, s, "q1", "A", true)

	// 重复判分必须是空操作，返回已存的结果
	fb, err := s.RecordFeedback(Feedback{QuestionID: "q1", Correct: false, SelectedAnswer: "B"})
	if err != nil {
		t.Fatalf("duplicate RecordFeedback: %v", err)
	}
	if !fb.Correct || fb.SelectedAnswer != "A" {
		t.Errorf("duplicate grade must return the stored feedback, got %+v", fb)
	}
	if s.AnsweredCount() != 1 {
		t.Errorf("duplicate grade must not double-count, answered=%d", s.AnsweredCount())
	}
}

func TestFeedbackRestoredOnRevisit(t *testing.T) {
	s := newFiveQuestionSession(t)
	grade(t, s, "q1", "B", false)

	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := s.Previous(); err != nil {
		t.Fatalf("Previous: %v", err)
	}

	fb, ok := s.FeedbackFor(s.CurrentQuestionID())
	if !ok {
		t.Fatal("feedback must be restored when revisiting an answered question")
	}
	if fb.Correct || fb.SelectedAnswer != "B" {
		t.Errorf("restored feedback mismatch: %+v", fb)
	}
}

func TestNavigation(t *testing.T) {
	s := newFiveQuestionSession(t)

	t.Run("PreviousAtFirst", func(t *testing.T) {
		if err := s.Previous(); err != ErrAtFirstQuestion {
			t.Errorf("expected ErrAtFirstQuestion, got %v", err)
		}
	})

	t.Run("NextNeverCompletes", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			if err := s.Next(); err != nil {
				t.Fatalf("Next #%d: %v", i, err)
			}
		}
		// 最后一题上 next 是错误，而不是隐式完卷
		if err := s.Next(); err != ErrAtLastQuestion {
			t.Errorf("expected ErrAtLastQuestion, got %v", err)
		}
		if s.Completed {
			t.Error("navigation must never complete the attempt")
		}
	})

	t.Run("JumpTo", func(t *testing.T) {
		if err := s.JumpTo(2); err != nil {
			t.Fatalf("JumpTo(2): %v", err)
		}
		if s.CurrentQuestionID() != "q3" {
			t.Errorf("expected q3, got %s", s.CurrentQuestionID())
		}
		if err := s.JumpTo(5); err != ErrIndexOutOfRange {
			t.Errorf("expected ErrIndexOutOfRange, got %v", err)
		}
		if err := s.JumpTo(-1); err != ErrIndexOutOfRange {
			t.Errorf("expected ErrIndexOutOfRange, got %v", err)
		}
	})
}

// 五题全对顺序作答：score=5, total=5, percentage=100
func TestCompleteAllCorrect(t *testing.T) {
	s := newFiveQuestionSession(t)

	for i, id := range s.QuestionIDs {
		grade(t, s, id, "A", true)
		if s.AnsweredCount() > len(s.QuestionIDs) {
			t.Fatalf("answered count %d exceeds question count", s.AnsweredCount())
		}
		if i < len(s.QuestionIDs)-1 {
			if err := s.Next(); err != nil {
				t.Fatalf("Next: %v", err)
			}
		}
	}

	if !s.CanComplete() {
		t.Fatal("CanComplete must be true once every question has feedback")
	}

	completedAt := s.StartedAt.Add(95 * time.Second)
	result, err := s.Complete(completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Score != 5 || result.Total != 5 || result.Percentage != 100 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.TimeSpentSec != 95 {
		t.Errorf("expected 95s elapsed, got %d", result.TimeSpentSec)
	}
	if !s.Completed || s.Result == nil {
		t.Error("session must be terminal after completion")
	}
}

func TestCompleteGating(t *testing.T) {
	s := newFiveQuestionSession(t)
	grade(t, s, "q1", "A", true)
	grade(t, s, "q2", "B", false)

	t.Run("IncompleteAnswerSetRejected", func(t *testing.T) {
		if _, err := s.Complete(time.Now()); err != ErrNotAllAnswered {
			t.Errorf("expected ErrNotAllAnswered, got %v", err)
		}
		if s.Completed {
			t.Error("rejected completion must not change state")
		}
	})

	t.Run("DoubleCompletionRejected", func(t *testing.T) {
		for _, id := range []string{"q3", "q4", "q5"} {
			grade(t, s, id, "A", true)
		}
		if _, err := s.Complete(time.Now()); err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if _, err := s.Complete(time.Now()); err != ErrCompleted {
			t.Errorf("expected ErrCompleted on second completion, got %v", err)
		}
	})

	t.Run("TerminalStateLocksEverything", func(t *testing.T) {
		if err := s.SelectAnswer("q1", "C"); err != ErrCompleted {
			t.Errorf("SelectAnswer after completion: got %v", err)
		}
		if err := s.Next(); err != ErrCompleted {
			t.Errorf("Next after completion: got %v", err)
		}
		if _, err := s.RecordFeedback(Feedback{QuestionID: "q1"}); err != ErrCompleted {
			t.Errorf("RecordFeedback after completion: got %v", err)
		}
	})
}

func TestPartialScore(t *testing.T) {
	s := newFiveQuestionSession(t)
	correct := map[string]bool{"q1": true, "q2": false, "q3": true, "q4": false, "q5": true}
	for id, ok := range correct {
		grade(t, s, id, "A", ok)
	}

	result, err := s.Complete(s.StartedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Score != 3 || result.Total != 5 {
		t.Errorf("expected 3/5, got %d/%d", result.Score, result.Total)
	}
	if result.Percentage != 60 {
		t.Errorf("expected 60%%, got %v", result.Percentage)
	}
}

func TestResetForRetake(t *testing.T) {
	s := newFiveQuestionSession(t)
	for _, id := range s.QuestionIDs {
		grade(t, s, id, "A", true)
	}
	if _, err := s.Complete(s.StartedAt.Add(time.Minute)); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	retakeAt := s.StartedAt.Add(10 * time.Minute)
	s.ResetForRetake("attempt-2", retakeAt)

	if s.AttemptID != "attempt-2" {
		t.Errorf("attempt id not rebound: %s", s.AttemptID)
	}
	if s.CurrentIndex != 0 {
		t.Errorf("index must reset to 0, got %d", s.CurrentIndex)
	}
	if len(s.Answers) != 0 || len(s.Feedback) != 0 {
		t.Error("answers and feedback must be cleared")
	}
	if s.Completed || s.Result != nil {
		t.Error("completed flag and result must be cleared")
	}
	if !s.StartedAt.After(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Error("new start time must be strictly later than the previous one")
	}

	// 重考后可以重新作答
	if err := s.SelectAnswer("q1", "B"); err != nil {
		t.Errorf("SelectAnswer after retake: %v", err)
	}
}

func TestAnsweredIndices(t *testing.T) {
	s := newFiveQuestionSession(t)
	grade(t, s, "q4", "A", true)
	grade(t, s, "q1", "A", true)
	grade(t, s, "q3", "A", false)

	indices := s.AnsweredIndices()
	want := []int{0, 2, 3}
	if len(indices) != len(want) {
		t.Fatalf("expected %v, got %v", want, indices)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, indices)
		}
	}
}

func TestSessionRoundTripThroughStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := newFiveQuestionSession(t)
	grade(t, s, "q1", "A", true)
	grade(t, s, "q2", "B", false)
	if err := s.JumpTo(3); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}

	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "attempt-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.CurrentIndex != 3 {
		t.Errorf("current index lost in round trip: %d", loaded.CurrentIndex)
	}
	if loaded.AnsweredCount() != 2 {
		t.Errorf("feedback lost in round trip: %d", loaded.AnsweredCount())
	}
	fb, ok := loaded.FeedbackFor("q2")
	if !ok || fb.Correct {
		t.Errorf("feedback for q2 mismatch: %+v ok=%v", fb, ok)
	}
	// 反序列化后的会话必须还能继续状态转换
	if err := loaded.SelectAnswer("q4", "C"); err != nil {
		t.Errorf("SelectAnswer on loaded session: %v", err)
	}

	if err := store.Delete(ctx, "attempt-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "attempt-1"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
