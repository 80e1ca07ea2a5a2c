package service

import (
	"errors"
	"testing"

	"learnsphere_backend/internal/model"

	"gorm.io/gorm"
)

type fakeSubmissionFinder struct {
	submission *model.DailyQuizSubmission
	err        error
}

func (f fakeSubmissionFinder) FindSubmissionByUserAndQuiz(userID uint, quizID string) (*model.DailyQuizSubmission, error) {
	return f.submission, f.err
}

func TestFindPriorSubmission(t *testing.T) {
	t.Run("no prior submission lets the flow continue", func(t *testing.T) {
		got, err := findPriorSubmission(fakeSubmissionFinder{err: gorm.ErrRecordNotFound}, 1, "quiz-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("got %+v, want nil for record-not-found", got)
		}
	})

	t.Run("prior submission is returned as-is", func(t *testing.T) {
		existing := &model.DailyQuizSubmission{StudentName: "张三"}
		got, err := findPriorSubmission(fakeSubmissionFinder{submission: existing}, 1, "quiz-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != existing {
			t.Fatalf("got %+v, want the stored submission", got)
		}
	})

	t.Run("lookup failure aborts instead of re-submitting", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		got, err := findPriorSubmission(fakeSubmissionFinder{err: dbErr}, 1, "quiz-1")
		if !errors.Is(err, dbErr) {
			t.Fatalf("error = %v, want the lookup failure propagated", err)
		}
		if got != nil {
			t.Fatalf("got %+v, want nil on lookup failure", got)
		}
	})
}
