package session

import "testing"

func startedQuizFlow(t *testing.T) *QuizFlow {
	t.Helper()
	f := NewQuizFlow()
	if err := f.ChooseDifficulty("medium", []string{"dq1", "dq2", "dq3"}); err != nil {
		t.Fatalf("ChooseDifficulty: %v", err)
	}
	if err := f.EnterName("Alice"); err != nil {
		t.Fatalf("EnterName: %v", err)
	}
	return f
}

func TestQuizFlowLinearOrder(t *testing.T) {
	f := NewQuizFlow()

	if err := f.EnterName("Alice"); err != ErrInvalidTransition {
		t.Errorf("EnterName before difficulty: got %v", err)
	}
	if err := f.SetAnswer("dq1", "x"); err != ErrInvalidTransition {
		t.Errorf("SetAnswer before answering: got %v", err)
	}
	if err := f.Submit(); err != ErrInvalidTransition {
		t.Errorf("Submit before answering: got %v", err)
	}

	if err := f.ChooseDifficulty("", nil); err != ErrDifficultyRequired {
		t.Errorf("empty difficulty: got %v", err)
	}
	if err := f.ChooseDifficulty("easy", []string{"dq1"}); err != nil {
		t.Fatalf("ChooseDifficulty: %v", err)
	}
	if err := f.EnterName(""); err != ErrNameRequired {
		t.Errorf("empty name: got %v", err)
	}
	if err := f.EnterName("Bob"); err != nil {
		t.Fatalf("EnterName: %v", err)
	}
	if f.State != StateAnswering {
		t.Errorf("expected answering state, got %s", f.State)
	}
}

// 三题只填两题：不可提交，状态不变
func TestQuizFlowIncompleteSubmit(t *testing.T) {
	f := startedQuizFlow(t)

	if err := f.SetAnswer("dq1", "first answer"); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	if err := f.SetAnswer("dq2", "second answer"); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}

	if f.Ready() {
		t.Error("Ready must be false with an unanswered question")
	}
	if err := f.Submit(); err != ErrAnswersIncomplete {
		t.Errorf("expected ErrAnswersIncomplete, got %v", err)
	}
	if f.State != StateAnswering {
		t.Errorf("rejected submit must not change state, got %s", f.State)
	}
}

func TestQuizFlowSubmit(t *testing.T) {
	f := startedQuizFlow(t)
	for _, id := range f.QuestionIDs {
		if err := f.SetAnswer(id, "answer for "+id); err != nil {
			t.Fatalf("SetAnswer(%s): %v", id, err)
		}
	}

	if !f.Ready() {
		t.Fatal("Ready must be true with all questions answered")
	}
	if err := f.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.State != StateSubmitted {
		t.Errorf("expected submitted, got %s", f.State)
	}

	// 提交后不可再改
	if err := f.SetAnswer("dq1", "changed"); err != ErrInvalidTransition {
		t.Errorf("SetAnswer after submit: got %v", err)
	}
}

func TestQuizFlowClearAnswer(t *testing.T) {
	f := startedQuizFlow(t)
	for _, id := range f.QuestionIDs {
		if err := f.SetAnswer(id, "x"); err != nil {
			t.Fatalf("SetAnswer: %v", err)
		}
	}
	if err := f.SetAnswer("dq2", ""); err != nil {
		t.Fatalf("clearing answer: %v", err)
	}
	if f.Ready() {
		t.Error("Ready must go false after clearing an answer")
	}
	if err := f.SetAnswer("unknown", "x"); err != ErrUnknownQuestion {
		t.Errorf("unknown question: got %v", err)
	}
}

// 退回难度选择丢弃一切已填内容，没有恢复语义
func TestQuizFlowBackToSelectionDiscards(t *testing.T) {
	f := startedQuizFlow(t)
	if err := f.SetAnswer("dq1", "will be lost"); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}

	f.BackToSelection()

	if f.State != StateSelectingDifficulty {
		t.Errorf("expected selecting_difficulty, got %s", f.State)
	}
	if f.Name != "" || f.Difficulty != "" || len(f.Answers) != 0 || f.QuestionIDs != nil {
		t.Errorf("flow not fully discarded: %+v", f)
	}
}
