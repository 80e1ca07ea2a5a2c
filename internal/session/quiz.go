package session

import "errors"

// QuizState 每日一练的线性流程状态
type QuizState string

const (
	StateSelectingDifficulty QuizState = "selecting_difficulty"
	StateEnteringName        QuizState = "entering_name"
	StateAnswering           QuizState = "answering"
	StateSubmitted           QuizState = "submitted"
)

var (
	ErrInvalidTransition  = errors.New("invalid quiz flow transition")
	ErrDifficultyRequired = errors.New("difficulty is required")
	ErrNameRequired       = errors.New("name is required")
	ErrAnswersIncomplete  = errors.New("every question needs a non-empty answer")
)

// QuizFlow 每日一练状态机：selecting_difficulty → entering_name → answering → submitted。
// 严格线性，任一未提交状态可退回难度选择，退回即丢弃全部已填内容。
type QuizFlow struct {
	State       QuizState         `json:"state"`
	Difficulty  string            `json:"difficulty"`
	Name        string            `json:"name"`
	QuestionIDs []string          `json:"questionIds"`
	Answers     map[string]string `json:"answers"`
}

func NewQuizFlow() *QuizFlow {
	return &QuizFlow{
		State:   StateSelectingDifficulty,
		Answers: make(map[string]string),
	}
}

func (f *QuizFlow) ChooseDifficulty(difficulty string, questionIDs []string) error {
	if f.State != StateSelectingDifficulty {
		return ErrInvalidTransition
	}
	if difficulty == "" {
		return ErrDifficultyRequired
	}
	f.Difficulty = difficulty
	f.QuestionIDs = questionIDs
	f.State = StateEnteringName
	return nil
}

func (f *QuizFlow) EnterName(name string) error {
	if f.State != StateEnteringName {
		return ErrInvalidTransition
	}
	if name == "" {
		return ErrNameRequired
	}
	f.Name = name
	f.State = StateAnswering
	return nil
}

// SetAnswer 填写或清空某题的自由文本答案
func (f *QuizFlow) SetAnswer(questionID, text string) error {
	if f.State != StateAnswering {
		return ErrInvalidTransition
	}
	known := false
	for _, id := range f.QuestionIDs {
		if id == questionID {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownQuestion
	}
	if text == "" {
		delete(f.Answers, questionID)
		return nil
	}
	f.Answers[questionID] = text
	return nil
}

// Ready 所有题目都有非空答案时才允许提交
func (f *QuizFlow) Ready() bool {
	if len(f.QuestionIDs) == 0 {
		return false
	}
	for _, id := range f.QuestionIDs {
		if f.Answers[id] == "" {
			return false
		}
	}
	return true
}

func (f *QuizFlow) Submit() error {
	if f.State != StateAnswering {
		return ErrInvalidTransition
	}
	if !f.Ready() {
		return ErrAnswersIncomplete
	}
	f.State = StateSubmitted
	return nil
}

// BackToSelection 退回难度选择，丢弃进行中的全部内容
func (f *QuizFlow) BackToSelection() {
	f.State = StateSelectingDifficulty
	f.Difficulty = ""
	f.Name = ""
	f.QuestionIDs = nil
	f.Answers = make(map[string]string)
}
