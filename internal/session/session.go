// Package session implements the in-memory state machines driving chapter test
// attempts and daily quiz submissions. The types here are pure: all persistence
// and grading happen in the service layer, which applies the outcomes back into
// the session before saving it.
package session

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrNoAnswerSelected = errors.New("no answer selected")
	ErrAnswerLocked     = errors.New("answer already graded")
	ErrUnknownQuestion  = errors.New("question not part of attempt")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrAtFirstQuestion  = errors.New("already at first question")
	ErrAtLastQuestion   = errors.New("already at last question")
	ErrCompleted        = errors.New("attempt already completed")
	ErrNotAllAnswered   = errors.New("not every question has been graded")
)

// Feedback 单题判分结果，按题目ID保留，导航回看时原样恢复
type Feedback struct {
	QuestionID     string `json:"questionId"`
	Correct        bool   `json:"correct"`
	CorrectAnswer  string `json:"correctAnswer"`
	Explanation    string `json:"explanation"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// Result 完卷后的终态成绩
type Result struct {
	Score        int     `json:"score"`
	Total        int     `json:"total"`
	Percentage   float64 `json:"percentage"`
	TimeSpentSec int     `json:"timeSpentSec"`
}

// TestSession 一次章节测试的答题状态机。
//
// 约束：
//   - 已判分的题目不可再改答案
//   - 导航（next/previous/jump）与完卷是两个独立转换，next 永远不会触发完卷
//   - 完卷要求每道题都已有 Feedback；完卷后状态终结
type TestSession struct {
	AttemptID    string              `json:"attemptId"`
	TestID       string              `json:"testId"`
	QuestionIDs  []string            `json:"questionIds"`
	CurrentIndex int                 `json:"currentIndex"`
	Answers      map[string]string   `json:"answers"`
	Feedback     map[string]Feedback `json:"feedback"`
	Completed    bool                `json:"completed"`
	Result       *Result             `json:"result,omitempty"`
	StartedAt    time.Time           `json:"startedAt"`

	indexByID map[string]int
}

func NewTestSession(attemptID, testID string, questionIDs []string, now time.Time) *TestSession {
	s := &TestSession{
		AttemptID:   attemptID,
		TestID:      testID,
		QuestionIDs: questionIDs,
		Answers:     make(map[string]string),
		Feedback:    make(map[string]Feedback),
		StartedAt:   now,
	}
	s.buildIndex()
	return s
}

func (s *TestSession) buildIndex() {
	s.indexByID = make(map[string]int, len(s.QuestionIDs))
	for i, id := range s.QuestionIDs {
		s.indexByID[id] = i
	}
}

func (s *TestSession) index(questionID string) (int, bool) {
	if s.indexByID == nil || len(s.indexByID) != len(s.QuestionIDs) {
		s.buildIndex()
	}
	i, ok := s.indexByID[questionID]
	return i, ok
}

// SelectAnswer 暂存当前选择；题目一旦判分即锁定
func (s *TestSession) SelectAnswer(questionID, answer string) error {
	if s.Completed {
		return ErrCompleted
	}
	if _, ok := s.index(questionID); !ok {
		return ErrUnknownQuestion
	}
	if answer == "" {
		return ErrNoAnswerSelected
	}
	if _, graded := s.Feedback[questionID]; graded {
		return ErrAnswerLocked
	}
	s.Answers[questionID] = answer
	return nil
}

// RecordFeedback 记录判分结果并将题目标记为已答。
// 对已判分题目的重复记录是幂等空操作，返回已存的 Feedback。
func (s *TestSession) RecordFeedback(fb Feedback) (Feedback, error) {
	if s.Completed {
		return Feedback{}, ErrCompleted
	}
	if _, ok := s.index(fb.QuestionID); !ok {
		return Feedback{}, ErrUnknownQuestion
	}
	if existing, graded := s.Feedback[fb.QuestionID]; graded {
		return existing, nil
	}
	s.Feedback[fb.QuestionID] = fb
	s.Answers[fb.QuestionID] = fb.SelectedAnswer
	return fb, nil
}

// FeedbackFor 返回某题已存的判分结果，回看时用于恢复显示
func (s *TestSession) FeedbackFor(questionID string) (Feedback, bool) {
	fb, ok := s.Feedback[questionID]
	return fb, ok
}

func (s *TestSession) CurrentQuestionID() string {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.QuestionIDs) {
		return ""
	}
	return s.QuestionIDs[s.CurrentIndex]
}

// Next 前进一题。在最后一题时返回 ErrAtLastQuestion：
// 完卷是独立的 Complete 转换，导航永远不会隐式触发它。
func (s *TestSession) Next() error {
	if s.Completed {
		return ErrCompleted
	}
	if s.CurrentIndex >= len(s.QuestionIDs)-1 {
		return ErrAtLastQuestion
	}
	s.CurrentIndex++
	return nil
}

func (s *TestSession) Previous() error {
	if s.Completed {
		return ErrCompleted
	}
	if s.CurrentIndex <= 0 {
		return ErrAtFirstQuestion
	}
	s.CurrentIndex--
	return nil
}

// JumpTo 直接跳转到任意题号，与答题状态无关
func (s *TestSession) JumpTo(index int) error {
	if s.Completed {
		return ErrCompleted
	}
	if index < 0 || index >= len(s.QuestionIDs) {
		return ErrIndexOutOfRange
	}
	s.CurrentIndex = index
	return nil
}

func (s *TestSession) AnsweredCount() int {
	return len(s.Feedback)
}

// AnsweredIndices 已判分题目的下标，升序
func (s *TestSession) AnsweredIndices() []int {
	indices := make([]int, 0, len(s.Feedback))
	for id := range s.Feedback {
		if i, ok := s.index(id); ok {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices
}

// CanComplete 仅当每道题都已判分时可完卷
func (s *TestSession) CanComplete() bool {
	return !s.Completed && len(s.QuestionIDs) > 0 && len(s.Feedback) == len(s.QuestionIDs)
}

func (s *TestSession) ElapsedSeconds(now time.Time) int {
	elapsed := int(now.Sub(s.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// Complete 完卷：汇总得分并进入终态。重复完卷返回 ErrCompleted。
func (s *TestSession) Complete(now time.Time) (Result, error) {
	if s.Completed {
		return Result{}, ErrCompleted
	}
	if !s.CanComplete() {
		return Result{}, ErrNotAllAnswered
	}

	score := 0
	for _, fb := range s.Feedback {
		if fb.Correct {
			score++
		}
	}

	total := len(s.QuestionIDs)
	result := Result{
		Score:        score,
		Total:        total,
		Percentage:   float64(score) / float64(total) * 100,
		TimeSpentSec: s.ElapsedSeconds(now),
	}

	s.Result = &result
	s.Completed = true
	return result, nil
}

// ResetForRetake 重考：清空全部答题状态，绑定新的尝试记录和起始时间
func (s *TestSession) ResetForRetake(newAttemptID string, now time.Time) {
	s.AttemptID = newAttemptID
	s.CurrentIndex = 0
	s.Answers = make(map[string]string)
	s.Feedback = make(map[string]Feedback)
	s.Completed = false
	s.Result = nil
	s.StartedAt = now
}
