package model

import (
	"encoding/json"
	"time"
)

// ChapterTest 章节客观题测试试卷
type ChapterTest struct {
	UUIDBase
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ChapterID   uint       `gorm:"index;type:bigint unsigned" json:"chapterId"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatorID   uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (ChapterTest) TableName() string {
	return "chapter_tests"
}

type ChapterTestQuestion struct {
	UUIDBase
	TestID       string          `gorm:"index;type:varchar(36)" json:"testId"`
	QuestionType string          `gorm:"size:50;not null" json:"questionType"` // single_choice, multiple_choice, true_false
	Content      string          `gorm:"type:text;not null" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"` // JSON: [{label, text}]
	Answer       string          `gorm:"type:text" json:"answer"`
	Explanation  string          `gorm:"type:text" json:"explanation"`
	Points       int             `gorm:"default:1" json:"points"`
	Order        int             `gorm:"default:0" json:"order"`
}

func (ChapterTestQuestion) TableName() string {
	return "chapter_test_questions"
}

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// TestAttempt 学生一次答题记录；completed 后不可再变更
type TestAttempt struct {
	UUIDBase
	TestID         string     `gorm:"index;type:varchar(36)" json:"testId"`
	UserID         uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	Status         string     `gorm:"size:20;default:'in_progress'" json:"status"`
	Score          int        `gorm:"default:0" json:"score"`
	TotalQuestions int        `gorm:"default:0" json:"totalQuestions"`
	Percentage     float64    `gorm:"default:0" json:"percentage"`
	TimeSpentSec   int        `gorm:"default:0" json:"timeSpentSec"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

type TestAttemptAnswer struct {
	UUIDBase
	AttemptID      string    `gorm:"index;type:varchar(36)" json:"attemptId"`
	QuestionID     string    `gorm:"index;type:varchar(36)" json:"questionId"`
	SelectedAnswer string    `gorm:"type:text" json:"selectedAnswer"`
	IsCorrect      bool      `gorm:"default:false" json:"isCorrect"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

func (TestAttemptAnswer) TableName() string {
	return "test_attempt_answers"
}
