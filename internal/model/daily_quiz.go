package model

import "time"

type QuizDifficulty string

const (
	QuizEasy   QuizDifficulty = "easy"
	QuizMedium QuizDifficulty = "medium"
	QuizHard   QuizDifficulty = "hard"
)

// DailyQuiz 每日一练，自由文本、整卷提交，无逐题反馈
type DailyQuiz struct {
	UUIDBase
	Title       string         `gorm:"size:255;not null" json:"title"`
	Difficulty  QuizDifficulty `gorm:"type:enum('easy','medium','hard');default:'easy'" json:"difficulty"`
	QuizDate    time.Time      `gorm:"index" json:"quizDate"`
	IsPublished bool           `gorm:"default:false" json:"isPublished"`
	CreatorID   uint           `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (DailyQuiz) TableName() string {
	return "daily_quizzes"
}

type DailyQuizQuestion struct {
	UUIDBase
	QuizID  string `gorm:"index;type:varchar(36)" json:"quizId"`
	Content string `gorm:"type:text;not null" json:"content"`
	Order   int    `gorm:"default:0" json:"order"`
}

func (DailyQuizQuestion) TableName() string {
	return "daily_quiz_questions"
}

type DailyQuizSubmission struct {
	UUIDBase
	QuizID      string    `gorm:"index;type:varchar(36)" json:"quizId"`
	UserID      uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	StudentName string    `gorm:"size:100" json:"studentName"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (DailyQuizSubmission) TableName() string {
	return "daily_quiz_submissions"
}

type DailyQuizAnswer struct {
	UUIDBase
	SubmissionID string `gorm:"index;type:varchar(36)" json:"submissionId"`
	QuestionID   string `gorm:"index;type:varchar(36)" json:"questionId"`
	AnswerText   string `gorm:"type:text" json:"answerText"`
}

func (DailyQuizAnswer) TableName() string {
	return "daily_quiz_answers"
}
