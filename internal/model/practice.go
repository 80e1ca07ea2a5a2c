package model

import "time"

// PracticeProblem 练习题，按输出比对判定
type PracticeProblem struct {
	BaseModel
	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	Difficulty     string `gorm:"size:20;default:'easy'" json:"difficulty"`
	Category       string `gorm:"size:100" json:"category"`
	StarterCode    string `gorm:"type:text" json:"starterCode"`
	ExpectedOutput string `gorm:"type:text" json:"-"`
	Order          int    `gorm:"default:0" json:"order"`
	IsPublished    bool   `gorm:"default:true" json:"isPublished"`
}

func (PracticeProblem) TableName() string {
	return "practice_problems"
}

type PracticeSubmission struct {
	BaseModel
	ProblemID   uint      `gorm:"index;type:bigint unsigned" json:"problemId"`
	UserID      uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	Code        string    `gorm:"type:text" json:"code"`
	Output      string    `gorm:"type:text" json:"output"`
	Passed      bool      `gorm:"default:false" json:"passed"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (PracticeSubmission) TableName() string {
	return "practice_submissions"
}
