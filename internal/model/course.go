package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CoverURL    string     `gorm:"size:512" json:"coverUrl"`
	CreatorID   uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Chapters    []Chapter  `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type Chapter struct {
	BaseModel
	CourseID uint           `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title    string         `gorm:"size:255;not null" json:"title"`
	Order    int            `gorm:"default:0" json:"order"`
	Videos   []ChapterVideo `gorm:"foreignKey:ChapterID" json:"videos,omitempty"`
	// 章节可挂一份测试试卷
	TestID string `gorm:"type:varchar(36)" json:"testId"`
}

func (Chapter) TableName() string {
	return "chapters"
}

type ChapterVideo struct {
	BaseModel
	ChapterID    uint    `gorm:"index;type:bigint unsigned" json:"chapterId"`
	Title        string  `gorm:"size:255;not null" json:"title"`
	URL          string  `gorm:"size:512" json:"url"`
	ThumbnailURL string  `gorm:"size:512" json:"thumbnailUrl"`
	Duration     float64 `gorm:"default:0" json:"duration"` // 秒
	Size         int64   `gorm:"default:0" json:"size"`
	Order        int     `gorm:"default:0" json:"order"`
}

func (ChapterVideo) TableName() string {
	return "chapter_videos"
}
