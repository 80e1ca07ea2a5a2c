package model

import "time"

// VideoProgress 记录用户观看视频的进度，按用户+视频唯一
type VideoProgress struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_user_video;type:bigint unsigned" json:"userId"`
	VideoID       uint      `gorm:"uniqueIndex:idx_user_video;type:bigint unsigned" json:"videoId"`
	PositionSec   float64   `gorm:"default:0" json:"positionSec"`
	WatchedSec    float64   `gorm:"default:0" json:"watchedSec"`
	Completed     bool      `gorm:"default:false" json:"completed"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}
