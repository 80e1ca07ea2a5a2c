package repository

import (
	"learnsphere_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoProgressRepository struct {
	DB *gorm.DB
}

func NewVideoProgressRepository(db *gorm.DB) *VideoProgressRepository {
	return &VideoProgressRepository{DB: db}
}

// Upsert 按用户+视频更新进度；观看位置只增不减由服务层保证
func (r *VideoProgressRepository) Upsert(progress *model.VideoProgress) error {
	progress.LastWatchedAt = time.Now()
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"position_sec", "watched_sec", "completed", "last_watched_at", "updated_at",
		}),
	}).Create(progress).Error
}

func (r *VideoProgressRepository) Find(userID, videoID uint) (*model.VideoProgress, error) {
	var progress model.VideoProgress
	err := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).First(&progress).Error
	return &progress, err
}

func (r *VideoProgressRepository) ListByUserAndVideos(userID uint, videoIDs []uint) ([]model.VideoProgress, error) {
	var progress []model.VideoProgress
	err := r.DB.Where("user_id = ? AND video_id IN ?", userID, videoIDs).Find(&progress).Error
	return progress, err
}
