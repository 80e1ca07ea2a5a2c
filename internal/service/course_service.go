package service

import (
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/repository"
	"learnsphere_backend/internal/util"
	"time"
)

// CourseService 课程/章节管理与学生观看进度
type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.VideoProgressRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, progressRepo *repository.VideoProgressRepository) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
	}
}

func (s *CourseService) CreateCourse(course *model.Course) error {
	if course.IsPublished {
		now := time.Now()
		course.PublishedAt = &now
	}
	return s.CourseRepo.Create(course)
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(course *model.Course) error {
	existing, err := s.CourseRepo.FindByID(course.ID)
	if err != nil {
		return util.ErrCourseNotFound
	}

	existing.Title = course.Title
	existing.Description = course.Description
	existing.CoverURL = course.CoverURL
	if course.IsPublished && !existing.IsPublished {
		now := time.Now()
		existing.PublishedAt = &now
	}
	existing.IsPublished = course.IsPublished

	return s.CourseRepo.Update(existing)
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		return util.ErrCourseNotFound
	}
	return s.CourseRepo.Delete(id)
}

// ListCourses publishedOnly为true时只返回已发布课程（学生视角）
func (s *CourseService) ListCourses(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, publishedOnly)
}

func (s *CourseService) CreateChapter(chapter *model.Chapter) error {
	if _, err := s.CourseRepo.FindByID(chapter.CourseID); err != nil {
		return util.ErrCourseNotFound
	}
	return s.CourseRepo.CreateChapter(chapter)
}

func (s *CourseService) UpdateChapter(chapter *model.Chapter) error {
	existing, err := s.CourseRepo.FindChapterByID(chapter.ID)
	if err != nil {
		return util.ErrCourseNotFound
	}

	existing.Title = chapter.Title
	existing.Order = chapter.Order
	existing.TestID = chapter.TestID

	return s.CourseRepo.UpdateChapter(existing)
}

func (s *CourseService) DeleteChapter(id uint) error {
	return s.CourseRepo.DeleteChapter(id)
}

// ReportProgress 上报视频观看进度；同一用户同一视频只保留一条记录
func (s *CourseService) ReportProgress(userID, videoID uint, positionSec, watchedSec float64) (*model.VideoProgress, error) {
	video, err := s.CourseRepo.FindVideoByID(videoID)
	if err != nil {
		return nil, util.ErrVideoNotFound
	}

	// 看过90%即视为完成
	completed := video.Duration > 0 && watchedSec >= video.Duration*0.9

	progress := &model.VideoProgress{
		UserID:        userID,
		VideoID:       videoID,
		PositionSec:   positionSec,
		WatchedSec:    watchedSec,
		Completed:     completed,
		LastWatchedAt: time.Now(),
	}
	if err := s.ProgressRepo.Upsert(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// CourseProgress 学生在一门课中的整体进度
type CourseProgress struct {
	CourseID        uint                  `json:"courseId"`
	TotalVideos     int                   `json:"totalVideos"`
	CompletedVideos int                   `json:"completedVideos"`
	Percentage      float64               `json:"percentage"`
	Videos          []model.VideoProgress `json:"videos"`
}

// GetCourseProgress 汇总学生在课程内所有视频的观看进度
func (s *CourseService) GetCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	videos, err := s.CourseRepo.ListVideosByCourse(courseID)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]uint, len(videos))
	for i, v := range videos {
		videoIDs[i] = v.ID
	}

	records, err := s.ProgressRepo.ListByUserAndVideos(userID, videoIDs)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, rec := range records {
		if rec.Completed {
			completed++
		}
	}

	result := &CourseProgress{
		CourseID:        courseID,
		TotalVideos:     len(videos),
		CompletedVideos: completed,
		Videos:          records,
	}
	if len(videos) > 0 {
		result.Percentage = float64(completed) / float64(len(videos)) * 100
	}
	return result, nil
}
