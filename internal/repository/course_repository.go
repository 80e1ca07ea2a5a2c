package repository

import (
	"learnsphere_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapters.order asc")
	}).Preload("Chapters.Videos", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapter_videos.order asc")
	}).First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []uint
		if err := tx.Model(&model.Chapter{}).Where("course_id = ?", id).Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}
		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.ChapterVideo{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) List(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) CreateChapter(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *CourseRepository) FindChapterByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.Preload("Videos", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapter_videos.order asc")
	}).First(&chapter, id).Error
	return &chapter, err
}

func (r *CourseRepository) UpdateChapter(chapter *model.Chapter) error {
	return r.DB.Save(chapter).Error
}

func (r *CourseRepository) DeleteChapter(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", id).Delete(&model.ChapterVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chapter{}, id).Error
	})
}

func (r *CourseRepository) CreateVideo(video *model.ChapterVideo) error {
	return r.DB.Create(video).Error
}

func (r *CourseRepository) FindVideoByID(id uint) (*model.ChapterVideo, error) {
	var video model.ChapterVideo
	err := r.DB.First(&video, id).Error
	return &video, err
}

func (r *CourseRepository) UpdateVideo(video *model.ChapterVideo) error {
	return r.DB.Save(video).Error
}

func (r *CourseRepository) DeleteVideo(id uint) error {
	return r.DB.Delete(&model.ChapterVideo{}, id).Error
}

func (r *CourseRepository) ListVideosByCourse(courseID uint) ([]model.ChapterVideo, error) {
	var videos []model.ChapterVideo
	err := r.DB.Joins("JOIN chapters ON chapters.id = chapter_videos.chapter_id").
		Where("chapters.course_id = ?", courseID).
		Order("chapters.order asc, chapter_videos.order asc").
		Find(&videos).Error
	return videos, err
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}
