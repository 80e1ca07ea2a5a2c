package repository

import (
	"learnsphere_backend/internal/model"

	"gorm.io/gorm"
)

type PracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{DB: db}
}

func (r *PracticeRepository) CreateProblem(problem *model.PracticeProblem) error {
	return r.DB.Create(problem).Error
}

func (r *PracticeRepository) FindProblemByID(id uint) (*model.PracticeProblem, error) {
	var problem model.PracticeProblem
	err := r.DB.First(&problem, id).Error
	return &problem, err
}

func (r *PracticeRepository) UpdateProblem(problem *model.PracticeProblem) error {
	return r.DB.Save(problem).Error
}

func (r *PracticeRepository) DeleteProblem(id uint) error {
	return r.DB.Delete(&model.PracticeProblem{}, id).Error
}

func (r *PracticeRepository) ListProblems(page, limit int, difficulty, category string, publishedOnly bool) ([]model.PracticeProblem, int64, error) {
	query := r.DB.Model(&model.PracticeProblem{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var problems []model.PracticeProblem
	offset := (page - 1) * limit
	err := query.Order("`order` asc, created_at desc").Offset(offset).Limit(limit).Find(&problems).Error
	return problems, total, err
}

func (r *PracticeRepository) SaveSubmission(submission *model.PracticeSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *PracticeRepository) ListSubmissionsByUser(userID uint, problemID uint) ([]model.PracticeSubmission, error) {
	query := r.DB.Where("user_id = ?", userID)
	if problemID != 0 {
		query = query.Where("problem_id = ?", problemID)
	}

	var submissions []model.PracticeSubmission
	err := query.Order("submitted_at desc").Find(&submissions).Error
	return submissions, err
}

func (r *PracticeRepository) CountPassedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PracticeSubmission{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Distinct("problem_id").
		Count(&count).Error
	return count, err
}
