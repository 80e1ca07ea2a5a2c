package repository

import (
	"learnsphere_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type DailyQuizRepository struct {
	DB *gorm.DB
}

func NewDailyQuizRepository(db *gorm.DB) *DailyQuizRepository {
	return &DailyQuizRepository{DB: db}
}

func (r *DailyQuizRepository) CreateQuiz(quiz *model.DailyQuiz) error {
	return r.DB.Create(quiz).Error
}

func (r *DailyQuizRepository) FindQuizByID(id string) (*model.DailyQuiz, error) {
	var quiz model.DailyQuiz
	err := r.DB.First(&quiz, "id = ?", id).Error
	return &quiz, err
}

// FindPublishedByDifficulty 当天已发布、指定难度的一套题
func (r *DailyQuizRepository) FindPublishedByDifficulty(difficulty model.QuizDifficulty, day time.Time) (*model.DailyQuiz, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var quiz model.DailyQuiz
	err := r.DB.Where("difficulty = ? AND is_published = ? AND quiz_date >= ? AND quiz_date < ?",
		difficulty, true, start, end).
		Order("created_at desc").
		First(&quiz).Error
	return &quiz, err
}

func (r *DailyQuizRepository) UpdateQuiz(quiz *model.DailyQuiz) error {
	return r.DB.Save(quiz).Error
}

func (r *DailyQuizRepository) DeleteQuiz(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.DailyQuizQuestion{}).Error; err != nil {
			return err
		}
		var submissionIDs []string
		if err := tx.Model(&model.DailyQuizSubmission{}).Where("quiz_id = ?", id).Pluck("id", &submissionIDs).Error; err == nil && len(submissionIDs) > 0 {
			if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.DailyQuizAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.DailyQuizSubmission{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.DailyQuiz{}, "id = ?", id).Error
	})
}

func (r *DailyQuizRepository) ListQuizzes(page, limit int) ([]model.DailyQuiz, int64, error) {
	var total int64
	if err := r.DB.Model(&model.DailyQuiz{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []model.DailyQuiz
	offset := (page - 1) * limit
	err := r.DB.Order("quiz_date desc").Offset(offset).Limit(limit).Find(&quizzes).Error
	return quizzes, total, err
}

func (r *DailyQuizRepository) CreateQuestion(question *model.DailyQuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *DailyQuizRepository) UpdateQuestion(question *model.DailyQuizQuestion) error {
	return r.DB.Save(question).Error
}

func (r *DailyQuizRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.DailyQuizQuestion{}, "id = ?", id).Error
}

func (r *DailyQuizRepository) ListQuestions(quizID string) ([]model.DailyQuizQuestion, error) {
	var qs []model.DailyQuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

// SaveSubmission 整卷提交：提交记录和全部答案在一个事务里落库
func (r *DailyQuizRepository) SaveSubmission(submission *model.DailyQuizSubmission, answers []model.DailyQuizAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].SubmissionID = submission.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListSubmissions 教师端按日期过滤的提交列表
func (r *DailyQuizRepository) ListSubmissions(quizID string, day *time.Time, page, limit int) ([]map[string]interface{}, int64, error) {
	query := r.DB.Table("daily_quiz_submissions s").
		Select("s.*, u.name as user_name, u.email as user_email").
		Joins("JOIN users u ON s.user_id = u.id").
		Where("s.quiz_id = ? AND s.deleted_at IS NULL", quizID)

	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.Add(24 * time.Hour)
		query = query.Where("s.submitted_at >= ? AND s.submitted_at < ?", start, end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []map[string]interface{}
	offset := (page - 1) * limit
	err := query.Order("s.submitted_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}

func (r *DailyQuizRepository) FindSubmissionByID(id string) (*model.DailyQuizSubmission, []model.DailyQuizAnswer, error) {
	var submission model.DailyQuizSubmission
	if err := r.DB.First(&submission, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}

	var answers []model.DailyQuizAnswer
	err := r.DB.Where("submission_id = ?", id).Find(&answers).Error
	return &submission, answers, err
}

func (r *DailyQuizRepository) FindSubmissionByUserAndQuiz(userID uint, quizID string) (*model.DailyQuizSubmission, error) {
	var submission model.DailyQuizSubmission
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}
