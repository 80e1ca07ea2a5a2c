package repository

import (
	"learnsphere_backend/internal/model"

	"gorm.io/gorm"
)

type ChapterTestRepository struct {
	DB *gorm.DB
}

func NewChapterTestRepository(db *gorm.DB) *ChapterTestRepository {
	return &ChapterTestRepository{DB: db}
}

func (r *ChapterTestRepository) CreateTest(test *model.ChapterTest) error {
	return r.DB.Create(test).Error
}

func (r *ChapterTestRepository) FindTestByID(id string) (*model.ChapterTest, error) {
	var test model.ChapterTest
	err := r.DB.First(&test, "id = ?", id).Error
	return &test, err
}

func (r *ChapterTestRepository) UpdateTest(test *model.ChapterTest) error {
	return r.DB.Save(test).Error
}

func (r *ChapterTestRepository) DeleteTest(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.ChapterTestQuestion{}).Error; err != nil {
			return err
		}
		var attemptIDs []string
		if err := tx.Model(&model.TestAttempt{}).Where("test_id = ?", id).Pluck("id", &attemptIDs).Error; err == nil && len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).Delete(&model.TestAttemptAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", id).Delete(&model.TestAttempt{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.ChapterTest{}, "id = ?", id).Error
	})
}

type ChapterTestListRow struct {
	model.ChapterTest
	QuestionCount  int `json:"questionCount"`
	CompletedCount int `json:"completedCount"`
}

func (r *ChapterTestRepository) ListTests(page, limit int) ([]ChapterTestListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.ChapterTest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tests []ChapterTestListRow
	query := r.DB.Table("chapter_tests t").
		Select("t.*, " +
			"(SELECT COUNT(*) FROM chapter_test_questions q WHERE q.test_id = t.id AND q.deleted_at IS NULL) as question_count, " +
			"(SELECT COUNT(*) FROM test_attempts a WHERE a.test_id = t.id AND a.deleted_at IS NULL AND a.status = 'completed') as completed_count").
		Where("t.deleted_at IS NULL")

	if limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("t.created_at desc").Scan(&tests).Error
	return tests, total, err
}

func (r *ChapterTestRepository) CreateQuestion(question *model.ChapterTestQuestion) error {
	return r.DB.Create(question).Error
}

func (r *ChapterTestRepository) FindQuestionByID(id string) (*model.ChapterTestQuestion, error) {
	var q model.ChapterTestQuestion
	err := r.DB.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *ChapterTestRepository) UpdateQuestion(question *model.ChapterTestQuestion) error {
	return r.DB.Save(question).Error
}

func (r *ChapterTestRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.ChapterTestQuestion{}, "id = ?", id).Error
}

func (r *ChapterTestRepository) ListQuestions(testID string) ([]model.ChapterTestQuestion, error) {
	var qs []model.ChapterTestQuestion
	err := r.DB.Where("test_id = ?", testID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

func (r *ChapterTestRepository) CreateAttempt(attempt *model.TestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *ChapterTestRepository) FindAttemptByID(id string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	return &attempt, err
}

func (r *ChapterTestRepository) UpdateAttempt(attempt *model.TestAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *ChapterTestRepository) DeleteAttempt(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attempt_id = ?", id).Delete(&model.TestAttemptAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TestAttempt{}, "id = ?", id).Error
	})
}

func (r *ChapterTestRepository) BatchDeleteAttempts(ids []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attempt_id IN ?", ids).Delete(&model.TestAttemptAnswer{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.TestAttempt{}).Error
	})
}

// SaveAnswer 写入单题作答记录；同一尝试同一题重复写入前由服务层拦截
func (r *ChapterTestRepository) SaveAnswer(answer *model.TestAttemptAnswer) error {
	return r.DB.Create(answer).Error
}

func (r *ChapterTestRepository) ListAnswers(attemptID string) ([]model.TestAttemptAnswer, error) {
	var answers []model.TestAttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("submitted_at asc").Find(&answers).Error
	return answers, err
}

// CompleteAttempt 原子地把进行中的尝试置为完成；已完成的行不会被再次更新
func (r *ChapterTestRepository) CompleteAttempt(attempt *model.TestAttempt) (bool, error) {
	res := r.DB.Model(&model.TestAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":          model.AttemptCompleted,
			"score":           attempt.Score,
			"total_questions": attempt.TotalQuestions,
			"percentage":      attempt.Percentage,
			"time_spent_sec":  attempt.TimeSpentSec,
			"completed_at":    attempt.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ChapterTestRepository) ListAttempts(testID string, page, limit int, studentName string) ([]map[string]interface{}, int64, error) {
	query := r.DB.Table("test_attempts a").
		Select("a.*, u.name as user_name, u.email as user_email").
		Joins("JOIN users u ON a.user_id = u.id").
		Where("a.test_id = ? AND a.deleted_at IS NULL", testID)

	if studentName != "" {
		query = query.Where("u.name LIKE ?", "%"+studentName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []map[string]interface{}
	offset := (page - 1) * limit
	err := query.Order("a.created_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}
