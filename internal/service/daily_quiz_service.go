package service

import (
	"errors"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/repository"
	"learnsphere_backend/internal/session"
	"learnsphere_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// DailyQuizService 每日一练：按难度取题、整卷提交，无逐题判分
type DailyQuizService struct {
	Repo *repository.DailyQuizRepository
}

func NewDailyQuizService(repo *repository.DailyQuizRepository) *DailyQuizService {
	return &DailyQuizService{Repo: repo}
}

// GetTodayQuiz 按难度取当日已发布的练习和题目
func (s *DailyQuizService) GetTodayQuiz(difficulty model.QuizDifficulty) (*model.DailyQuiz, []model.DailyQuizQuestion, error) {
	quiz, err := s.Repo.FindPublishedByDifficulty(difficulty, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}

	questions, err := s.Repo.ListQuestions(quiz.ID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

// submissionFinder 提交查重所需的最小仓储能力
type submissionFinder interface {
	FindSubmissionByUserAndQuiz(userID uint, quizID string) (*model.DailyQuizSubmission, error)
}

// findPriorSubmission 区分“无历史提交”与查询本身失败：
// 前者放行继续提交，后者必须中断，否则瞬时故障会导致重复落库
func findPriorSubmission(repo submissionFinder, userID uint, quizID string) (*model.DailyQuizSubmission, error) {
	existing, err := repo.FindSubmissionByUserAndQuiz(userID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// SubmitQuiz 整卷提交。提交前用状态机重放整个流程做校验：
// 难度和姓名必填，每题都要有非空答案，缺一题整卷拒绝、已填内容不丢。
func (s *DailyQuizService) SubmitQuiz(userID uint, quizID, studentName string, answers map[string]string) (*model.DailyQuizSubmission, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotFound
	}

	existing, err := findPriorSubmission(s.Repo, userID, quizID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	questions, err := s.Repo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]string, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	flow := session.NewQuizFlow()
	if err := flow.ChooseDifficulty(string(quiz.Difficulty), questionIDs); err != nil {
		return nil, err
	}
	if err := flow.EnterName(studentName); err != nil {
		return nil, err
	}
	for id, text := range answers {
		if err := flow.SetAnswer(id, text); err != nil {
			return nil, util.ErrQuestionNotInAttempt
		}
	}
	if err := flow.Submit(); err != nil {
		if err == session.ErrAnswersIncomplete {
			return nil, util.ErrAnswerSetIncomplete
		}
		return nil, err
	}

	submission := &model.DailyQuizSubmission{
		QuizID:      quizID,
		UserID:      userID,
		StudentName: studentName,
		SubmittedAt: time.Now(),
	}

	rows := make([]model.DailyQuizAnswer, 0, len(questionIDs))
	for _, id := range questionIDs {
		rows = append(rows, model.DailyQuizAnswer{
			QuestionID: id,
			AnswerText: flow.Answers[id],
		})
	}

	if err := s.Repo.SaveSubmission(submission, rows); err != nil {
		return nil, err
	}
	return submission, nil
}

// ---- 教师端练习管理 ----

type DailyQuizQuestionReq struct {
	ID      string `json:"id"`
	Content string `json:"content" binding:"required"`
	Order   int    `json:"order"`
}

type DailyQuizReq struct {
	Title       *string                 `json:"title"`
	Difficulty  *model.QuizDifficulty   `json:"difficulty"`
	QuizDate    *time.Time              `json:"quizDate"`
	IsPublished *bool                   `json:"isPublished"`
	Questions   *[]DailyQuizQuestionReq `json:"questions"`
}

func (s *DailyQuizService) CreateQuiz(creatorID uint, req DailyQuizReq) (*model.DailyQuiz, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	quiz := &model.DailyQuiz{
		Title:     *req.Title,
		CreatorID: creatorID,
		QuizDate:  time.Now(),
	}
	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.QuizDate != nil {
		quiz.QuizDate = *req.QuizDate
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	if err := s.Repo.CreateQuiz(quiz); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		for _, qReq := range *req.Questions {
			q := &model.DailyQuizQuestion{
				QuizID:  quiz.ID,
				Content: qReq.Content,
				Order:   qReq.Order,
			}
			if err := s.Repo.CreateQuestion(q); err != nil {
				return nil, err
			}
		}
	}
	return quiz, nil
}

func (s *DailyQuizService) UpdateQuiz(quizID string, req DailyQuizReq) (*model.DailyQuiz, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.QuizDate != nil {
		quiz.QuizDate = *req.QuizDate
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	if err := s.Repo.UpdateQuiz(quiz); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		existing, _ := s.Repo.ListQuestions(quizID)
		existingMap := make(map[string]*model.DailyQuizQuestion)
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		kept := make(map[string]bool)
		for _, qReq := range *req.Questions {
			if qReq.ID != "" {
				if q, ok := existingMap[qReq.ID]; ok {
					q.Content = qReq.Content
					q.Order = qReq.Order
					s.Repo.UpdateQuestion(q)
					kept[q.ID] = true
				}
			} else {
				s.Repo.CreateQuestion(&model.DailyQuizQuestion{
					QuizID:  quizID,
					Content: qReq.Content,
					Order:   qReq.Order,
				})
			}
		}
		for id := range existingMap {
			if !kept[id] {
				s.Repo.DeleteQuestion(id)
			}
		}
	}
	return quiz, nil
}

func (s *DailyQuizService) DeleteQuiz(quizID string) error {
	return s.Repo.DeleteQuiz(quizID)
}

func (s *DailyQuizService) GetQuiz(quizID string) (*model.DailyQuiz, []model.DailyQuizQuestion, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, nil, util.ErrQuizNotFound
	}
	questions, err := s.Repo.ListQuestions(quizID)
	return quiz, questions, err
}

func (s *DailyQuizService) ListQuizzes(page, limit int) ([]model.DailyQuiz, int64, error) {
	return s.Repo.ListQuizzes(page, limit)
}

// ListSubmissions 教师查看提交列表，可按日期过滤
func (s *DailyQuizService) ListSubmissions(quizID string, day *time.Time, page, limit int) ([]map[string]interface{}, int64, error) {
	return s.Repo.ListSubmissions(quizID, day, page, limit)
}

// GetSubmissionDetail 单份提交的题目和答案对照
func (s *DailyQuizService) GetSubmissionDetail(submissionID string) (map[string]interface{}, error) {
	submission, answers, err := s.Repo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	_, questions, err := s.GetQuiz(submission.QuizID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"submission": submission,
		"answers":    answers,
		"questions":  questions,
	}, nil
}
