package service

import (
	"context"
	"encoding/json"
	"errors"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/repository"
	"learnsphere_backend/internal/session"
	"learnsphere_backend/internal/util"
	"learnsphere_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

type ChapterTestService struct {
	Repo     *repository.ChapterTestRepository
	Sessions session.Store
}

func NewChapterTestService(repo *repository.ChapterTestRepository, sessions session.Store) *ChapterTestService {
	return &ChapterTestService{Repo: repo, Sessions: sessions}
}

// StudentQuestion 下发给学生的题目，不包含正确答案和解析
type StudentQuestion struct {
	ID           string          `json:"id"`
	QuestionType string          `json:"questionType"`
	Content      string          `json:"content"`
	Options      json.RawMessage `json:"options,omitempty"`
	Order        int             `json:"order"`
}

// AttemptView 答题会话快照，导航和恢复时返回
type AttemptView struct {
	AttemptID       string            `json:"attemptId"`
	TestID          string            `json:"testId"`
	CurrentIndex    int               `json:"currentIndex"`
	CurrentQuestion string            `json:"currentQuestionId"`
	TotalQuestions  int               `json:"totalQuestions"`
	AnsweredIndices []int             `json:"answeredIndices"`
	Completed       bool              `json:"completed"`
	Feedback        *session.Feedback `json:"feedback,omitempty"` // 当前题已判分时回填
	Result          *session.Result   `json:"result,omitempty"`
	StartedAt       time.Time         `json:"startedAt"`
	ElapsedSec      int               `json:"elapsedSec"`
}

func buildAttemptView(s *session.TestSession, now time.Time) *AttemptView {
	view := &AttemptView{
		AttemptID:       s.AttemptID,
		TestID:          s.TestID,
		CurrentIndex:    s.CurrentIndex,
		CurrentQuestion: s.CurrentQuestionID(),
		TotalQuestions:  len(s.QuestionIDs),
		AnsweredIndices: s.AnsweredIndices(),
		Completed:       s.Completed,
		Result:          s.Result,
		StartedAt:       s.StartedAt,
		ElapsedSec:      s.ElapsedSeconds(now),
	}
	if fb, ok := s.FeedbackFor(s.CurrentQuestionID()); ok {
		view.Feedback = &fb
	}
	return view
}

func toStudentQuestions(qs []model.ChapterTestQuestion) []StudentQuestion {
	out := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		out[i] = StudentQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Content:      q.Content,
			Options:      q.Options,
			Order:        q.Order,
		}
	}
	return out
}

// loadOwnedAttempt 取回尝试记录并校验归属
func (s *ChapterTestService) loadOwnedAttempt(userID uint, attemptID string) (*model.TestAttempt, error) {
	attempt, err := s.Repo.FindAttemptByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

// StartAttempt 开始答题：建立尝试记录和答题会话，下发不含答案的题目序列
func (s *ChapterTestService) StartAttempt(ctx context.Context, userID uint, testID string) (*AttemptView, []StudentQuestion, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, nil, util.ErrTestNotFound
	}
	if !test.IsPublished {
		return nil, nil, util.ErrTestNotPublished
	}

	qs, err := s.Repo.ListQuestions(testID)
	if err != nil {
		return nil, nil, err
	}
	if len(qs) == 0 {
		return nil, nil, util.ErrTestNotPublished
	}

	now := time.Now()
	attempt := &model.TestAttempt{
		TestID:         testID,
		UserID:         userID,
		Status:         model.AttemptInProgress,
		TotalQuestions: len(qs),
		StartedAt:      now,
	}
	if err := s.Repo.CreateAttempt(attempt); err != nil {
		return nil, nil, err
	}

	questionIDs := make([]string, len(qs))
	for i, q := range qs {
		questionIDs[i] = q.ID
	}

	sess := session.NewTestSession(attempt.ID, testID, questionIDs, now)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, nil, err
	}

	monitoring.AttemptStarted.Inc()
	return buildAttemptView(sess, now), toStudentQuestions(qs), nil
}

// GetAttempt 恢复答题会话快照（页面刷新后重新拉取）
func (s *ChapterTestService) GetAttempt(ctx context.Context, userID uint, attemptID string) (*AttemptView, []StudentQuestion, error) {
	if _, err := s.loadOwnedAttempt(userID, attemptID); err != nil {
		return nil, nil, err
	}

	sess, err := s.Sessions.Load(ctx, attemptID)
	if err != nil {
		return nil, nil, util.ErrAttemptNotFound
	}

	qs, err := s.Repo.ListQuestions(sess.TestID)
	if err != nil {
		return nil, nil, err
	}
	return buildAttemptView(sess, time.Now()), toStudentQuestions(qs), nil
}

// SubmitAnswer 单题提交判分。对已判分题目的重复提交幂等返回已存反馈，
// 不会产生第二条作答记录，也不会影响最终得分。
func (s *ChapterTestService) SubmitAnswer(ctx context.Context, userID uint, attemptID, questionID, selectedAnswer string) (*session.Feedback, error) {
	if selectedAnswer == "" {
		return nil, util.ErrNoAnswerSelected
	}

	attempt, err := s.loadOwnedAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptCompleted {
		return nil, util.ErrAttemptCompleted
	}

	sess, err := s.Sessions.Load(ctx, attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}

	if fb, ok := sess.FeedbackFor(questionID); ok {
		return &fb, nil
	}

	question, err := s.Repo.FindQuestionByID(questionID)
	if err != nil || question.TestID != sess.TestID {
		return nil, util.ErrQuestionNotInAttempt
	}

	if err := sess.SelectAnswer(questionID, selectedAnswer); err != nil {
		return nil, err
	}

	correct := GradeObjective(question.QuestionType, question.Answer, selectedAnswer)

	// 先落库再写会话：落库失败时会话未推进，重试安全
	now := time.Now()
	if err := s.Repo.SaveAnswer(&model.TestAttemptAnswer{
		AttemptID:      attemptID,
		QuestionID:     questionID,
		SelectedAnswer: selectedAnswer,
		IsCorrect:      correct,
		SubmittedAt:    now,
	}); err != nil {
		return nil, err
	}

	fb, err := sess.RecordFeedback(session.Feedback{
		QuestionID:     questionID,
		Correct:        correct,
		CorrectAnswer:  question.Answer,
		Explanation:    question.Explanation,
		SelectedAnswer: selectedAnswer,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	if correct {
		monitoring.AnswerGraded.WithLabelValues("true").Inc()
	} else {
		monitoring.AnswerGraded.WithLabelValues("false").Inc()
	}
	return &fb, nil
}

// Navigate 题间导航；与完卷互相独立，最后一题上的 next 返回错误而不是完卷
func (s *ChapterTestService) Navigate(ctx context.Context, userID uint, attemptID, action string, index int) (*AttemptView, error) {
	if _, err := s.loadOwnedAttempt(userID, attemptID); err != nil {
		return nil, err
	}

	sess, err := s.Sessions.Load(ctx, attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}

	switch action {
	case "next":
		err = sess.Next()
	case "previous":
		err = sess.Previous()
	case "jump":
		err = sess.JumpTo(index)
	default:
		return nil, errors.New("unknown navigation action: " + action)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return buildAttemptView(sess, time.Now()), nil
}

// CompleteAttempt 完卷：要求每题都已判分；重复完卷返回 ErrAttemptCompleted，
// 由控制器映射为 409，不产生新的 Result。
func (s *ChapterTestService) CompleteAttempt(ctx context.Context, userID uint, attemptID string) (*session.Result, error) {
	attempt, err := s.loadOwnedAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptCompleted {
		return nil, util.ErrAttemptCompleted
	}

	sess, err := s.Sessions.Load(ctx, attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}

	now := time.Now()
	result, err := sess.Complete(now)
	if err == session.ErrNotAllAnswered {
		return nil, util.ErrAnswerSetIncomplete
	}
	if err == session.ErrCompleted {
		return nil, util.ErrAttemptCompleted
	}
	if err != nil {
		return nil, err
	}

	attempt.Score = result.Score
	attempt.TotalQuestions = result.Total
	attempt.Percentage = result.Percentage
	attempt.TimeSpentSec = result.TimeSpentSec
	attempt.CompletedAt = &now

	updated, err := s.Repo.CompleteAttempt(attempt)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 并发完卷竞争中落败的一方
		return nil, util.ErrAttemptCompleted
	}

	// 终态会话保留，便于结果页刷新后恢复
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	monitoring.AttemptCompleted.Inc()
	return &result, nil
}

// RetakeAttempt 重考：丢弃旧会话，建立全新的尝试记录和起始时间
func (s *ChapterTestService) RetakeAttempt(ctx context.Context, userID uint, attemptID string) (*AttemptView, []StudentQuestion, error) {
	old, err := s.loadOwnedAttempt(userID, attemptID)
	if err != nil {
		return nil, nil, err
	}

	_ = s.Sessions.Delete(ctx, attemptID)
	return s.StartAttempt(ctx, userID, old.TestID)
}

// ---- 教师端试卷管理 ----

type ChapterTestQuestionReq struct {
	ID           string          `json:"id"`
	QuestionType string          `json:"questionType" binding:"required"`
	Content      string          `json:"content" binding:"required"`
	Options      json.RawMessage `json:"options"`
	Answer       string          `json:"answer" binding:"required"`
	Explanation  string          `json:"explanation"`
	Points       int             `json:"points"`
	Order        int             `json:"order"`
}

type ChapterTestReq struct {
	Title       *string                   `json:"title"`
	Description *string                   `json:"description"`
	ChapterID   *uint                     `json:"chapterId"`
	IsPublished *bool                     `json:"isPublished"`
	Questions   *[]ChapterTestQuestionReq `json:"questions"`
}

func (s *ChapterTestService) CreateTest(creatorID uint, req ChapterTestReq) (*model.ChapterTest, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	test := &model.ChapterTest{
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.ChapterID != nil {
		test.ChapterID = *req.ChapterID
	}
	if req.IsPublished != nil {
		test.IsPublished = *req.IsPublished
		if test.IsPublished {
			now := time.Now()
			test.PublishedAt = &now
		}
	}

	if err := s.Repo.CreateTest(test); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		for _, qReq := range *req.Questions {
			q := &model.ChapterTestQuestion{
				TestID:       test.ID,
				QuestionType: qReq.QuestionType,
				Content:      qReq.Content,
				Options:      qReq.Options,
				Answer:       qReq.Answer,
				Explanation:  qReq.Explanation,
				Points:       qReq.Points,
				Order:        qReq.Order,
			}
			if err := s.Repo.CreateQuestion(q); err != nil {
				return nil, err
			}
		}
	}

	return test, nil
}

func (s *ChapterTestService) UpdateTest(testID string, req ChapterTestReq) (*model.ChapterTest, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}

	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.ChapterID != nil {
		test.ChapterID = *req.ChapterID
	}
	if req.IsPublished != nil {
		if *req.IsPublished && !test.IsPublished {
			now := time.Now()
			test.PublishedAt = &now
		}
		test.IsPublished = *req.IsPublished
	}

	if err := s.Repo.UpdateTest(test); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		existing, _ := s.Repo.ListQuestions(testID)
		existingMap := make(map[string]*model.ChapterTestQuestion)
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		kept := make(map[string]bool)
		for _, qReq := range *req.Questions {
			if qReq.ID != "" {
				if q, ok := existingMap[qReq.ID]; ok {
					q.QuestionType = qReq.QuestionType
					q.Content = qReq.Content
					q.Options = qReq.Options
					q.Answer = qReq.Answer
					q.Explanation = qReq.Explanation
					q.Points = qReq.Points
					q.Order = qReq.Order
					s.Repo.UpdateQuestion(q)
					kept[q.ID] = true
				}
			} else {
				s.Repo.CreateQuestion(&model.ChapterTestQuestion{
					TestID:       testID,
					QuestionType: qReq.QuestionType,
					Content:      qReq.Content,
					Options:      qReq.Options,
					Answer:       qReq.Answer,
					Explanation:  qReq.Explanation,
					Points:       qReq.Points,
					Order:        qReq.Order,
				})
			}
		}

		for id := range existingMap {
			if !kept[id] {
				s.Repo.DeleteQuestion(id)
			}
		}
	}

	return test, nil
}

func (s *ChapterTestService) DeleteTest(testID string) error {
	return s.Repo.DeleteTest(testID)
}

func (s *ChapterTestService) GetTest(testID string) (*model.ChapterTest, []model.ChapterTestQuestion, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, nil, util.ErrTestNotFound
	}
	qs, err := s.Repo.ListQuestions(testID)
	return test, qs, err
}

func (s *ChapterTestService) ListTests(page, limit int) ([]repository.ChapterTestListRow, int64, error) {
	return s.Repo.ListTests(page, limit)
}

func (s *ChapterTestService) ListAttempts(testID string, page, limit int, studentName string) ([]map[string]interface{}, int64, error) {
	return s.Repo.ListAttempts(testID, page, limit, studentName)
}

func (s *ChapterTestService) GetAttemptDetail(attemptID string) (map[string]interface{}, error) {
	attempt, err := s.Repo.FindAttemptByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	answers, err := s.Repo.ListAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	test, qs, err := s.GetTest(attempt.TestID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"attempt":   attempt,
		"answers":   answers,
		"test":      test,
		"questions": qs,
	}, nil
}

// ResetStudentAttempts 教师批量重置：删除尝试记录，允许学生重测
func (s *ChapterTestService) ResetStudentAttempts(ctx context.Context, attemptIDs []string) error {
	for _, id := range attemptIDs {
		_ = s.Sessions.Delete(ctx, id)
	}
	return s.Repo.BatchDeleteAttempts(attemptIDs)
}
