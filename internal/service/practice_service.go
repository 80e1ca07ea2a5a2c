package service

import (
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/repository"
	"learnsphere_backend/internal/util"
	"time"
)

// PracticeService 编程练习题：学生在前端运行代码，提交运行输出按比对判定
type PracticeService struct {
	Repo *repository.PracticeRepository
}

func NewPracticeService(repo *repository.PracticeRepository) *PracticeService {
	return &PracticeService{Repo: repo}
}

func (s *PracticeService) ListProblems(page, limit int, difficulty, category string, publishedOnly bool) ([]model.PracticeProblem, int64, error) {
	return s.Repo.ListProblems(page, limit, difficulty, category, publishedOnly)
}

func (s *PracticeService) GetProblem(id uint) (*model.PracticeProblem, error) {
	problem, err := s.Repo.FindProblemByID(id)
	if err != nil {
		return nil, util.ErrProblemNotFound
	}
	return problem, nil
}

// SubmitSolution 比对提交的输出与期望输出，行尾空白和换行风格差异不影响判定
func (s *PracticeService) SubmitSolution(userID, problemID uint, code, output string) (*model.PracticeSubmission, error) {
	problem, err := s.Repo.FindProblemByID(problemID)
	if err != nil {
		return nil, util.ErrProblemNotFound
	}
	if !problem.IsPublished {
		return nil, util.ErrProblemNotFound
	}

	submission := &model.PracticeSubmission{
		ProblemID:   problemID,
		UserID:      userID,
		Code:        code,
		Output:      output,
		Passed:      GradeOutput(problem.ExpectedOutput, output),
		SubmittedAt: time.Now(),
	}
	if err := s.Repo.SaveSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// GetSubmissionHistory 学生在某题上的提交历史
func (s *PracticeService) GetSubmissionHistory(userID, problemID uint) ([]model.PracticeSubmission, error) {
	return s.Repo.ListSubmissionsByUser(userID, problemID)
}

// CountPassed 学生已通过的题目数（按题去重）
func (s *PracticeService) CountPassed(userID uint) (int64, error) {
	return s.Repo.CountPassedByUser(userID)
}

// ---- 教师端题目管理 ----

func (s *PracticeService) CreateProblem(problem *model.PracticeProblem) error {
	return s.Repo.CreateProblem(problem)
}

func (s *PracticeService) UpdateProblem(problem *model.PracticeProblem) error {
	existing, err := s.Repo.FindProblemByID(problem.ID)
	if err != nil {
		return util.ErrProblemNotFound
	}

	existing.Title = problem.Title
	existing.Description = problem.Description
	existing.Difficulty = problem.Difficulty
	existing.Category = problem.Category
	existing.StarterCode = problem.StarterCode
	if problem.ExpectedOutput != "" {
		existing.ExpectedOutput = problem.ExpectedOutput
	}
	existing.Order = problem.Order
	existing.IsPublished = problem.IsPublished

	return s.Repo.UpdateProblem(existing)
}

func (s *PracticeService) DeleteProblem(id uint) error {
	return s.Repo.DeleteProblem(id)
}
