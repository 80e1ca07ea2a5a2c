package service

import (
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/repository"
	"time"
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	TestRepo     *repository.ChapterTestRepository
	PracticeRepo *repository.PracticeRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	testRepo *repository.ChapterTestRepository,
	practiceRepo *repository.PracticeRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		TestRepo:     testRepo,
		PracticeRepo: practiceRepo,
	}
}

// startOfDay 服务器时区的当天零点，Truncate按UTC截断会错位
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AdminDashboard 管理后台总览
type AdminDashboard struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalCourses      int64   `json:"totalCourses"`
	TotalTests        int64   `json:"totalTests"`
	AttemptsToday     int64   `json:"attemptsToday"`
	CompletedAttempts int64   `json:"completedAttempts"`
	AverageScore      float64 `json:"averageScore"`
	ActiveUsersToday  int64   `json:"activeUsersToday"`
}

func (s *DashboardService) GetAdminDashboard() (*AdminDashboard, error) {
	dash := &AdminDashboard{}

	var err error
	if dash.TotalUsers, err = s.UserRepo.Count(); err != nil {
		return nil, err
	}
	if dash.TotalCourses, err = s.CourseRepo.Count(); err != nil {
		return nil, err
	}

	db := s.TestRepo.DB
	if err := db.Model(&model.ChapterTest{}).Count(&dash.TotalTests).Error; err != nil {
		return nil, err
	}

	todayStart := startOfDay(time.Now())
	if err := db.Model(&model.TestAttempt{}).
		Where("started_at >= ?", todayStart).
		Count(&dash.AttemptsToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.TestAttempt{}).
		Where("status = ?", model.AttemptCompleted).
		Count(&dash.CompletedAttempts).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := db.Model(&model.TestAttempt{}).
		Where("status = ?", model.AttemptCompleted).
		Select("AVG(percentage)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		dash.AverageScore = *avg
	}

	if err := s.UserRepo.DB.Model(&model.User{}).
		Where("last_seen >= ?", todayStart).
		Count(&dash.ActiveUsersToday).Error; err != nil {
		return nil, err
	}

	return dash, nil
}

// StudentDashboard 学生个人学习概览
type StudentDashboard struct {
	CompletedTests int64               `json:"completedTests"`
	AverageScore   float64             `json:"averageScore"`
	PassedProblems int64               `json:"passedProblems"`
	RecentAttempts []model.TestAttempt `json:"recentAttempts"`
}

func (s *DashboardService) GetStudentDashboard(userID uint) (*StudentDashboard, error) {
	dash := &StudentDashboard{}

	db := s.TestRepo.DB
	if err := db.Model(&model.TestAttempt{}).
		Where("user_id = ? AND status = ?", userID, model.AttemptCompleted).
		Count(&dash.CompletedTests).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := db.Model(&model.TestAttempt{}).
		Where("user_id = ? AND status = ?", userID, model.AttemptCompleted).
		Select("AVG(percentage)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		dash.AverageScore = *avg
	}

	passed, err := s.PracticeRepo.CountPassedByUser(userID)
	if err != nil {
		return nil, err
	}
	dash.PassedProblems = passed

	if err := db.Where("user_id = ?", userID).
		Order("started_at desc").
		Limit(5).
		Find(&dash.RecentAttempts).Error; err != nil {
		return nil, err
	}

	return dash, nil
}
