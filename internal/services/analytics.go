package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mentara/apiserver/types"
)

// GradeRepository defines persistence operations for grades and
// assignments.
type GradeRepository interface {
	ListByStudent(ctx context.Context, studentID int) ([]types.Grade, error)
	Create(ctx context.Context, grade types.Grade) (types.Grade, error)
	ClassAverage(ctx context.Context, classID int) (int, float64, error)
	ListAssignmentsByClass(ctx context.Context, classID int) ([]types.Assignment, error)
	CreateAssignment(ctx context.Context, a types.Assignment) (types.Assignment, error)
}

// ClassRepository defines read operations for classes and subjects.
type ClassRepository interface {
	Get(ctx context.Context, id int) (types.Class, error)
	List(ctx context.Context) ([]types.Class, error)
	ListByTeacher(ctx context.Context, teacherID int) ([]types.Class, error)
	ListSubjects(ctx context.Context) ([]types.Subject, error)
}

// StudentDirectory resolves a student row to its account.
type StudentDirectory interface {
	GetByID(ctx context.Context, id int) (types.Student, error)
}

// Notifier delivers a notification to an account.
type Notifier interface {
	Notify(ctx context.Context, accountID int, title, body string) (types.Notification, error)
}

// AnalyticsService aggregates grades into the dashboard views and
// notifies students when new grades land.
type AnalyticsService struct {
	grades   GradeRepository
	classes  ClassRepository
	students StudentDirectory
	notifier Notifier
}

// NewAnalyticsService constructs the service. notifier may be nil when
// grade notifications are disabled.
func NewAnalyticsService(grades GradeRepository, classes ClassRepository, students StudentDirectory, notifier Notifier) *AnalyticsService {
	return &AnalyticsService{
		grades:   grades,
		classes:  classes,
		students: students,
		notifier: notifier,
	}
}

// StudentReport computes the per-subject averages and the overall mean
// for one student.
func (s *AnalyticsService) StudentReport(ctx context.Context, studentID int) (types.StudentReport, error) {
	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return types.StudentReport{}, fmt.Errorf("load grades: %w", err)
	}

	type bucket struct {
		name  string
		sum   float64
		count int
	}
	buckets := make(map[int]*bucket)
	order := make([]int, 0)
	var total float64
	for _, grade := range grades {
		b, ok := buckets[grade.SubjectID]
		if !ok {
			b = &bucket{name: grade.SubjectName}
			buckets[grade.SubjectID] = b
			order = append(order, grade.SubjectID)
		}
		b.sum += grade.Score
		b.count++
		total += grade.Score
	}

	report := types.StudentReport{StudentID: studentID}
	for _, subjectID := range order {
		b := buckets[subjectID]
		report.Subjects = append(report.Subjects, types.SubjectSummary{
			SubjectID:   subjectID,
			SubjectName: b.name,
			Average:     b.sum / float64(b.count),
			Count:       b.count,
		})
	}
	if len(grades) > 0 {
		report.Overall = total / float64(len(grades))
	}
	return report, nil
}

// ClassOverview is the teacher-facing summary for one class.
func (s *AnalyticsService) ClassOverview(ctx context.Context, classID int) (types.ClassOverview, error) {
	if _, err := s.classes.Get(ctx, classID); err != nil {
		return types.ClassOverview{}, err
	}
	count, average, err := s.grades.ClassAverage(ctx, classID)
	if err != nil {
		return types.ClassOverview{}, err
	}
	return types.ClassOverview{
		ClassID:      classID,
		StudentCount: count,
		Average:      average,
	}, nil
}

// RecordGrade stores the grade and notifies the graded student. The
// notification is best-effort: a failure is logged, the grade stands.
func (s *AnalyticsService) RecordGrade(ctx context.Context, grade types.Grade) (types.Grade, error) {
	created, err := s.grades.Create(ctx, grade)
	if err != nil {
		return types.Grade{}, err
	}
	s.notifyGrade(ctx, created)
	return created, nil
}

func (s *AnalyticsService) notifyGrade(ctx context.Context, grade types.Grade) {
	if s.notifier == nil {
		return
	}
	student, err := s.students.GetByID(ctx, grade.StudentID)
	if err != nil {
		log.Printf("grade %d: resolve student %d: %v", grade.ID, grade.StudentID, err)
		return
	}
	body := fmt.Sprintf("A new grade of %g was recorded for you.", grade.Score)
	if grade.SubjectName != "" {
		body = fmt.Sprintf("A new grade of %g was recorded for %s.", grade.Score, grade.SubjectName)
	}
	if _, err := s.notifier.Notify(ctx, student.AccountID, "New grade", body); err != nil {
		log.Printf("grade %d: notify account %d: %v", grade.ID, student.AccountID, err)
	}
}

func (s *AnalyticsService) ListClasses(ctx context.Context) ([]types.Class, error) {
	return s.classes.List(ctx)
}

func (s *AnalyticsService) ClassAssignments(ctx context.Context, classID int) ([]types.Assignment, error) {
	return s.grades.ListAssignmentsByClass(ctx, classID)
}

func (s *AnalyticsService) CreateAssignment(ctx context.Context, a types.Assignment) (types.Assignment, error) {
	return s.grades.CreateAssignment(ctx, a)
}
