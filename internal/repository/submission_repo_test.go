package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/models"
)

func seedSubmissionFixture(t *testing.T, db *gorm.DB) (models.Exercise, models.User) {
	t.Helper()

	student := models.User{FullName: "Ada Student", Email: "ada@example.com", Role: models.RoleStudent}
	require.NoError(t, student.SetPassword("hunter22"))
	require.NoError(t, db.Create(&student).Error)

	exercise := models.Exercise{Title: "FizzBuzz", Difficulty: models.DifficultyEasy, IsPublished: true}
	require.NoError(t, db.Create(&exercise).Error)
	require.NoError(t, db.Create(&[]models.Criterion{
		{ExerciseID: exercise.ID, Label: "Correctness", MaxPoints: 10, Position: 0},
		{ExerciseID: exercise.ID, Label: "Style", MaxPoints: 5, Position: 1},
	}).Error)

	return exercise, student
}

func TestSubmissionRepositoryUniquePairLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exercise, student := seedSubmissionFixture(t, db)

	_, err := repo.GetByExerciseAndStudent(context.Background(), exercise.ID, student.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	submission := models.Submission{
		ExerciseID:  exercise.ID,
		StudentID:   student.ID,
		MainCode:    "fun main() {}",
		Status:      models.SubmissionStatusPending,
		SubmittedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), &submission))

	found, err := repo.GetByExerciseAndStudent(context.Background(), exercise.ID, student.ID)
	require.NoError(t, err)
	require.Equal(t, submission.ID, found.ID)
	require.Equal(t, "FizzBuzz", found.Exercise.Title)
	require.Len(t, found.Exercise.Criteria, 2)
	require.Equal(t, "Ada Student", found.Student.FullName)
}

func TestSubmissionRepositoryResubmitRemovesStaleGrade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exercise, student := seedSubmissionFixture(t, db)

	submission := models.Submission{
		ExerciseID:  exercise.ID,
		StudentID:   student.ID,
		MainCode:    "fun main() {}",
		Status:      models.SubmissionStatusGraded,
		SubmittedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), &submission))

	var criteria []models.Criterion
	require.NoError(t, db.Where("exercise_id = ?", exercise.ID).Order("position ASC").Find(&criteria).Error)

	grade := models.Grade{SubmissionID: submission.ID, GradedBy: 1, TotalScore: 12, GradedAt: time.Now()}
	require.NoError(t, db.Create(&grade).Error)
	require.NoError(t, db.Create(&[]models.CriterionGrade{
		{GradeID: grade.ID, CriterionID: criteria[0].ID, Points: 8},
		{GradeID: grade.ID, CriterionID: criteria[1].ID, Points: 4},
	}).Error)

	submission.MainCode = "fun main() { println(\"v2\") }"
	submission.Status = models.SubmissionStatusPending
	submission.SubmittedAt = time.Now()
	require.NoError(t, repo.Resubmit(context.Background(), &submission))

	reloaded, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusPending, reloaded.Status)
	require.Nil(t, reloaded.Grade)

	var gradeCount, lineCount int64
	require.NoError(t, db.Model(&models.Grade{}).Where("submission_id = ?", submission.ID).Count(&gradeCount).Error)
	require.NoError(t, db.Model(&models.CriterionGrade{}).Where("grade_id = ?", grade.ID).Count(&lineCount).Error)
	require.Equal(t, int64(0), gradeCount)
	require.Equal(t, int64(0), lineCount)
}

func TestSubmissionRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exercise, student := seedSubmissionFixture(t, db)

	other := models.User{FullName: "Ben Student", Email: "ben@example.com", Role: models.RoleStudent}
	require.NoError(t, other.SetPassword("hunter22"))
	require.NoError(t, db.Create(&other).Error)

	first := models.Submission{ExerciseID: exercise.ID, StudentID: student.ID, MainCode: "a", Status: models.SubmissionStatusPending, SubmittedAt: time.Now().Add(-time.Hour)}
	second := models.Submission{ExerciseID: exercise.ID, StudentID: other.ID, MainCode: "b", Status: models.SubmissionStatusGraded, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &first))
	require.NoError(t, repo.Create(context.Background(), &second))

	all, err := repo.List(context.Background(), SubmissionFilter{ExerciseID: &exercise.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID, "expected newest submission first")

	graded := models.SubmissionStatusGraded
	filtered, err := repo.List(context.Background(), SubmissionFilter{Status: &graded})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, other.ID, filtered[0].StudentID)

	limited, err := repo.List(context.Background(), SubmissionFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, second.ID, limited[0].ID)
}

func TestSubmissionRepositoryCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exercise, student := seedSubmissionFixture(t, db)

	other := models.User{FullName: "Ben Student", Email: "ben@example.com", Role: models.RoleStudent}
	require.NoError(t, other.SetPassword("hunter22"))
	require.NoError(t, db.Create(&other).Error)

	pending := models.Submission{ExerciseID: exercise.ID, StudentID: student.ID, MainCode: "a", Status: models.SubmissionStatusPending, SubmittedAt: time.Now()}
	gradedSub := models.Submission{ExerciseID: exercise.ID, StudentID: other.ID, MainCode: "b", Status: models.SubmissionStatusGraded, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &pending))
	require.NoError(t, repo.Create(context.Background(), &gradedSub))

	total, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	gradedStatus := models.SubmissionStatusGraded
	graded, err := repo.Count(context.Background(), &gradedStatus)
	require.NoError(t, err)
	require.Equal(t, int64(1), graded)
}
