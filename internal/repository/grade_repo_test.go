package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kodeclass/kodex-api/internal/models"
)

func TestGradeRepositorySaveUpserts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	submissions := NewSubmissionRepository(db)
	exercise, student := seedSubmissionFixture(t, db)

	var criteria []models.Criterion
	require.NoError(t, db.Where("exercise_id = ?", exercise.ID).Order("position ASC").Find(&criteria).Error)

	submission := models.Submission{
		ExerciseID:  exercise.ID,
		StudentID:   student.ID,
		MainCode:    "fun main() {}",
		Status:      models.SubmissionStatusPending,
		SubmittedAt: time.Now(),
	}
	require.NoError(t, submissions.Create(context.Background(), &submission))

	first := models.Grade{SubmissionID: submission.ID, GradedBy: 1, TotalScore: 8, Comment: "rough", GradedAt: time.Now()}
	require.NoError(t, repo.Save(context.Background(), &first, []models.CriterionGrade{
		{CriterionID: criteria[0].ID, Points: 5},
		{CriterionID: criteria[1].ID, Points: 3},
	}))

	graded, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	require.Equal(t, 8, graded.Grade.TotalScore)
	require.Len(t, graded.Grade.CriterionGrades, 2)

	// Re-grading updates the same row and replaces its lines.
	second := models.Grade{SubmissionID: submission.ID, GradedBy: 2, TotalScore: 13, Comment: "better", GradedAt: time.Now()}
	require.NoError(t, repo.Save(context.Background(), &second, []models.CriterionGrade{
		{CriterionID: criteria[0].ID, Points: 9},
		{CriterionID: criteria[1].ID, Points: 4},
	}))
	require.Equal(t, first.ID, second.ID)

	var gradeCount, lineCount int64
	require.NoError(t, db.Model(&models.Grade{}).Where("submission_id = ?", submission.ID).Count(&gradeCount).Error)
	require.NoError(t, db.Model(&models.CriterionGrade{}).Where("grade_id = ?", second.ID).Count(&lineCount).Error)
	require.Equal(t, int64(1), gradeCount)
	require.Equal(t, int64(2), lineCount)

	regraded, err := repo.GetBySubmission(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, 13, regraded.TotalScore)
	require.Equal(t, uint(2), regraded.GradedBy)
}
