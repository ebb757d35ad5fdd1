package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/models"
)

// GradeRepository defines data operations for grades and their criterion
// grades.
type GradeRepository interface {
	GetBySubmission(ctx context.Context, submissionID uint) (models.Grade, error)
	Save(ctx context.Context, grade *models.Grade, lines []models.CriterionGrade) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) GetBySubmission(ctx context.Context, submissionID uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).
		Preload("CriterionGrades").
		Where("submission_id = ?", submissionID).
		First(&grade).Error; err != nil {
		return models.Grade{}, err
	}
	return grade, nil
}

// Save upserts the single grade for a submission, replaces its criterion
// grades wholesale and marks the submission graded, all in one transaction.
// A failure at any step leaves the previous grade intact, so retrying is
// idempotent rather than additive.
func (r *gradeRepository) Save(ctx context.Context, grade *models.Grade, lines []models.CriterionGrade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Grade
		err := tx.Where("submission_id = ?", grade.SubmissionID).First(&existing).Error
		switch {
		case err == nil:
			grade.ID = existing.ID
			grade.CreatedAt = existing.CreatedAt
			if err := tx.Omit("CriterionGrades").Save(grade).Error; err != nil {
				return err
			}
			if err := tx.Where("grade_id = ?", grade.ID).Delete(&models.CriterionGrade{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("CriterionGrades").Create(grade).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if len(lines) > 0 {
			for i := range lines {
				lines[i].ID = 0
				lines[i].GradeID = grade.ID
			}
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Submission{}).
			Where("id = ?", grade.SubmissionID).
			Update("status", models.SubmissionStatusGraded).
			Error
	})
}
