package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries. A positive Limit
// caps the result set; zero means unbounded.
type SubmissionFilter struct {
	ExerciseID *uint
	StudentID  *uint
	Status     *string
	Limit      int
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	Count(ctx context.Context, status *string) (int64, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByExerciseAndStudent(ctx context.Context, exerciseID, studentID uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Resubmit(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Exercise").
		Preload("Exercise.Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Student").
		Preload("Grade").
		Preload("Grade.CriterionGrades")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.ExerciseID != nil {
		query = query.Where("exercise_id = ?", *filter.ExerciseID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) Count(ctx context.Context, status *string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

// GetByExerciseAndStudent resolves the unique submission for a pair. The
// composite unique index guarantees at most one row.
func (r *submissionRepository) GetByExerciseAndStudent(ctx context.Context, exerciseID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("exercise_id = ?", exerciseID).
		Where("student_id = ?", studentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// Resubmit updates the submission row in place and removes the stale grade
// and its criterion grades in the same transaction. A grade kept against
// replaced code would be meaningless.
func (r *submissionRepository) Resubmit(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Exercise", "Student", "Grade").Save(submission).Error; err != nil {
			return err
		}

		var stale models.Grade
		err := tx.Where("submission_id = ?", submission.ID).First(&stale).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("grade_id = ?", stale.ID).Delete(&models.CriterionGrade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&stale).Error
	})
}
