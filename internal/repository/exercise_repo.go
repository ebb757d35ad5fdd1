package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/models"
)

// ExerciseFilter narrows exercise queries.
type ExerciseFilter struct {
	PublishedOnly bool
}

// ExerciseRepository defines data operations for exercises and their
// criteria.
type ExerciseRepository interface {
	List(ctx context.Context, filter ExerciseFilter) ([]models.Exercise, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uint) (models.Exercise, error)
	Create(ctx context.Context, exercise *models.Exercise) error
	Update(ctx context.Context, exercise *models.Exercise) error
	Delete(ctx context.Context, id uint) error
	ReplaceCriteria(ctx context.Context, exerciseID uint, criteria []models.Criterion) error
}

type exerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository instantiates the repository.
func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Exercise{}).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *exerciseRepository) List(ctx context.Context, filter ExerciseFilter) ([]models.Exercise, error) {
	query := r.baseQuery(ctx)

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var exercises []models.Exercise
	if err := query.Order("created_at DESC").Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *exerciseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Exercise{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uint) (models.Exercise, error) {
	var exercise models.Exercise
	if err := r.baseQuery(ctx).First(&exercise, id).Error; err != nil {
		return models.Exercise{}, err
	}
	return exercise, nil
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *models.Exercise) error {
	return r.db.WithContext(ctx).Create(exercise).Error
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *models.Exercise) error {
	return r.db.WithContext(ctx).Omit("Criteria").Save(exercise).Error
}

// Delete removes the exercise; criteria, submissions and their grades go
// with it through the cascade constraints.
func (r *exerciseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Exercise{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceCriteria swaps the exercise's criterion set wholesale. The delete
// and reinsert run in one transaction so no reader ever observes an
// exercise with a partially written rubric.
func (r *exerciseRepository) ReplaceCriteria(ctx context.Context, exerciseID uint, criteria []models.Criterion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", exerciseID).Delete(&models.Criterion{}).Error; err != nil {
			return err
		}

		if len(criteria) == 0 {
			return nil
		}

		for i := range criteria {
			criteria[i].ID = 0
			criteria[i].ExerciseID = exerciseID
			criteria[i].Position = i
		}
		return tx.Create(&criteria).Error
	})
}
