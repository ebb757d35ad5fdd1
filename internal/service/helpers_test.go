package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.nextID++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uint, role string) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	f.users[id] = user
	return nil
}

type fakeExerciseRepo struct {
	exercises map[uint]models.Exercise
	nextID    uint
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[uint]models.Exercise{}, nextID: 1}
}

func (f *fakeExerciseRepo) List(ctx context.Context, filter repository.ExerciseFilter) ([]models.Exercise, error) {
	exercises := make([]models.Exercise, 0, len(f.exercises))
	for _, exercise := range f.exercises {
		if filter.PublishedOnly && !exercise.IsPublished {
			continue
		}
		exercises = append(exercises, exercise)
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].ID > exercises[j].ID })
	return exercises, nil
}

func (f *fakeExerciseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.exercises)), nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id uint) (models.Exercise, error) {
	exercise, ok := f.exercises[id]
	if !ok {
		return models.Exercise{}, gorm.ErrRecordNotFound
	}
	return exercise, nil
}

func (f *fakeExerciseRepo) Create(ctx context.Context, exercise *models.Exercise) error {
	exercise.ID = f.nextID
	f.nextID++
	f.exercises[exercise.ID] = *exercise
	return nil
}

func (f *fakeExerciseRepo) Update(ctx context.Context, exercise *models.Exercise) error {
	if _, ok := f.exercises[exercise.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	existing := f.exercises[exercise.ID]
	updated := *exercise
	updated.Criteria = existing.Criteria
	f.exercises[exercise.ID] = updated
	return nil
}

func (f *fakeExerciseRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.exercises[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.exercises, id)
	return nil
}

func (f *fakeExerciseRepo) ReplaceCriteria(ctx context.Context, exerciseID uint, criteria []models.Criterion) error {
	exercise, ok := f.exercises[exerciseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	replaced := make([]models.Criterion, 0, len(criteria))
	for i, criterion := range criteria {
		criterion.ID = f.nextID
		f.nextID++
		criterion.ExerciseID = exerciseID
		criterion.Position = i
		replaced = append(replaced, criterion)
	}
	exercise.Criteria = replaced
	f.exercises[exerciseID] = exercise
	return nil
}

type fakeSubmissionRepo struct {
	exercises   *fakeExerciseRepo
	submissions map[uint]models.Submission
	nextID      uint
}

func newFakeSubmissionRepo(exercises *fakeExerciseRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		exercises:   exercises,
		submissions: map[uint]models.Submission{},
		nextID:      1,
	}
}

// hydrate joins the exercise the way the real repository preloads it.
func (f *fakeSubmissionRepo) hydrate(submission models.Submission) models.Submission {
	if f.exercises != nil {
		if exercise, ok := f.exercises.exercises[submission.ExerciseID]; ok {
			submission.Exercise = exercise
		}
	}
	return submission
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0, len(f.submissions))
	for _, submission := range f.submissions {
		if filter.ExerciseID != nil && submission.ExerciseID != *filter.ExerciseID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		submissions = append(submissions, f.hydrate(submission))
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})
	if filter.Limit > 0 && len(submissions) > filter.Limit {
		submissions = submissions[:filter.Limit]
	}
	return submissions, nil
}

func (f *fakeSubmissionRepo) Count(ctx context.Context, status *string) (int64, error) {
	var count int64
	for _, submission := range f.submissions {
		if status != nil && submission.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return f.hydrate(submission), nil
}

func (f *fakeSubmissionRepo) GetByExerciseAndStudent(ctx context.Context, exerciseID, studentID uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.ExerciseID == exerciseID && submission.StudentID == studentID {
			return f.hydrate(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = f.nextID
	f.nextID++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Resubmit(ctx context.Context, submission *models.Submission) error {
	if _, ok := f.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *submission
	updated.Grade = nil
	f.submissions[submission.ID] = updated
	return nil
}

type fakeGradeRepo struct {
	submissions *fakeSubmissionRepo
	saveCalls   int
	nextID      uint
}

func newFakeGradeRepo(submissions *fakeSubmissionRepo) *fakeGradeRepo {
	return &fakeGradeRepo{submissions: submissions, nextID: 1}
}

func (f *fakeGradeRepo) GetBySubmission(ctx context.Context, submissionID uint) (models.Grade, error) {
	submission, ok := f.submissions.submissions[submissionID]
	if !ok || submission.Grade == nil {
		return models.Grade{}, gorm.ErrRecordNotFound
	}
	return *submission.Grade, nil
}

func (f *fakeGradeRepo) Save(ctx context.Context, grade *models.Grade, lines []models.CriterionGrade) error {
	f.saveCalls++
	submission, ok := f.submissions.submissions[grade.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if submission.Grade != nil {
		grade.ID = submission.Grade.ID
	} else {
		grade.ID = f.nextID
		f.nextID++
	}
	for i := range lines {
		lines[i].GradeID = grade.ID
	}
	stored := *grade
	stored.CriterionGrades = lines
	submission.Grade = &stored
	submission.Status = models.SubmissionStatusGraded
	f.submissions.submissions[submission.ID] = submission
	return nil
}

type fakeAnnouncementRepo struct {
	items  map[uint]models.Announcement
	nextID uint
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{items: map[uint]models.Announcement{}, nextID: 1}
}

func (f *fakeAnnouncementRepo) List(ctx context.Context) ([]models.Announcement, error) {
	items := make([]models.Announcement, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (f *fakeAnnouncementRepo) GetByID(ctx context.Context, id uint) (models.Announcement, error) {
	item, ok := f.items[id]
	if !ok {
		return models.Announcement{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = f.nextID
	announcement.CreatedAt = time.Now()
	f.nextID++
	f.items[announcement.ID] = *announcement
	return nil
}

func (f *fakeAnnouncementRepo) Update(ctx context.Context, announcement *models.Announcement) error {
	if _, ok := f.items[announcement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[announcement.ID] = *announcement
	return nil
}

func (f *fakeAnnouncementRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}
