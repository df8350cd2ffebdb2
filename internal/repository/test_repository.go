package repository

import (
	"testwave_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) CreateTest(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindTestByID(id string) (*model.Test, error) {
	var test model.Test
	err := r.DB.First(&test, "id = ?", id).Error
	return &test, err
}

func (r *TestRepository) UpdateTest(test *model.Test) error {
	return r.DB.Save(test).Error
}

func (r *TestRepository) DeleteTest(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Test{}, "id = ?", id).Error
	})
}

type TestListRow struct {
	model.Test
	QuestionCount int `json:"questionCount"`
	ResultCount   int `json:"resultCount"`
}

func (r *TestRepository) ListTests(page, limit int) ([]TestListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Test{}).Where("deleted_at IS NULL").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tests []TestListRow
	dbQuery := r.DB.Table("tests t").
		Select("t.*, " +
			"(SELECT COUNT(*) FROM questions q WHERE q.test_id = t.id AND q.deleted_at IS NULL) as question_count, " +
			"(SELECT COUNT(*) FROM test_results res WHERE res.test_id = t.id AND res.deleted_at IS NULL) as result_count").
		Where("t.deleted_at IS NULL")

	if limit > 0 {
		offset := (page - 1) * limit
		dbQuery = dbQuery.Offset(offset).Limit(limit)
	}

	err := dbQuery.Order("t.created_at desc").Scan(&tests).Error
	return tests, total, err
}

func (r *TestRepository) ListPublishedTests() ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("is_published = ?", true).Order("created_at desc").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *TestRepository) FindQuestionByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *TestRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *TestRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.Question{}, "id = ?", id).Error
}

func (r *TestRepository) ListQuestions(testID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("test_id = ?", testID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}
