package repository

import (
	"testwave_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// SaveResult persists the result header and its per-question audit rows in
// one transaction so a half-written submission can never be read back.
func (r *ResultRepository) SaveResult(result *model.TestResult, rows []model.QuestionResult) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ResultID = result.ID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ResultRepository) FindByID(id string) (*model.TestResult, error) {
	var result model.TestResult
	err := r.DB.Preload("Results").First(&result, "id = ?", id).Error
	return &result, err
}

func (r *ResultRepository) ListByUser(userID uint, page, limit int) ([]model.TestResult, int64, error) {
	var total int64
	query := r.DB.Model(&model.TestResult{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []model.TestResult
	offset := (page - 1) * limit
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&results).Error
	return results, total, err
}

func (r *ResultRepository) ListByTest(testID string, page, limit int) ([]model.TestResult, int64, error) {
	var total int64
	query := r.DB.Model(&model.TestResult{}).Where("test_id = ?", testID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []model.TestResult
	offset := (page - 1) * limit
	err := r.DB.Preload("User").Where("test_id = ?", testID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&results).Error
	return results, total, err
}

func (r *ResultRepository) CountByUserAndTest(userID uint, testID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestResult{}).
		Where("user_id = ? AND test_id = ?", userID, testID).Count(&count).Error
	return count, err
}

// DeleteResult is admin housekeeping only; the engine itself never deletes.
func (r *ResultRepository) DeleteResult(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("result_id = ?", id).Delete(&model.QuestionResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TestResult{}, "id = ?", id).Error
	})
}
