package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitmotion/form-analyzer/internal/store/model"
)

// Result interface for analysis-report database operations.
type Result interface {
	Upsert(ctx context.Context, result model.Result) (*model.Result, error)
	Get(ctx context.Context, jobID string) (*model.Result, error)
	List(ctx context.Context, limit int) (model.ResultList, error)
	Delete(ctx context.Context, jobID string) error
}

// ResultStore implements the Result interface.
type ResultStore struct {
	db *gorm.DB
}

// Make sure we conform to Result interface
var _ Result = (*ResultStore)(nil)

func NewResultStore(db *gorm.DB) Result {
	return &ResultStore{db: db}
}

// Upsert writes the record for a job id, fully overwriting any prior
// record for the same id. No merge, no versioning.
func (s *ResultStore) Upsert(ctx context.Context, result model.Result) (*model.Result, error) {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"video_reference", "status", "activity", "is_correct", "error", "report", "updated_at",
		}),
	}).Create(&result).Error; err != nil {
		return nil, fmt.Errorf("upserting result: %w", err)
	}
	return &result, nil
}

func (s *ResultStore) Get(ctx context.Context, jobID string) (*model.Result, error) {
	var result model.Result
	if err := s.db.WithContext(ctx).First(&result, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying result: %w", err)
	}
	return &result, nil
}

func (s *ResultStore) List(ctx context.Context, limit int) (model.ResultList, error) {
	var results model.ResultList
	tx := s.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	return results, nil
}

func (s *ResultStore) Delete(ctx context.Context, jobID string) error {
	result := s.db.WithContext(ctx).Delete(&model.Result{}, "job_id = ?", jobID)
	if result.Error != nil {
		return fmt.Errorf("deleting result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
