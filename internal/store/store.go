package store

import (
	"gorm.io/gorm"

	"github.com/fitmotion/form-analyzer/internal/store/model"
)

type Store interface {
	Result() Result
	Migrate() error
	Close() error
}

type DataStore struct {
	db     *gorm.DB
	result Result
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:     db,
		result: NewResultStore(db),
	}
}

func (s *DataStore) Result() Result {
	return s.result
}

func (s *DataStore) Migrate() error {
	return s.db.AutoMigrate(&model.Result{})
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
