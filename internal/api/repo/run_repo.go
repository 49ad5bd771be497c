package repo

import (
	"mediaflow/internal/api/models"

	"gorm.io/gorm"
)

type RunRepository struct {
	Db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{Db: db}
}

func (slf *RunRepository) Create(run *models.RunRecord) error {
	return slf.Db.Create(run).Error
}

// FindByRunID retrieves a run summary by its public id
func (slf *RunRepository) FindByRunID(runID string) (models.RunRecord, error) {
	var run models.RunRecord
	err := slf.Db.Where("run_id = ?", runID).First(&run).Error
	return run, err
}

// FindRecent returns the latest runs of owner, newest first
func (slf *RunRepository) FindRecent(owner string, limit int) ([]models.RunRecord, error) {
	var runs []models.RunRecord
	err := slf.Db.Where("owner = ?", owner).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
