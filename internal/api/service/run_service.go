package service

import (
	"errors"
	"fmt"

	"mediaflow"
	"mediaflow/internal/api/models"
	"mediaflow/internal/api/repo"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	DefaultRunLimit = 20
	MaxRunLimit     = 100
)

var (
	ErrRunHistoryDisabled = errors.New("run history requires a database")
	ErrRunNotFound        = errors.New("run not found")
)

// RunReader reads recorded run summaries.
type RunReader interface {
	FindByRunID(runID string) (models.RunRecord, error)
	FindRecent(owner string, limit int) ([]models.RunRecord, error)
}

type RunService struct {
	runs   RunReader
	logger zerolog.Logger
}

// NewRunService accepts a nil reader, in which case every lookup fails with
// ErrRunHistoryDisabled.
func NewRunService(runs RunReader, logger zerolog.Logger) *RunService {
	return &RunService{runs: runs, logger: logger}
}

func NewRunServiceFromConfig() *RunService {
	if mediaflow.DB == nil {
		return NewRunService(nil, mediaflow.Logger)
	}
	return NewRunService(repo.NewRunRepository(mediaflow.DB), mediaflow.Logger)
}

// Recent lists the latest runs of owner. limit is clamped to [1, MaxRunLimit].
func (slf *RunService) Recent(owner string, limit int) ([]models.RunRecord, error) {
	if slf.runs == nil {
		return nil, ErrRunHistoryDisabled
	}
	switch {
	case limit <= 0:
		limit = DefaultRunLimit
	case limit > MaxRunLimit:
		limit = MaxRunLimit
	}

	runs, err := slf.runs.FindRecent(ownerOrDefault(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Find returns the run with the given id. Runs of other owners are reported
// as missing.
func (slf *RunService) Find(owner, runID string) (models.RunRecord, error) {
	if slf.runs == nil {
		return models.RunRecord{}, ErrRunHistoryDisabled
	}

	run, err := slf.runs.FindByRunID(runID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return models.RunRecord{}, fmt.Errorf("loading run %s: %w", runID, err)
	}
	if run.Owner != ownerOrDefault(owner) {
		slf.logger.Debug().Str("runId", runID).Str("owner", owner).Msg("run belongs to another owner")
		return models.RunRecord{}, ErrRunNotFound
	}
	return run, nil
}
