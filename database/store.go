package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/kofimuad/galamsay-analysis/models"
)

// Store wraps all persistence for analysis runs. Lookups that target a single
// record return gorm.ErrRecordNotFound when nothing matches; collection
// lookups return empty slices.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveRun persists a run together with its city snapshots in a single
// transaction. On error nothing is written.
func (s *Store) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
}

// LatestRun returns the most recent run with its city snapshots loaded. Ties
// on created_at go to the higher id.
func (s *Store) LatestRun(ctx context.Context) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := s.db.WithContext(ctx).
		Preload("CityData").
		Preload("CitiesExceeding").
		Order("created_at DESC, id DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	ensureChildren(&run)
	return &run, nil
}

// RunByID returns one run with its city snapshots loaded.
func (s *Store) RunByID(ctx context.Context, id uint) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := s.db.WithContext(ctx).
		Preload("CityData").
		Preload("CitiesExceeding").
		First(&run, id).Error
	if err != nil {
		return nil, err
	}
	ensureChildren(&run)
	return &run, nil
}

// ensureChildren matters for runs with no rows: preload leaves absent
// associations nil, which would serialize as null instead of empty arrays.
func ensureChildren(run *models.AnalysisRun) {
	if run.CityData == nil {
		run.CityData = []models.CityData{}
	}
	if run.CitiesExceeding == nil {
		run.CitiesExceeding = []models.CityExceedsThreshold{}
	}
}

// ListRuns returns run summaries newest first. The city snapshots are only
// loaded for single-run lookups.
func (s *Store) ListRuns(ctx context.Context, offset, limit int) ([]models.AnalysisRunSummary, error) {
	runs := []models.AnalysisRunSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.AnalysisRun{}).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// CityByName returns the snapshot row for one city in the given run. The
// match is case-insensitive but otherwise exact.
func (s *Store) CityByName(ctx context.Context, runID uint, name string) (*models.CityData, error) {
	var row models.CityData
	err := s.db.WithContext(ctx).
		Where("analysis_run_id = ? AND LOWER(city) = LOWER(?)", runID, name).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CitiesByRegion returns the snapshot rows for one region in the given run,
// in insertion order. The region match is case-insensitive but otherwise
// exact.
func (s *Store) CitiesByRegion(ctx context.Context, runID uint, name string) ([]models.CityData, error) {
	rows := []models.CityData{}
	err := s.db.WithContext(ctx).
		Where("analysis_run_id = ? AND LOWER(region) = LOWER(?)", runID, name).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// CitiesExceeding returns the over-threshold rows for the given run in
// insertion order.
func (s *Store) CitiesExceeding(ctx context.Context, runID uint) ([]models.CityExceedsThreshold, error) {
	rows := []models.CityExceedsThreshold{}
	err := s.db.WithContext(ctx).
		Where("analysis_run_id = ?", runID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// DeleteRun removes a run and, through the cascade constraints, its city
// snapshots.
func (s *Store) DeleteRun(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.AnalysisRun{}, id).Error
}

// CountRuns reports how many runs have been recorded.
func (s *Store) CountRuns(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.AnalysisRun{}).Count(&n).Error
	return n, err
}

// Ping verifies the underlying connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
