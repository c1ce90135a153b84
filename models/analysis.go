package models

import "time"

// RawRecord is one CSV row before validation. Every field arrives as a string.
type RawRecord struct {
	City   string
	Region string
	Sites  string
}

// CityData is a cleaned city row. The same shape is used in memory during
// analysis and as the persisted snapshot attached to an AnalysisRun.
type CityData struct {
	ID            uint   `json:"-" gorm:"primaryKey"`
	AnalysisRunID uint   `json:"-" gorm:"index;not null"`
	City          string `json:"city" gorm:"not null"`
	Region        string `json:"region" gorm:"not null"`
	Sites         int    `json:"galamsay_sites" gorm:"column:galamsay_sites;not null"`
	Flagged       bool   `json:"flagged"`
}

func (CityData) TableName() string { return "city_data" }

// CityExceedsThreshold is a city whose site count exceeded the reporting
// threshold at analysis time. Threshold records the value that was applied.
type CityExceedsThreshold struct {
	ID            uint   `json:"-" gorm:"primaryKey"`
	AnalysisRunID uint   `json:"-" gorm:"index;not null"`
	City          string `json:"city" gorm:"not null"`
	Region        string `json:"region" gorm:"not null"`
	Sites         int    `json:"galamsay_sites" gorm:"column:galamsay_sites;not null"`
	Threshold     int    `json:"threshold" gorm:"not null"`
}

func (CityExceedsThreshold) TableName() string { return "cities_exceeding_threshold" }

// AnalysisRun is one persisted execution of the pipeline. Child rows are
// written in the same transaction and deleted with their run. TopRegion is
// nil for a run with no usable rows.
type AnalysisRun struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time `json:"timestamp" gorm:"index"`
	TotalSites       int       `json:"total_galamsay_sites" gorm:"not null"`
	TopRegion        *string   `json:"region_with_highest_sites"`
	TopRegionSites   int       `json:"highest_sites_count" gorm:"not null"`
	AveragePerRegion float64   `json:"average_sites_per_region" gorm:"not null"`
	ValidCount       int       `json:"valid_count" gorm:"not null"`
	RejectedCount    int       `json:"rejected_count" gorm:"not null"`

	CityData        []CityData             `json:"city_data" gorm:"foreignKey:AnalysisRunID;constraint:OnDelete:CASCADE"`
	CitiesExceeding []CityExceedsThreshold `json:"cities_exceeding_threshold" gorm:"foreignKey:AnalysisRunID;constraint:OnDelete:CASCADE"`
}

func (AnalysisRun) TableName() string { return "analysis_runs" }

// AnalysisRunSummary is the listing projection of a run: the same metrics
// without the city snapshots.
type AnalysisRunSummary struct {
	ID               uint      `json:"id"`
	CreatedAt        time.Time `json:"timestamp"`
	TotalSites       int       `json:"total_galamsay_sites"`
	TopRegion        *string   `json:"region_with_highest_sites"`
	TopRegionSites   int       `json:"highest_sites_count"`
	AveragePerRegion float64   `json:"average_sites_per_region"`
	ValidCount       int       `json:"valid_count"`
	RejectedCount    int       `json:"rejected_count"`
}

// AnalysisReport holds the metrics computed from one cleaned dataset before
// anything is persisted.
type AnalysisReport struct {
	TotalSites       int
	RegionTotals     map[string]int
	TopRegion        string
	TopRegionSites   int
	AveragePerRegion float64
	CitiesExceeding  []CityData
}
