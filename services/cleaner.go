package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/kofimuad/galamsay-analysis/models"
)

// Placeholder values the upstream dataset uses for unusable fields. Matching
// is exact: "unknown city" in any other casing is treated as a real name.
const (
	UnknownCity   = "Unknown City"
	InvalidRegion = "Invalid Region"
)

// Rejection reasons for a single record.
var (
	ErrCityMissing     = errors.New("city name missing or placeholder")
	ErrRegionMissing   = errors.New("region name missing or placeholder")
	ErrSitesNotInteger = errors.New("site count is not an integer")
	ErrSitesNegative   = errors.New("site count is negative")
)

// Clean validates raw records and returns the usable rows together with the
// number of rejected ones. Rejected rows are logged and dropped; they never
// abort the run.
func Clean(raw []models.RawRecord) ([]models.CityData, int) {
	rows := make([]models.CityData, 0, len(raw))
	rejected := 0

	for i, r := range raw {
		row, err := cleanRecord(r)
		if err != nil {
			rejected++
			log.WithError(err).Warnf("dropping row %d: city=%q region=%q sites=%q", i+1, r.City, r.Region, r.Sites)
			continue
		}
		if row.Flagged {
			log.Warnf("unusually high site count for %s: %d", row.City, row.Sites)
		}
		rows = append(rows, row)
	}

	log.Infof("cleaned %d rows: kept %d, rejected %d", len(raw), len(rows), rejected)
	return rows, rejected
}

// cleanRecord validates one record. Checks run in order and the first
// failure wins. A count above OutlierThreshold is kept but flagged.
func cleanRecord(r models.RawRecord) (models.CityData, error) {
	city := strings.TrimSpace(r.City)
	if city == "" || city == UnknownCity {
		return models.CityData{}, ErrCityMissing
	}

	region := strings.TrimSpace(r.Region)
	if region == "" || region == InvalidRegion {
		return models.CityData{}, ErrRegionMissing
	}

	// strconv.Atoi rejects decimals and non-numeric text outright, so "1.5"
	// is dropped rather than truncated.
	sites, err := strconv.Atoi(strings.TrimSpace(r.Sites))
	if err != nil {
		return models.CityData{}, ErrSitesNotInteger
	}
	if sites < 0 {
		return models.CityData{}, ErrSitesNegative
	}

	return models.CityData{
		City:    city,
		Region:  region,
		Sites:   sites,
		Flagged: sites > OutlierThreshold,
	}, nil
}
