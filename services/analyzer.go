package services

import "github.com/kofimuad/galamsay-analysis/models"

// Threshold is the site count above which a city lands on the
// cities-exceeding list.
const Threshold = 10

// OutlierThreshold is the site count above which a row is kept but flagged
// for attention.
const OutlierThreshold = 200

// Analyze computes the aggregate metrics for a set of cleaned rows. It is a
// pure function of its input; an empty input yields a zero-valued report,
// not an error.
func Analyze(rows []models.CityData) *models.AnalysisReport {
	report := &models.AnalysisReport{
		RegionTotals:    make(map[string]int),
		CitiesExceeding: []models.CityData{},
	}

	// regionOrder remembers first appearance so the top-region tie-break
	// stays deterministic instead of following map iteration order.
	var regionOrder []string
	for _, row := range rows {
		report.TotalSites += row.Sites
		if _, seen := report.RegionTotals[row.Region]; !seen {
			regionOrder = append(regionOrder, row.Region)
		}
		report.RegionTotals[row.Region] += row.Sites
		if row.Sites > Threshold {
			report.CitiesExceeding = append(report.CitiesExceeding, row)
		}
	}

	best := -1
	for _, region := range regionOrder {
		if report.RegionTotals[region] > best {
			best = report.RegionTotals[region]
			report.TopRegion = region
			report.TopRegionSites = best
		}
	}

	if len(regionOrder) > 0 {
		report.AveragePerRegion = round2(float64(report.TotalSites) / float64(len(regionOrder)))
	}

	return report
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
