package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/kofimuad/galamsay-analysis/database"
	"github.com/kofimuad/galamsay-analysis/ingest"
	"github.com/kofimuad/galamsay-analysis/models"
)

// Pipeline runs one full analysis: read, clean, compute, persist.
type Pipeline struct {
	store *database.Store
}

func NewPipeline(store *database.Store) *Pipeline {
	return &Pipeline{store: store}
}

// Run executes one analysis over the dataset at csvPath and persists the
// result as a new run. Structural dataset errors abort before anything is
// written; a dataset with no usable rows still produces a zeroed run.
func (p *Pipeline) Run(ctx context.Context, csvPath string) (*models.AnalysisRun, error) {
	raw, err := ingest.ReadFile(csvPath)
	if err != nil {
		return nil, err
	}

	rows, rejected := Clean(raw)
	run := BuildRun(rows, rejected)

	if err := p.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save analysis run: %w", err)
	}

	log.WithField("run_id", run.ID).
		Infof("analysis complete: %d sites, %d cities kept, %d rejected", run.TotalSites, run.ValidCount, run.RejectedCount)
	return run, nil
}

// BuildRun computes the metrics for a cleaned dataset and assembles the run
// record ready for persistence, snapshots included.
func BuildRun(rows []models.CityData, rejected int) *models.AnalysisRun {
	report := Analyze(rows)

	// A run with no regions has no top region at all, not a blank one.
	var topRegion *string
	if report.TopRegion != "" {
		topRegion = &report.TopRegion
	}

	run := &models.AnalysisRun{
		TotalSites:       report.TotalSites,
		TopRegion:        topRegion,
		TopRegionSites:   report.TopRegionSites,
		AveragePerRegion: report.AveragePerRegion,
		ValidCount:       len(rows),
		RejectedCount:    rejected,
		CityData:         rows,
		CitiesExceeding:  make([]models.CityExceedsThreshold, 0, len(report.CitiesExceeding)),
	}
	for _, c := range report.CitiesExceeding {
		run.CitiesExceeding = append(run.CitiesExceeding, models.CityExceedsThreshold{
			City:      c.City,
			Region:    c.Region,
			Sites:     c.Sites,
			Threshold: Threshold,
		})
	}
	return run
}

// WriteReport prints a run summary with the over-threshold cities sorted by
// site count descending. The run itself is left untouched.
func WriteReport(w io.Writer, run *models.AnalysisRun) {
	sep := strings.Repeat("=", 52)

	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "GALAMSAY ANALYSIS REPORT")
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "Run ID:                    %d\n", run.ID)
	fmt.Fprintf(w, "Timestamp:                 %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Total galamsay sites:      %d\n", run.TotalSites)
	if run.TopRegion != nil {
		fmt.Fprintf(w, "Region with highest sites: %s (%d)\n", *run.TopRegion, run.TopRegionSites)
	} else {
		fmt.Fprintln(w, "Region with highest sites: n/a")
	}
	fmt.Fprintf(w, "Average sites per region:  %.2f\n", run.AveragePerRegion)
	fmt.Fprintf(w, "Valid rows:                %d\n", run.ValidCount)
	fmt.Fprintf(w, "Rejected rows:             %d\n", run.RejectedCount)

	fmt.Fprintf(w, "\nCities exceeding %d sites:\n", Threshold)
	if len(run.CitiesExceeding) == 0 {
		fmt.Fprintln(w, "  none")
	} else {
		cities := make([]models.CityExceedsThreshold, len(run.CitiesExceeding))
		copy(cities, run.CitiesExceeding)
		sort.SliceStable(cities, func(i, j int) bool { return cities[i].Sites > cities[j].Sites })
		for _, c := range cities {
			fmt.Fprintf(w, "  %-22s %-18s %d\n", c.City, c.Region, c.Sites)
		}
	}
	fmt.Fprintln(w, sep)
}
