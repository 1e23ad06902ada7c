package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// ExportFileName returns the download name of a series, e.g.
// "regional_protest_days.csv" or "country_protests_with_state_violence.csv"
func ExportFileName(scope models.Scope, topic string) string {
	return fmt.Sprintf("%s_%s.csv", scope, topic)
}

// WriteCSV writes a series as two columns: year and the metric
func WriteCSV(w io.Writer, series *models.TrendSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", series.Metric}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range series.Points {
		row := []string{strconv.Itoa(p.Year), strconv.FormatFloat(p.Value, 'f', -1, 64)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSelection writes every series of one selection into dir and
// returns the written file names
func (d *Dataset) ExportSelection(dir string, scope models.Scope, name string, from, to, defaultEnd int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var files []string
	for _, q := range AllTrendQueries(scope, name, from, to) {
		series, err := d.Trend(q, defaultEnd)
		if err != nil {
			return files, err
		}
		if err := writeSeriesFile(filepath.Join(dir, series.FileName), series); err != nil {
			return files, err
		}
		files = append(files, series.FileName)
	}
	return files, nil
}

func writeSeriesFile(path string, series *models.TrendSeries) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(file, series); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
