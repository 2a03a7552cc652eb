// Package stats writes the human-readable artifacts of a finished run.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gridbot/internal/model"
)

const (
	RunFile         = "run.json"
	GenerationsFile = "generations.csv"
	ChartFile       = "fitness.html"
)

var generationsHeader = []string{"generation", "best_id", "best_score", "mean_score", "stddev_score", "min_score", "distinct_genomes"}

// WriteRunArtifacts writes the run summary, its generation table and a
// fitness chart into baseDir/<run id> and returns that directory.
func WriteRunArtifacts(baseDir string, run model.RunRecord, diagnostics []model.GenerationDiagnostics) (string, error) {
	if strings.TrimSpace(run.ID) == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, RunFile), run); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, GenerationsFile), func(w io.Writer) error {
		return WriteGenerationsCSV(w, diagnostics)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, ChartFile), func(w io.Writer) error {
		return WriteFitnessChart(w, run.ID, diagnostics)
	}); err != nil {
		return "", err
	}
	return runDir, nil
}

func WriteGenerationsCSV(w io.Writer, diagnostics []model.GenerationDiagnostics) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(generationsHeader); err != nil {
		return err
	}
	for _, d := range diagnostics {
		if err := writer.Write([]string{
			strconv.Itoa(d.Generation),
			strconv.Itoa(d.BestID),
			formatFloat(d.BestScore),
			formatFloat(d.MeanScore),
			formatFloat(d.StdDevScore),
			formatFloat(d.MinScore),
			strconv.Itoa(d.DistinctGenomes),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadGenerationsCSV(r io.Reader) ([]model.GenerationDiagnostics, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(generationsHeader)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("generations table is empty")
		}
		return nil, err
	}
	if strings.Join(header, ",") != strings.Join(generationsHeader, ",") {
		return nil, fmt.Errorf("unexpected generations header: %v", header)
	}

	out := make([]model.GenerationDiagnostics, 0, 64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var d model.GenerationDiagnostics
		ints := []*int{&d.Generation, &d.BestID, &d.DistinctGenomes}
		for i, col := range []int{0, 1, 6} {
			if *ints[i], err = strconv.Atoi(record[col]); err != nil {
				return nil, fmt.Errorf("column %s: %w", generationsHeader[col], err)
			}
		}
		floats := []*float64{&d.BestScore, &d.MeanScore, &d.StdDevScore, &d.MinScore}
		for i, col := range []int{2, 3, 4, 5} {
			if *floats[i], err = strconv.ParseFloat(record[col], 64); err != nil {
				return nil, fmt.Errorf("column %s: %w", generationsHeader[col], err)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func ReadRun(runDir string) (model.RunRecord, bool, error) {
	data, err := os.ReadFile(filepath.Join(runDir, RunFile))
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, false, err
	}
	return run, true, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
