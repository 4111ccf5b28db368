package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"simplegp/internal/model"
)

const (
	runFile          = "run.json"
	historyJSONFile  = "generation_stats.json"
	historyCSVFile   = "generation_stats.csv"
	artifactsDirPerm = 0o755
)

// RunArtifacts is everything exported for one stored run.
type RunArtifacts struct {
	Run     model.RunRecord
	History []model.GenerationStats
}

// WriteRunArtifacts writes the run summary and its generation history under
// baseDir/<run id> and returns that directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Run.ID)
	if err := os.MkdirAll(runDir, artifactsDirPerm); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, runFile), artifacts.Run); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, historyJSONFile), artifacts.History); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, artifacts.History); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, historyCSVFile), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRunArtifacts loads a directory written by WriteRunArtifacts.
func ReadRunArtifacts(runDir string) (RunArtifacts, error) {
	var artifacts RunArtifacts
	if err := readJSON(filepath.Join(runDir, runFile), &artifacts.Run); err != nil {
		return RunArtifacts{}, err
	}
	if err := readJSON(filepath.Join(runDir, historyJSONFile), &artifacts.History); err != nil {
		return RunArtifacts{}, err
	}
	return artifacts, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
