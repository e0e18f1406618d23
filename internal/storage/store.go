package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/kinfit/internal/catalog"
	"github.com/san-kum/kinfit/internal/estimator"
	"github.com/san-kum/kinfit/internal/kinetics"
)

// Store persists fit runs under a base directory, one subdirectory per
// run holding metadata.json and predicted.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string                `json:"id"`
	Timestamp     time.Time             `json:"timestamp"`
	Guess         kinetics.ParameterSet `json:"guess"`
	Estimate      kinetics.ParameterSet `json:"estimate"`
	StandardError kinetics.ParameterSet `json:"standard_error"`
	Status        string                `json:"status"`
	Iterations    int                   `json:"iterations"`
	SSR           float64               `json:"ssr"`
	Observations  int                   `json:"observations"`
}

// Save writes one run. predicted holds the model CA per experiment on
// the experiment's own time grid, index-aligned with the catalog.
func (s *Store) Save(guess kinetics.ParameterSet, res *estimator.Result, c *catalog.Catalog, predicted [][]float64) (string, error) {
	runID := fmt.Sprintf("fit_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Guess:         guess,
		Estimate:      res.Estimate,
		StandardError: res.StandardError,
		Status:        res.Status.String(),
		Iterations:    res.Iterations,
		SSR:           res.SSR,
		Observations:  res.Observations,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "predicted.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"experiment", "temperature", "time", "observed", "predicted", "residual"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, exp := range c.Experiments {
		if i >= len(predicted) {
			break
		}
		for j := range exp.Times {
			row := []string{
				strconv.Itoa(i),
				strconv.FormatFloat(exp.T, 'f', 2, 64),
				strconv.FormatFloat(exp.Times[j], 'f', 3, 64),
				strconv.FormatFloat(exp.CA[j], 'f', 6, 64),
				strconv.FormatFloat(predicted[i][j], 'f', 6, 64),
				strconv.FormatFloat(predicted[i][j]-exp.CA[j], 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// PredictedPoint is one row of a run's predicted.csv.
type PredictedPoint struct {
	Experiment  int
	Temperature float64
	Time        float64
	Observed    float64
	Predicted   float64
}

func (s *Store) LoadPredicted(runID string) ([]PredictedPoint, error) {
	csvPath := filepath.Join(s.baseDir, runID, "predicted.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([]PredictedPoint, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 6 {
			continue
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		temp, _ := strconv.ParseFloat(rec[1], 64)
		tm, _ := strconv.ParseFloat(rec[2], 64)
		obs, _ := strconv.ParseFloat(rec[3], 64)
		pred, _ := strconv.ParseFloat(rec[4], 64)
		points = append(points, PredictedPoint{
			Experiment:  idx,
			Temperature: temp,
			Time:        tm,
			Observed:    obs,
			Predicted:   pred,
		})
	}

	return points, nil
}
