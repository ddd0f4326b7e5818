package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/harness"
	"github.com/san-kum/drivelab/internal/speedometer"
)

const (
	metadataFile = "metadata.json"
	ticksFile    = "ticks.csv"
	framesFile   = "frames.csv"
)

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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Integrator string             `json:"integrator"`
	FixedDt    float64            `json:"fixed_dt"`
	FrameDt    float64            `json:"frame_dt"`
	Duration   float64            `json:"duration"`
	Drivetrain drivetrain.Config  `json:"drivetrain"`
	Dial       speedometer.Config `json:"dial"`
	Ticks      int                `json:"ticks"`
	Frames     int                `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh ID built from meta.Name. ID, Timestamp,
// counts and metrics are filled from the result.
func (s *Store) Save(meta RunMetadata, result *harness.Result) (string, error) {
	now := time.Now()
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Name = name
	meta.Timestamp = now
	meta.Duration = result.Duration
	meta.Ticks = len(result.Ticks)
	meta.Frames = len(result.Frames)
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	ticks, err := os.Create(filepath.Join(runDir, ticksFile))
	if err != nil {
		return "", err
	}
	defer ticks.Close()
	if err := WriteTicksCSV(ticks, TickRecords(result.Ticks)); err != nil {
		return "", err
	}

	frames, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer frames.Close()
	if err := WriteFramesCSV(frames, FrameRecords(result.Frames)); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns stored runs oldest first. Directories without readable
// metadata are skipped.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTicks(runID string) ([]TickRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, ticksFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTicksCSV(f)
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFramesCSV(f)
}
