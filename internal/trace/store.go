package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/termdemo/internal/script"
)

type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID         string    `json:"id"`
	Sequence   string    `json:"sequence"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
	Passes     int       `json:"passes"`
	Steps      int       `json:"steps"`
	Frames     int       `json:"frames"`
	DurationMs int64     `json:"duration_ms"`
}

func (m Metadata) Duration() time.Duration {
	return time.Duration(m.DurationMs) * time.Millisecond
}

// Save writes metadata.json and frames.csv into a new recording directory.
func (s *Store) Save(seq *script.Sequence, passes int, frames []Frame) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%d", seq.Name(), now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:         id,
		Sequence:   seq.Name(),
		Title:      seq.Title(),
		Timestamp:  now,
		Passes:     passes,
		Steps:      seq.Len(),
		Frames:     len(frames),
		DurationMs: Duration(frames).Milliseconds(),
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"at_ms", "pass", "cursor", "phase", "screen"}); err != nil {
		return "", err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatInt(f.At.Milliseconds(), 10),
			strconv.Itoa(f.Pass),
			strconv.Itoa(f.Cursor),
			f.Phase,
			strings.Join(f.Lines, "\n"),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return id, nil
}

// List returns every recording, oldest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	out := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(id string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 5 {
			return nil, fmt.Errorf("frames.csv row %d: expected 5 fields, got %d", i+1, len(rec))
		}
		at, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("frames.csv row %d: %w", i+1, err)
		}
		pass, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("frames.csv row %d: %w", i+1, err)
		}
		cursor, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("frames.csv row %d: %w", i+1, err)
		}
		frames = append(frames, Frame{
			At:     time.Duration(at) * time.Millisecond,
			Pass:   pass,
			Cursor: cursor,
			Phase:  rec[3],
			Lines:  strings.Split(rec[4], "\n"),
		})
	}
	return frames, nil
}
