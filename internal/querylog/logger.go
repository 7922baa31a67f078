// Package querylog records query transactions to an append-only JSONL file
// for offline analysis.
package querylog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RetrievedChunk is the per-chunk slice of a log entry.
type RetrievedChunk struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Distance   float64 `json:"distance"`
}

// Entry is one query transaction. Written once, never mutated.
type Entry struct {
	Timestamp       time.Time        `json:"timestamp"`
	Query           string           `json:"query"`
	Collection      string           `json:"collection"`
	RetrievedChunks []RetrievedChunk `json:"retrieved_chunks"`
	Confidence      float64          `json:"confidence"`
	IsUncertain     bool             `json:"is_uncertain"`
	Escalated       bool             `json:"escalated"`
	Response        string           `json:"response"`
	Error           string           `json:"error,omitempty"`
}

// Stats aggregates the log file.
type Stats struct {
	TotalQueries        int     `json:"total_queries"`
	UncertainCount      int     `json:"uncertain_count"`
	EscalatedCount      int     `json:"escalated_count"`
	AvgConfidence       float64 `json:"avg_confidence"`
	UncertainPercentage float64 `json:"uncertain_percentage"`
	EscalatedPercentage float64 `json:"escalated_percentage"`
}

// FileLogger appends entries to a JSONL file, one object per line.
type FileLogger struct {
	mu   sync.Mutex
	path string
}

// NewFileLogger creates the parent directory if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return &FileLogger{path: path}, nil
}

// LogQuery appends one entry. A zero timestamp is filled with the current
// time.
func (l *FileLogger) LogQuery(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.RetrievedChunks == nil {
		entry.RetrievedChunks = []RetrievedChunk{}
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open query log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write query log: %w", err)
	}
	return nil
}

// Stats reads the whole file and aggregates it. Malformed lines are skipped.
func (l *FileLogger) Stats() (*Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return &Stats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open query log: %w", err)
	}
	defer f.Close()

	stats := &Stats{}
	var confidenceSum float64

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		stats.TotalQueries++
		if entry.IsUncertain {
			stats.UncertainCount++
		}
		if entry.Escalated {
			stats.EscalatedCount++
		}
		confidenceSum += entry.Confidence
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read query log: %w", err)
	}

	if stats.TotalQueries > 0 {
		total := float64(stats.TotalQueries)
		stats.AvgConfidence = confidenceSum / total
		stats.UncertainPercentage = float64(stats.UncertainCount) / total * 100
		stats.EscalatedPercentage = float64(stats.EscalatedCount) / total * 100
	}

	return stats, nil
}
