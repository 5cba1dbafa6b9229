// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package history supplies per-water-body scan history to the pipeline.
// Durable persistence belongs to the embedding application; this package
// defines the read contract the pipeline consumes plus an in-memory
// implementation used by the daemon and in tests.
package history

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// Provider hands the pipeline past assessments for a water body.
type Provider interface {
	// Recent returns up to limit of the most recent assessment points for
	// the water body, ordered oldest first. A limit <= 0 returns all.
	// An unknown water body returns an empty slice, not an error.
	Recent(ctx context.Context, waterID string, limit int) ([]models.AssessmentPoint, error)
}

// Recorder accepts completed scans for later trend analysis.
type Recorder interface {
	// Record appends one scan record to the water body's history.
	Record(ctx context.Context, rec models.ScanRecord) error
}

// MemoryStore keeps scan history in memory, keyed by water body. Safe for
// concurrent use. Contents do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]models.ScanRecord
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]models.ScanRecord)}
}

// Record implements Recorder. Records are kept sorted by timestamp so
// Recent never has to re-sort the full history.
func (s *MemoryStore) Record(_ context.Context, rec models.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.records[rec.WaterID], rec)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	s.records[rec.WaterID] = records
	return nil
}

// Recent implements Provider.
func (s *MemoryStore) Recent(_ context.Context, waterID string, limit int) ([]models.AssessmentPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[waterID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	points := make([]models.AssessmentPoint, len(records))
	for i, rec := range records {
		points[i] = models.AssessmentPoint{
			Timestamp:  rec.Timestamp,
			Assessment: rec.Assessment,
		}
	}
	return points, nil
}

// Len reports the number of stored records for a water body.
func (s *MemoryStore) Len(waterID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[waterID])
}
