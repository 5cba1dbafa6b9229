// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/bloomwatch/internal/models"
)

func record(waterID string, day int, probability float64) models.ScanRecord {
	return models.ScanRecord{
		ScanID:     fmt.Sprintf("scan-%s-%d", waterID, day),
		WaterID:    waterID,
		Timestamp:  time.Date(2026, 4, day, 9, 0, 0, 0, time.UTC),
		Assessment: models.NewRiskAssessment(probability, 0.8, nil),
	}
}

func TestMemoryStore_RecentOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Insert out of order; Recent must return oldest first.
	for _, day := range []int{3, 1, 2, 5, 4} {
		if err := s.Record(ctx, record("pond-a", day, float64(day)/10)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	points, err := s.Recent(ctx, "pond-a", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("len = %d, want 3", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Errorf("points out of order at %d", i)
		}
	}
	// Limit keeps the most recent, so days 3, 4, 5.
	if points[0].Assessment.Probability != 0.3 {
		t.Errorf("oldest in window = %v, want 0.3", points[0].Assessment.Probability)
	}
}

func TestMemoryStore_UnknownWaterBody(t *testing.T) {
	s := NewMemoryStore()

	points, err := s.Recent(context.Background(), "nowhere", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("len = %d, want 0 for unknown water body", len(points))
	}
}

func TestMemoryStore_ZeroLimitReturnsAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for day := 1; day <= 5; day++ {
		if err := s.Record(ctx, record("pond-b", day, 0.2)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	points, err := s.Recent(ctx, "pond-b", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(points) != 5 {
		t.Errorf("len = %d, want 5", len(points))
	}
}

func TestMemoryStore_IsolatesWaterBodies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Record(ctx, record("pond-a", 1, 0.1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(ctx, record("pond-b", 1, 0.9)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	points, err := s.Recent(ctx, "pond-a", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(points) != 1 || points[0].Assessment.Probability != 0.1 {
		t.Errorf("pond-a history leaked across water bodies: %+v", points)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for day := 1; day <= 25; day++ {
				_ = s.Record(ctx, record(fmt.Sprintf("pond-%d", n%2), day, 0.5))
				_, _ = s.Recent(ctx, "pond-0", 3)
			}
		}(i)
	}
	wg.Wait()

	if got := s.Len("pond-0") + s.Len("pond-1"); got != 8*25 {
		t.Errorf("total records = %d, want %d", got, 8*25)
	}
}
