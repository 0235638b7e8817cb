package storage

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/propertypilot/backend/internal/model/property"
)

// PropertyStore persists properties surfaced during analysis. Storage is
// best-effort: callers treat failures as degraded service, not fatal.
type PropertyStore interface {
	SaveProperty(ctx context.Context, p property.Property) (string, error)
	Close() error
}

// RecentLister is implemented by stores that can return recently saved
// properties, newest first.
type RecentLister interface {
	FetchRecent(ctx context.Context, limit int) ([]property.Property, error)
}

// PropertyID derives a stable identifier from the capture time and the
// property address.
func PropertyID(p property.Property, now time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(p.Address))
	return fmt.Sprintf("prop_%s_%d", now.Format("20060102_150405"), h.Sum32())
}

// NoopStore satisfies PropertyStore when no database is configured. It
// still hands out property IDs so downstream bookkeeping works.
type NoopStore struct{}

func (NoopStore) SaveProperty(_ context.Context, p property.Property) (string, error) {
	return PropertyID(p, time.Now()), nil
}

func (NoopStore) Close() error { return nil }
