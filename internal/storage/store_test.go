package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/propertypilot/backend/internal/model/property"
)

func TestPropertyIDStable(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	p := property.Property{Address: "123 Main St, Austin, TX"}

	first := PropertyID(p, now)
	second := PropertyID(p, now)
	if first != second {
		t.Errorf("PropertyID not stable: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "prop_20240601_123045_") {
		t.Errorf("PropertyID = %q, want prop_20240601_123045_ prefix", first)
	}
}

func TestPropertyIDVariesByAddress(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	a := PropertyID(property.Property{Address: "123 Main St"}, now)
	b := PropertyID(property.Property{Address: "456 Oak Ave"}, now)
	if a == b {
		t.Errorf("different addresses produced the same ID %q", a)
	}
}

func TestNoopStoreHandsOutIDs(t *testing.T) {
	id, err := NoopStore{}.SaveProperty(context.Background(), property.Property{Address: "1 Elm St"})
	if err != nil {
		t.Fatalf("SaveProperty returned error: %v", err)
	}
	if !strings.HasPrefix(id, "prop_") {
		t.Errorf("id = %q, want prop_ prefix", id)
	}
}
