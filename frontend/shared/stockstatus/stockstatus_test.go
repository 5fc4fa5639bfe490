package stockstatus

import (
	"strings"
	"testing"
)

func TestClassifyPriorityOrder(t *testing.T) {
	cases := []struct {
		name       string
		stocks     []LocationStock
		total      float64
		full       int64
		wantStatus string
	}{
		{
			name:       "no stock anywhere",
			stocks:     []LocationStock{{LocationName: "Bay 1", Quantity: 0, ReorderThreshold: 5}},
			total:      0,
			wantStatus: NoStock,
		},
		{
			name: "partial zero beats threshold check",
			stocks: []LocationStock{
				{LocationName: "Bay 1", Quantity: 0, ReorderThreshold: 5},
				{LocationName: "Bay 2", Quantity: 3, ReorderThreshold: 5},
			},
			total:      3,
			wantStatus: Critical,
		},
		{
			name: "below threshold",
			stocks: []LocationStock{
				{LocationName: "Bay 1", Quantity: 2, ReorderThreshold: 5},
			},
			total:      2,
			full:       10,
			wantStatus: LowStock,
		},
		{
			name: "zero threshold never low",
			stocks: []LocationStock{
				{LocationName: "Bay 1", Quantity: 1, ReorderThreshold: 0},
			},
			total:      1,
			wantStatus: OkStock,
		},
		{
			name: "over target",
			stocks: []LocationStock{
				{LocationName: "Bay 1", Quantity: 15, ReorderThreshold: 5},
			},
			total:      15,
			full:       10,
			wantStatus: OverStock,
		},
		{
			name: "at target",
			stocks: []LocationStock{
				{LocationName: "Bay 1", Quantity: 10, ReorderThreshold: 5},
			},
			total:      10,
			full:       10,
			wantStatus: FullStock,
		},
		{
			name: "no target set",
			stocks: []LocationStock{
				{LocationName: "Bay 1", Quantity: 10, ReorderThreshold: 5},
			},
			total:      10,
			full:       0,
			wantStatus: OkStock,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.stocks, tc.total, tc.full)
			if got.Status != tc.wantStatus {
				t.Fatalf("expected %s, got %s", tc.wantStatus, got.Status)
			}
		})
	}
}

func TestClassifyZeroLocationIsNeverLowStock(t *testing.T) {
	// Any zero-quantity location must classify as No Stock or Critical
	// before any threshold rule applies.
	stocks := []LocationStock{
		{LocationName: "Shelf A", Quantity: 0, ReorderThreshold: 100},
		{LocationName: "Shelf B", Quantity: 1, ReorderThreshold: 100},
	}
	got := Classify(stocks, 1, 0)
	if got.Status == LowStock || got.Status == OkStock {
		t.Fatalf("expected Critical, got %s", got.Status)
	}
	if got.Status != Critical {
		t.Fatalf("expected Critical, got %s", got.Status)
	}
	if !strings.Contains(got.Details, "Shelf A") {
		t.Fatalf("expected details naming Shelf A, got %q", got.Details)
	}
	if strings.Contains(got.Details, "Shelf B") {
		t.Fatalf("did not expect Shelf B in details, got %q", got.Details)
	}
}

func TestClassifyCriticalListsAllZeroLocations(t *testing.T) {
	stocks := []LocationStock{
		{LocationName: "Bay 1", Quantity: 0, ReorderThreshold: 5},
		{LocationName: "Bay 2", Quantity: 3, ReorderThreshold: 5},
		{LocationName: "Bay 3", Quantity: 0},
	}
	got := Classify(stocks, 3, 0)
	if got.Status != Critical {
		t.Fatalf("expected Critical, got %s", got.Status)
	}
	for _, name := range []string{"Bay 1", "Bay 3"} {
		if !strings.Contains(got.Details, name) {
			t.Fatalf("expected %s in details, got %q", name, got.Details)
		}
	}
}

func TestClassifyAtLocation(t *testing.T) {
	cases := []struct {
		name       string
		quantity   float64
		threshold  int64
		wantStatus string
	}{
		{name: "zero", quantity: 0, threshold: 5, wantStatus: NoStock},
		{name: "below threshold", quantity: 2, threshold: 5, wantStatus: LowStock},
		{name: "at threshold", quantity: 5, threshold: 5, wantStatus: OkStock},
		{name: "zero threshold", quantity: 1, threshold: 0, wantStatus: OkStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyAtLocation(tc.quantity, tc.threshold)
			if got.Status != tc.wantStatus {
				t.Fatalf("expected %s, got %s", tc.wantStatus, got.Status)
			}
		})
	}
}

func TestVariantsStayDistinct(t *testing.T) {
	// The single-location variant has no Critical/Full/Over states even
	// when the multi-location variant would produce them.
	got := ClassifyAtLocation(15, 5)
	if got.Status != OkStock {
		t.Fatalf("expected Ok Stock from single-location variant, got %s", got.Status)
	}
}
