// Package stockstatus derives a human stock status from quantities across
// one or more locations. The multi-location and single-location rule sets
// are intentionally distinct; the multi-location rules are strictly more
// detailed and are not a generalization of the per-location ones.
package stockstatus

import "strings"

// Status labels in display form.
const (
	NoStock   = "No Stock"
	Critical  = "Critical"
	LowStock  = "Low Stock"
	OkStock   = "Ok Stock"
	FullStock = "Full Stock"
	OverStock = "Over Stock"
)

// LocationStock is one location's ledger view used for classification.
type LocationStock struct {
	LocationName     string
	Quantity         float64
	ReorderThreshold int64
}

// Result is a status label with a severity color and a detail line
// naming the locations that triggered it.
type Result struct {
	Status  string
	Color   string
	Details string
}

// Classify derives the item-wide status across all locations.
//
// Rules are evaluated in priority order, first match wins:
// total zero, any location zero, any location under threshold,
// over target, at target, ok. fullQuantity of 0 means no target is set.
func Classify(stocks []LocationStock, totalQuantity float64, fullQuantity int64) Result {
	var zeroLocations, lowLocations []string
	for _, s := range stocks {
		switch {
		case s.Quantity == 0:
			zeroLocations = append(zeroLocations, s.LocationName)
		case s.ReorderThreshold > 0 && s.Quantity < float64(s.ReorderThreshold):
			lowLocations = append(lowLocations, s.LocationName)
		}
	}

	if totalQuantity == 0 {
		return Result{Status: NoStock, Color: "red", Details: "No stock at any location"}
	}
	if len(zeroLocations) > 0 {
		return Result{Status: Critical, Color: "red", Details: "No stock at: " + strings.Join(zeroLocations, ", ")}
	}
	if len(lowLocations) > 0 {
		return Result{Status: LowStock, Color: "yellow", Details: "Low stock at: " + strings.Join(lowLocations, ", ")}
	}
	if fullQuantity > 0 && totalQuantity > float64(fullQuantity) {
		return Result{Status: OverStock, Color: "purple", Details: "Total stock exceeds target"}
	}
	if fullQuantity > 0 && totalQuantity == float64(fullQuantity) {
		return Result{Status: FullStock, Color: "blue", Details: "At target stock level"}
	}
	return Result{Status: OkStock, Color: "green", Details: "All locations adequately stocked"}
}

// ClassifyAtLocation derives the status of a single location's record for
// per-location audit views. A threshold of 0 never triggers Low Stock.
func ClassifyAtLocation(quantity float64, reorderThreshold int64) Result {
	switch {
	case quantity == 0:
		return Result{Status: NoStock, Color: "red", Details: "No stock at this location"}
	case reorderThreshold > 0 && quantity < float64(reorderThreshold):
		return Result{Status: LowStock, Color: "yellow", Details: "Below reorder threshold"}
	default:
		return Result{Status: OkStock, Color: "green", Details: "Adequately stocked"}
	}
}
