package exports

import (
	"net/http"

	"invapp/infrastructure/sqlite"
)

// StockExportCSVHandler streams the current stock ledger as CSV.
func StockExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=stock.csv")
		if err := writeStockCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}

// RequestsExportCSVHandler streams all item requests as CSV.
func RequestsExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=requests.csv")
		if err := writeRequestsCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}
