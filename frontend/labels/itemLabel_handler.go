package labels

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"invapp/infrastructure/apperr"
	"invapp/infrastructure/sqlite"
)

// ItemLabelQueryHandler streams a printable PDF label for an item.
func ItemLabelQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}

		data, err := LoadItemLabelData(r.Context(), db, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load item", http.StatusInternalServerError)
			return
		}

		pdfBytes, _, err := renderItemLabelPDF(data, time.Now())
		if err != nil {
			http.Error(w, "failed to build label pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=item-%d-label.pdf", id))
		_, _ = w.Write(pdfBytes)
	}
}
