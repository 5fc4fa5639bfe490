package labels

import (
	"testing"
	"time"
)

func TestRenderItemLabelPDF_GeneratesPDF(t *testing.T) {
	t.Parallel()

	pdf, code, err := renderItemLabelPDF(ItemLabelData{
		ItemID:       7,
		Name:         "Nitrile Gloves (Large)",
		SKU:          "GLV-NIT-L",
		PartNumber:   "PN-4411",
		CategoryName: "Medical Supplies",
	}, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("renderItemLabelPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected non-empty pdf bytes")
	}
	if code != "GLV-NIT-L" {
		t.Fatalf("expected barcode value GLV-NIT-L, got %q", code)
	}
}

func TestRenderItemLabelPDF_FallsBackToItemIDWhenNoSKU(t *testing.T) {
	t.Parallel()

	_, code, err := renderItemLabelPDF(ItemLabelData{
		ItemID: 42,
		Name:   "Unlabelled Part",
	}, time.Now())
	if err != nil {
		t.Fatalf("renderItemLabelPDF returned error: %v", err)
	}
	if code != "ITEM-00000042" {
		t.Fatalf("expected fallback barcode ITEM-00000042, got %q", code)
	}
}
