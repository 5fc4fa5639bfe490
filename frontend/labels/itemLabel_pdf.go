package labels

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// renderItemLabelPDF builds a one-page A5 landscape label with the item's
// name, identifiers and a Code128 barcode. Returns the pdf bytes and the
// encoded barcode value.
func renderItemLabelPDF(label ItemLabelData, printedAt time.Time) ([]byte, string, error) {
	barcodeValue := strings.TrimSpace(label.SKU)
	if barcodeValue == "" {
		barcodeValue = fmt.Sprintf("ITEM-%08d", label.ItemID)
	}
	barcodePNG, err := renderCode128PNG(barcodeValue, 1200, 260)
	if err != nil {
		return nil, "", err
	}

	name := strings.TrimSpace(label.Name)
	if name == "" {
		name = "Unnamed Item"
	}
	partNumber := strings.TrimSpace(label.PartNumber)
	if partNumber == "" {
		partNumber = "-"
	}
	category := strings.TrimSpace(label.CategoryName)
	if category == "" {
		category = "-"
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetTitle("Item Label", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 30)
	nameFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 30, 14, name, 190)
	pdf.SetFont("Helvetica", "B", nameFont)
	pdf.CellFormat(0, 16, name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, "Category: "+category, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Part No: "+partNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := fmt.Sprintf("item-barcode-%d", label.ItemID)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pageW, _ := pdf.GetPageSize()
	imgW := 150.0
	imgH := 34.0
	x := (pageW - imgW) / 2
	y := 58.0
	pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")

	pdf.SetY(y + imgH + 4)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, barcodeValue, "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", err
	}
	return out.Bytes(), barcodeValue, nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
