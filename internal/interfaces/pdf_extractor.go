package interfaces

import (
	"context"

	"github.com/ternarybob/torque/internal/models"
)

// PDFExtractor extracts text content from PDF job sheets
type PDFExtractor interface {
	// ExtractTextFromBytes extracts all text content from a PDF document.
	ExtractTextFromBytes(ctx context.Context, pdfContent []byte) (string, error)
	// ParseJobRows converts extracted job sheet text into loose import rows.
	ParseJobRows(text string) []models.ImportRow
}
