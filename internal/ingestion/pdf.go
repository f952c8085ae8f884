package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
)

// ExtractPDFText returns the cleaned plain text of every page in a PDF.
func ExtractPDFText(ctx context.Context, content []byte) (text string, err error) {
	// The PDF reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	parser, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return "", fmt.Errorf("failed to create PDF parser: %w", err)
	}

	docs, err := parser.Parse(ctx, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("PDF parser returned no documents")
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(doc.Content)
	}
	return CleanText(sb.String()), nil
}
