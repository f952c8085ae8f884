package ingestion

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// MinUploadWords is the fewest words an extraction needs before it is trusted.
const MinUploadWords = 80

// Formats recognized by Extract.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// ErrUnsupportedFormat is returned for content that is not text, HTML or PDF.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// Metadata describes an extracted upload.
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	Format    string `json:"format"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Words     int    `json:"words"`
}

// Result is the outcome of an extraction.
type Result struct {
	Text                string   `json:"text,omitempty"`
	RequiresManualPaste bool     `json:"requiresManualPaste"`
	Metadata            Metadata `json:"metadata"`
}

// Extract converts raw upload bytes into cleaned text. contentType may be empty,
// in which case the format is sniffed from the filename and content. Extractions
// shorter than MinUploadWords are flagged for manual paste and carry no text.
func Extract(ctx context.Context, content []byte, contentType, filename string) (*Result, error) {
	format, err := detectFormat(content, contentType, filename)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case FormatHTML:
		text, err = ExtractMainText(string(content), ResumeSelectors())
		if err != nil {
			return nil, err
		}
	case FormatPDF:
		text, err = ExtractPDFText(ctx, content)
		if err != nil {
			return nil, err
		}
	default:
		text = CleanText(string(content))
	}

	name := ""
	if filename != "" {
		name = filepath.Base(filename)
	}
	words := WordCount(text)
	result := &Result{
		Metadata: Metadata{
			Filename:  name,
			Format:    format,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Hash:      computeHash(text),
			Words:     words,
		},
	}
	if words < MinUploadWords {
		result.RequiresManualPaste = true
		return result, nil
	}
	result.Text = text
	return result, nil
}

func detectFormat(content []byte, contentType, filename string) (string, error) {
	if contentType == "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".html", ".htm":
			return FormatHTML, nil
		case ".txt", ".md", ".text":
			if isPlainText(content) {
				return FormatText, nil
			}
		}
		contentType = http.DetectContentType(content)
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return FormatHTML, nil
	case mediaType == "application/pdf":
		return FormatPDF, nil
	case strings.HasPrefix(mediaType, "text/") && isPlainText(content):
		if looksLikeHTML(content) {
			return FormatHTML, nil
		}
		return FormatText, nil
	case mediaType == "application/octet-stream" && isPlainText(content):
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

// isPlainText reports whether content is valid UTF-8 without NUL bytes.
func isPlainText(content []byte) bool {
	return utf8.Valid(content) && !bytes.ContainsRune(content, 0)
}

func looksLikeHTML(content []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
