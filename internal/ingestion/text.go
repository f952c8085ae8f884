// Package ingestion turns uploaded resume files into plain text.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	blankLineRun = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes line endings and whitespace while keeping headings,
// bullets and paragraph breaks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + trimmed
	}

	content := spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
	return strings.Repeat(" ", indent) + content
}

func isBulletLine(line string) bool {
	for _, prefix := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// IngestFromFile reads a resume file from disk and extracts its text.
func IngestFromFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(ctx, content, "", path)
}
