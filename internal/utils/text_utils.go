package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters.
// Invalid sequences become U+FFFD; page content is otherwise untouched.
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized, err := unicode.UTF8.NewDecoder().String(text)
	if err != nil {
		tp.logger.Warn("Failed to decode text as UTF-8", zap.Error(err))
		return text
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// StripBOM removes a leading UTF-8 byte order mark
func (tp *TextProcessor) StripBOM(text string) string {
	const bom = "\ufeff"
	if len(text) >= len(bom) && text[:len(bom)] == bom {
		return text[len(bom):]
	}
	return text
}

// ProcessText repairs encoding problems in fetched text in one operation
func (tp *TextProcessor) ProcessText(text string) string {
	return tp.StripBOM(tp.SanitizeUTF8(text))
}
