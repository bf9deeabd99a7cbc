package core

import (
	"strings"
)

const (
	errorPrefix = "<error>"
	xmlPrefix   = "<?xml"
)

// Classify inspects raw model text. The first matching rule wins:
// empty text is an error, an <error> payload is a structured error,
// an XML prologue is a feed, anything else is malformed.
func Classify(raw string) (ClassifiedResponse, error) {
	text := strings.TrimSpace(raw)

	switch {
	case text == "":
		return ClassifiedResponse{}, ErrEmptyModelResponse
	case strings.HasPrefix(text, errorPrefix):
		return ClassifiedResponse{Kind: KindStructuredError, Text: text}, nil
	case strings.HasPrefix(text, xmlPrefix):
		return ClassifiedResponse{Kind: KindValidFeed, Text: text}, nil
	default:
		return ClassifiedResponse{Kind: KindMalformed, Text: text}, nil
	}
}
