package feedclient

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrInvalidXMLResponse is returned for a body that is neither a feed nor
// an error document
var ErrInvalidXMLResponse = errors.New("invalid XML response")

// DomainError reports that the page had no extractable articles, or any
// other failure carried in an <error> document
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ItemSummary is the displayable part of a feed item
type ItemSummary struct {
	Title     string
	Link      string
	Published *time.Time
}

// FeedSummary is the displayable part of a generated feed
type FeedSummary struct {
	Title       string
	Link        string
	Description string
	Language    string
	Items       []ItemSummary
}

// Result is an interpreted generator response
type Result struct {
	Raw     string
	Summary *FeedSummary
}

type errorDocument struct {
	XMLName xml.Name `xml:"error"`
	Message string   `xml:"message"`
}

// Interpret applies the consumer rules to a response body: an <error>
// document is a *DomainError, an XML document is parsed as a feed, and
// anything else is ErrInvalidXMLResponse.
func Interpret(body string) (*Result, error) {
	trimmed := strings.TrimSpace(body)

	switch {
	case strings.HasPrefix(trimmed, "<error>"):
		return nil, &DomainError{Message: errorMessage(trimmed)}

	case strings.HasPrefix(trimmed, "<?xml"):
		feed, err := gofeed.NewParser().ParseString(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidXMLResponse, err)
		}
		return &Result{Raw: trimmed, Summary: summarize(feed)}, nil

	default:
		return nil, ErrInvalidXMLResponse
	}
}

// errorMessage extracts <message> text, falling back to the whole document
func errorMessage(doc string) string {
	var e errorDocument
	if err := xml.Unmarshal([]byte(doc), &e); err != nil || e.Message == "" {
		return doc
	}
	return strings.TrimSpace(e.Message)
}

func summarize(feed *gofeed.Feed) *FeedSummary {
	s := &FeedSummary{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
		Items:       make([]ItemSummary, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		s.Items = append(s.Items, ItemSummary{
			Title:     item.Title,
			Link:      item.Link,
			Published: item.PublishedParsed,
		})
	}
	return s
}
