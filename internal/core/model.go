package core

import (
	"time"
)

// ContentTypeXML is the content type of every pipeline response
const ContentTypeXML = "application/xml; charset=utf-8"

// FeedRequest represents one request to turn a webpage into a feed
type FeedRequest struct {
	RawURL string
}

// TargetURL is a validated absolute URL ready for fetching
type TargetURL struct {
	// Key is the decoded URL string, used verbatim for fetching and as the cache key
	Key string
	// Origin is scheme://host[:port], used to resolve relative article links
	Origin string
}

// CacheEntry represents a cached feed body
type CacheEntry struct {
	Key       string
	CreatedAt time.Time
	Body      string
}

// ResponseKind tags the shape of a classified model response
type ResponseKind int

const (
	// KindMalformed means the model ignored the output format
	KindMalformed ResponseKind = iota
	// KindStructuredError means the model reported that no articles were found
	KindStructuredError
	// KindValidFeed means the model produced an XML feed
	KindValidFeed
)

// String returns the metric/log label for the kind
func (k ResponseKind) String() string {
	switch k {
	case KindValidFeed:
		return "valid_feed"
	case KindStructuredError:
		return "structured_error"
	default:
		return "malformed"
	}
}

// ClassifiedResponse is the result of classifying one model response.
// Text holds the XML for a feed, the <error> document for a structured
// error, or the raw text for a malformed response.
type ClassifiedResponse struct {
	Kind ResponseKind
	Text string
}

// CacheDisposition reports how the cache took part in a request
type CacheDisposition string

const (
	CacheHit  CacheDisposition = "HIT"
	CacheMiss CacheDisposition = "MISS"
	CacheNone CacheDisposition = "NONE"
)

// PipelineResult is the externally observable output of a feed request
type PipelineResult struct {
	StatusCode       int
	ContentType      string
	Body             string
	CacheDisposition CacheDisposition
}
