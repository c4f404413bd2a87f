package ingestion

import (
	"context"
	"fmt"
	"log"
	"mime"
	"strings"

	"github.com/jonathan/interview-agent/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the document cannot be retrieved
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when no usable text is found
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
	// ErrUnsupportedContentType is returned for document formats without a
	// text extractor
	ErrUnsupportedContentType = fmt.Errorf("unsupported content type")
)

// IngestFromURL fetches a resume document, extracts its text, cleans it, and
// returns the cleaned text with metadata. HTML documents go through the main
// content extractor; plain text passes through directly.
func IngestFromURL(ctx context.Context, urlStr string) (string, *Metadata, error) {
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	mediaType := result.ContentType
	if parsed, _, err := mime.ParseMediaType(result.ContentType); err == nil {
		mediaType = parsed
	}

	var textContent string
	switch {
	case strings.HasPrefix(mediaType, "text/html"), mediaType == "application/xhtml+xml":
		textContent, err = fetch.ExtractMainText(result.Body, fetch.DefaultTextSelectors())
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	case strings.HasPrefix(mediaType, "text/"), mediaType == "":
		textContent = result.Body
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}

	cleanedText := CleanText(textContent)
	if cleanedText == "" {
		return "", nil, fmt.Errorf("%w: document contains no text", ErrContentExtractionFailed)
	}

	metadata := NewMetadata(cleanedText, urlStr)
	metadata.ContentType = mediaType
	log.Printf("[ingestion] fetched resume: %d chars from %s", len(cleanedText), urlStr)

	return cleanedText, metadata, nil
}
