package feed

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Content types accepted without inspecting the body for feed markers.
var allowedContentTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/rdf+xml",
	"application/xml",
	"text/xml",
}

// Content types accepted only when the body itself carries feed markers.
// Some servers mislabel feeds as HTML or plain text.
var markerContentTypes = []string{
	"text/html",
	"text/plain",
	"application/octet-stream",
}

// Validator performs cheap structural checks on raw feed bytes before the
// real parser runs, so callers get a human-readable reason instead of a
// parser error for the common garbage cases.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Run validates data against the supplied content type (may be empty when
// unknown). Validation never parses the full document; it scans XML tokens
// for a recognizable feed root and entry elements.
func (v *Validator) Run(data []byte, contentType string) ValidationResult {
	if len(bytes.TrimSpace(data)) == 0 {
		return ValidationResult{IsValid: false, Reason: "empty content"}
	}

	if contentType != "" && !v.contentTypeAllowed(contentType, data) {
		return ValidationResult{IsValid: false, Reason: "unsupported content type: " + contentType}
	}

	hasRoot, hasEntries, sawElement := v.scan(data)
	if !sawElement {
		return ValidationResult{IsValid: false, Reason: "content is not XML"}
	}
	if !hasRoot && !hasEntries {
		return ValidationResult{IsValid: false, Reason: "no RSS/Atom elements found"}
	}

	return ValidationResult{IsValid: true}
}

func (v *Validator) contentTypeAllowed(contentType string, data []byte) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))

	for _, allowed := range allowedContentTypes {
		if mediaType == allowed {
			return true
		}
	}

	for _, marker := range markerContentTypes {
		if mediaType == marker {
			return v.hasFeedMarkers(data)
		}
	}

	return false
}

func (v *Validator) hasFeedMarkers(data []byte) bool {
	lower := bytes.ToLower(data)
	return bytes.Contains(lower, []byte("<rss")) ||
		bytes.Contains(lower, []byte("<feed")) ||
		bytes.Contains(lower, []byte("<rdf:rdf"))
}

// scan walks XML tokens looking for a feed root element (rss, feed, RDF) and
// item/entry elements. It stops at the first structural error, reporting what
// it saw up to that point.
func (v *Validator) scan(data []byte) (hasRoot, hasEntries, sawElement bool) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false

	first := true
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true

		name := strings.ToLower(start.Name.Local)
		if first {
			first = false
			switch name {
			case "rss", "feed", "rdf":
				hasRoot = true
			}
		}
		if name == "item" || name == "entry" {
			hasEntries = true
		}
	}
}
