package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"feedwatch/app/fetcher"
)

// MinTextLength is the minimum readable-text length (in runes) readability
// output must reach before it is trusted; shorter output falls through to
// the heuristic HTML tier.
const MinTextLength = 100

// Extractor pulls readable article text out of web pages. Tier 1 runs
// structured extraction (readability); tier 2 falls back to heuristic body
// text from the raw HTML.
type Extractor struct {
	client   *fetcher.Client
	detector lingua.LanguageDetector
	timeout  time.Duration
}

func NewExtractor(client *fetcher.Client, timeout time.Duration) *Extractor {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Japanese).
		Build()

	return &Extractor{
		client:   client,
		detector: detector,
		timeout:  timeout,
	}
}

// Extract fetches rawURL and extracts its article content. The timeout is
// scoped to this single call; exceeding it yields a StatusTimeout result,
// not an error.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Article {
	art := Article{URL: rawURL, Status: StatusFailed}

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Fetch(fetchCtx, rawURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			art.Status = StatusTimeout
		}
		art.Error = err.Error()
		return art
	}

	pageURL, _ := url.Parse(rawURL)
	doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))

	text, title, author, method := e.extractText(resp.Body, pageURL, doc, docErr)
	if text == "" {
		art.Error = "no content extracted from either tier"
		slog.Debug("Extraction produced no content", "url", rawURL)
		return art
	}

	art.Status = StatusSuccess
	art.Method = method
	art.Text = &text
	art.Title = optional(title)
	art.Author = optional(author)
	art.Source = optional(sourceName(pageURL, doc, docErr))
	art.Date = e.extractDate(doc, docErr)
	art.Language = e.detectLanguage(text)

	slog.Debug("Article extracted",
		"url", rawURL,
		"method", method,
		"text_length", utf8.RuneCountInString(text))

	return art
}

// extractText runs the two-tier chain and reports which tier won.
func (e *Extractor) extractText(body []byte, pageURL *url.URL, doc *goquery.Document, docErr error) (text, title, author, method string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		text = normalizeWhitespace(article.TextContent)
		if utf8.RuneCountInString(text) >= MinTextLength {
			return text, strings.TrimSpace(article.Title), strings.TrimSpace(article.Byline), MethodReadability
		}
	}

	if docErr != nil {
		return "", "", "", ""
	}

	text = heuristicBodyText(doc)
	if text == "" {
		return "", "", "", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	author, _ = doc.Find(`meta[name="author"]`).First().Attr("content")
	return text, title, strings.TrimSpace(author), MethodHTMLFallback
}

// heuristicBodyText strips boilerplate elements and joins paragraph text,
// falling back to the whole body when the page has no paragraphs.
func heuristicBodyText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript, nav, header, footer, aside, form, iframe").Remove()

	var parts []string
	clone.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) > 0 {
		return normalizeWhitespace(strings.Join(parts, "\n"))
	}

	return normalizeWhitespace(clone.Find("body").Text())
}

func (e *Extractor) extractDate(doc *goquery.Document, docErr error) *time.Time {
	if docErr != nil {
		return nil
	}

	candidates := []string{
		`meta[property="article:published_time"]`,
		`meta[name="pubdate"]`,
		`meta[name="date"]`,
	}
	for _, sel := range candidates {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if parsed, err := dateparse.ParseAny(strings.TrimSpace(content)); err == nil {
				return &parsed
			}
		}
	}

	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if parsed, err := dateparse.ParseAny(strings.TrimSpace(datetime)); err == nil {
			return &parsed
		}
	}

	return nil
}

func (e *Extractor) detectLanguage(text string) *string {
	sample := text
	if len(sample) > 2000 {
		sample = sample[:2000]
	}

	lang, ok := e.detector.DetectLanguageOf(sample)
	if !ok {
		return nil
	}

	code := strings.ToLower(lang.IsoCode639_1().String())
	return &code
}

func sourceName(pageURL *url.URL, doc *goquery.Document, docErr error) string {
	if docErr == nil {
		if name, ok := doc.Find(`meta[property="og:site_name"]`).First().Attr("content"); ok {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	if pageURL != nil {
		return pageURL.Hostname()
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// failedArticle builds a FAILED-class result for boundary recovery.
func failedArticle(rawURL string, err error) Article {
	status := StatusFailed
	if errors.Is(err, context.DeadlineExceeded) {
		status = StatusTimeout
	}
	return Article{URL: rawURL, Status: status, Error: fmt.Sprint(err)}
}
