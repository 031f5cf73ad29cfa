package web

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	summaryMaxSentences = 3
	summaryMaxRunes     = 500
)

// PageSummary is the extracted gist of a web page.
type PageSummary struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Summarizer fetches a page and reduces it to its title and leading
// sentences.
type Summarizer struct {
	client *Client
}

// NewSummarizer creates a Summarizer using client for transport.
func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize fetches url and extracts the page title plus the first few
// sentences of visible text.
func (s *Summarizer) Summarize(ctx context.Context, pageURL string) (*PageSummary, error) {
	body, err := s.client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	// Strip the non-content chrome before reading text.
	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	text := collapseWhitespace(doc.Find("body").Text())
	if text == "" {
		text = collapseWhitespace(doc.Text())
	}
	if title == "" && text == "" {
		return nil, fmt.Errorf("page %s has no readable text", pageURL)
	}

	return &PageSummary{
		URL:     pageURL,
		Title:   title,
		Summary: leadingSentences(text, summaryMaxSentences, summaryMaxRunes),
	}, nil
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// leadingSentences returns up to maxSentences sentences from text,
// truncated to maxRunes.
func leadingSentences(text string, maxSentences, maxRunes int) string {
	var b strings.Builder
	count := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if isSentenceEnd(runes, i) {
			count++
			if count >= maxSentences {
				break
			}
		}
	}

	out := strings.TrimSpace(b.String())
	outRunes := []rune(out)
	if len(outRunes) > maxRunes {
		out = strings.TrimSpace(string(outRunes[:maxRunes])) + "..."
	}
	return out
}

// isSentenceEnd reports whether runes[i] terminates a sentence: a
// terminal punctuation mark followed by a space and an upper-case
// letter, or by end of text. "e.g. nothing" style abbreviations still
// fool it; the cap on total length keeps that harmless.
func isSentenceEnd(runes []rune, i int) bool {
	r := runes[i]
	if r != '.' && r != '!' && r != '?' {
		return false
	}
	if i+1 >= len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[i+1]) {
		return false
	}
	for j := i + 2; j < len(runes); j++ {
		if unicode.IsSpace(runes[j]) {
			continue
		}
		return unicode.IsUpper(runes[j]) || unicode.IsDigit(runes[j])
	}
	return true
}
