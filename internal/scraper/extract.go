package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TitleUnknown is used when no title candidate matched.
const TitleUnknown = "Unknown Product"

// ExtractPage applies a site profile's selector cascades (or a caller
// supplied override for the price) to page markup and returns the raw
// field text. NumericPrice, Currency, Status and Source are left for
// the pipeline to fill in.
func ExtractPage(body []byte, sourceURL, selectorOverride string) (*ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}

	site := DetectSite(sourceURL)
	profile := site.Profile()

	// The override, when present, is attempted before the profile cascade.
	var priceText string
	if selectorOverride != "" {
		priceText = firstText(doc, []string{selectorOverride})
	}
	if priceText == "" {
		priceText = firstText(doc, profile.Price)
	}

	title := firstText(doc, profile.Title)
	if title == "" {
		title = TitleUnknown
	}

	availability := firstText(doc, profile.Availability)
	imageURL := firstImage(doc, profile.Image, sourceURL)

	return &ExtractionResult{
		PriceText:    priceText,
		Title:        title,
		Availability: availability,
		ImageURL:     imageURL,
		Site:         site.String(),
		URL:          sourceURL,
	}, nil
}

// firstText tries selectors in order and returns the first non-empty
// trimmed text of any matching element.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		var text string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := strings.TrimSpace(s.Text()); t != "" {
				text = t
				return false
			}
			return true
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// firstImage tries image selectors in order and returns the first
// element's src attribute, rewritten to an absolute URL when it is a
// root-relative path. A relative (non-root) path is left unresolved.
func firstImage(doc *goquery.Document, selectors []string, sourceURL string) string {
	for _, selector := range selectors {
		var src string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v, ok := s.Attr("src"); ok && strings.TrimSpace(v) != "" {
				src = strings.TrimSpace(v)
				return false
			}
			return true
		})
		if src != "" {
			return resolveImageURL(src, sourceURL)
		}
	}
	return ""
}

func resolveImageURL(src, sourceURL string) string {
	if !strings.HasPrefix(src, "/") {
		return src
	}
	u, err := url.Parse(sourceURL)
	if err != nil {
		return src
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, src)
}
