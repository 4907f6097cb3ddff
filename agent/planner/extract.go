package planner

import (
	"regexp"
	"strings"
)

var (
	orderIDPattern   = regexp.MustCompile(`(?i)\border(?:\s*(?:id|no\.?|number))?\s*[:#-]*\s*([A-Za-z0-9][A-Za-z0-9-]{2,})`)
	productIDPattern = regexp.MustCompile(`(?i)\b(?:product(?:\s*id)?|sku)\b\s*[:#-]*\s*([A-Za-z0-9-]+)`)
	priceCapPattern  = regexp.MustCompile(`(?i)\b(?:under|less than)\s+(\d+)`)
	prefixPattern    = regexp.MustCompile(`^(tell me about|can you tell me about|what is|what are|show me)\s+`)
	productRefPat    = regexp.MustCompile(`product\s+(\d+)`)
	digitPattern     = regexp.MustCompile(`\d`)
)

var trackingKeywords = []string{"order", "track", "delivery", "shipment"}

var escalationKeywords = []string{"human", "agent", "representative", "support"}

var similarKeywords = []string{"similar", "compare", "alternatives"}

var pronounWords = []string{"it", "that", "same", "this"}

var colorWords = []string{
	"red", "blue", "green", "black", "white", "yellow",
	"pink", "grey", "gray", "brown", "purple", "orange",
}

// ExtractOrderID pulls an order identifier out of the transcript: the keyword
// "order" (optionally "order id", "order#", "order no") followed by a token of
// three or more alphanumerics containing at least one digit.
func ExtractOrderID(text string) string {
	m := orderIDPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	id := strings.Trim(m[1], "-")
	if len(id) < 3 || !digitPattern.MatchString(id) {
		return ""
	}
	return id
}

// ExtractProductID pulls an explicit product or sku reference from the text.
func ExtractProductID(text string) string {
	m := productIDPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractPriceCap returns the raw "under N" / "less than N" match, or "".
func extractPriceCap(text string) string {
	m := priceCapPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// NormalizeQuery converts a conversational utterance into a retrieval-friendly
// form: lowercased, conversational prefixes stripped, bare product references
// expanded. This improves recall without bypassing semantic search.
func NormalizeQuery(transcript string) string {
	text := strings.ToLower(strings.TrimSpace(transcript))
	text = strings.TrimRight(text, ".?!")
	text = prefixPattern.ReplaceAllString(text, "")
	text = productRefPat.ReplaceAllString(text, "product $1 description ecommerce catalog")
	return strings.TrimSpace(text)
}

func containsWord(text string, words []string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

func firstWordMatch(text string, words []string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return w
			}
		}
	}
	return ""
}
