// Package category derives stable category names from raw appointment
// type labels.
//
// Labels arrive as pipe-delimited strings mixing price markers, staff
// names in parentheses, and the service being booked, for example
// "FREE | Product Development Help Desk (Jane Doe)". The classifier
// picks the part that names the service and normalizes it into a
// filesystem-safe category such as "product_development_help_desk".
// The mapping is deterministic: the same label always yields the same
// category, so records for one service accumulate in one file.
package category

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
)

// DefaultName is the category used when a label cannot be classified
// or normalizes to something too short to be meaningful.
const DefaultName = "unknown_form_type"

var (
	pricePrefix   = regexp.MustCompile(`^(free|paid|\$\d+)`)
	labelPrefix   = regexp.MustCompile(`^[^:]+:\s*`)
	pricePipe     = regexp.MustCompile(`(?i)^(FREE|PAID|\$\d+)\s*\|\s*`)
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]+`)
)

// namePatterns mark text as a service description rather than a
// person's name, independent of the configured keywords.
var namePatterns = []string{"help desk", "q&a", "session", "appointment", "workshop"}

// DefaultKeywords returns the stock service keywords recognized in
// appointment type labels.
func DefaultKeywords() []string {
	return []string{
		"help desk", "helpdesk", "q&a", "q & a", "session",
		"essentials", "advising", "workshop", "clinic",
	}
}

// Classifier maps appointment type labels to category names.
type Classifier struct {
	keywords []string
	fallback string
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithKeywords replaces the keyword list used to spot the service part
// of a label. Keywords are matched case-insensitively as substrings.
func WithKeywords(keywords ...string) Option {
	return func(c *Classifier) error {
		c.keywords = nil
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			c.keywords = append(c.keywords, kw)
		}
		return nil
	}
}

// WithFallback replaces the category used for labels that look like a
// bare person's name, such as one-on-one advisor bookings.
func WithFallback(name string) Option {
	return func(c *Classifier) error {
		if name == "" {
			return errors.NewValidationError("fallback", name, "must not be empty")
		}
		c.fallback = name
		return nil
	}
}

// New creates a Classifier. Without options it recognizes no keywords
// and falls back to DefaultName.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{
		fallback: DefaultName,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying classifier option: %w", err)
		}
	}
	return c, nil
}

// Categorize maps a raw appointment type label to its category name.
func (c *Classifier) Categorize(label string) string {
	parts := splitLabel(label)
	return c.clean(c.extract(parts))
}

// Filename returns the category file name for a label.
func (c *Classifier) Filename(label string) string {
	return c.Categorize(label) + ".csv"
}

// splitLabel breaks a label on pipes and trims each part.
func splitLabel(label string) []string {
	parts := strings.Split(label, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// extract picks the part of the label that names the service. Price
// markers are skipped, parenthesized staff names are skipped, and the
// first part carrying a configured keyword wins.
func (c *Classifier) extract(parts []string) string {
	for _, part := range parts {
		lower := strings.ToLower(part)

		if pricePrefix.MatchString(lower) {
			continue
		}

		if strings.Contains(part, "(") && strings.Contains(part, ")") {
			beforeParen := strings.TrimSpace(strings.SplitN(part, "(", 2)[0])
			if c.containsKeyword(strings.ToLower(beforeParen)) {
				return beforeParen
			}
			if c.looksLikePersonName(beforeParen) {
				continue
			}
		}

		if c.containsKeyword(lower) {
			return part
		}
	}
	return c.fallbackName(parts)
}

// fallbackName handles labels with no keyword match. Labels that look
// like a bare person's name map to the configured fallback; otherwise
// the first substantial part stands in for the service.
func (c *Classifier) fallbackName(parts []string) string {
	label := strings.Join(parts, " | ")

	if len(parts) > 0 && strings.Contains(parts[0], "(") {
		beforeParen := strings.TrimSpace(strings.SplitN(parts[0], "(", 2)[0])
		if c.looksLikePersonName(beforeParen) {
			return c.fallback
		}
	}

	likelyName := len(parts) <= 2 &&
		len(strings.Fields(label)) <= 4 &&
		startsUpper(label) &&
		!c.containsKeyword(strings.ToLower(label))
	if likelyName {
		return c.fallback
	}

	for _, part := range parts {
		if utf8.RuneCountInString(part) > 10 && !pricePrefix.MatchString(strings.ToLower(part)) {
			return part
		}
	}

	if label != "" {
		return label
	}
	return c.fallback
}

// looksLikePersonName reports whether text reads like a person's name:
// short, capitalized, and free of service keywords.
func (c *Classifier) looksLikePersonName(text string) bool {
	if len(strings.Fields(text)) > 5 {
		return false
	}
	if !startsUpper(text) {
		return false
	}
	lower := strings.ToLower(text)
	if c.containsKeyword(lower) {
		return false
	}
	for _, pattern := range namePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

func (c *Classifier) containsKeyword(lower string) bool {
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// clean normalizes a service name into a category: prefixes, price
// markers, and parentheticals drop, everything non-alphanumeric folds
// to underscores.
func (c *Classifier) clean(name string) string {
	name = labelPrefix.ReplaceAllString(name, "")
	name = pricePipe.ReplaceAllString(name, "")
	name = parenthetical.ReplaceAllString(name, "")

	cleaned := strings.ToLower(name)
	cleaned = nonAlnum.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_")

	if len(cleaned) < constants.MinCategoryNameLength {
		return DefaultName
	}
	if len(cleaned) > constants.MaxCategoryNameLength {
		cleaned = cleaned[:constants.MaxCategoryNameLength]
	}
	return cleaned
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsUpper(r)
}
