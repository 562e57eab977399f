package usecase

import (
	"log"
	"strings"

	"github.com/storeport/backend/internal/domain"
)

// Fallback stages reported in a Classification.
const (
	FallbackNone    = ""
	FallbackGender  = "gender"
	FallbackDefault = "default"
)

// Classification is the classifier verdict: the selected merchandising
// config plus how it was reached, so callers can log or audit the decision.
type Classification struct {
	Config  domain.CategoryConfig
	Keyword string // table keyword that matched, empty for fallbacks
	Fallback string
}

// CategoryClassifier maps a page's category trail onto the merchandising
// taxonomy. Classification is deterministic: the table is evaluated in
// declared priority order and the first keyword contained in any normalized
// category string wins.
type CategoryClassifier struct {
	table    []domain.CategoryRule
	fallback []domain.CategoryRule
	debug    bool
}

func NewCategoryClassifier(table []domain.CategoryRule) *CategoryClassifier {
	if len(table) == 0 {
		table = DefaultTaxonomy()
	}
	return &CategoryClassifier{
		table:    table,
		fallback: genderFallbacks(),
	}
}

// SetDebug enables decision logging.
func (c *CategoryClassifier) SetDebug(debug bool) {
	c.debug = debug
}

// Classify resolves the category trail to a single config. Order of
// precedence: taxonomy table, gender fallback, hard default. Repeated or
// reordered duplicate inputs cannot change the outcome because the table
// side drives the iteration.
func (c *CategoryClassifier) Classify(categories []string) Classification {
	normalized := make([]string, 0, len(categories))
	for _, raw := range categories {
		if n := NormalizeKeyword(raw); n != "" {
			normalized = append(normalized, n)
		}
	}

	if cls, ok := matchTable(c.table, normalized); ok {
		c.debugf("[CLASSIFY] matched keyword %q for %v", cls.Keyword, categories)
		return cls
	}

	if cls, ok := matchTable(c.fallback, normalized); ok {
		cls.Fallback = FallbackGender
		c.debugf("[CLASSIFY] gender fallback %q for %v", cls.Keyword, categories)
		return cls
	}

	c.debugf("[CLASSIFY] no match for %v, using default", categories)
	return Classification{Config: defaultCategoryConfig(), Fallback: FallbackDefault}
}

func matchTable(table []domain.CategoryRule, normalized []string) (Classification, bool) {
	for _, rule := range table {
		for _, category := range normalized {
			if strings.Contains(category, rule.Keyword) {
				return Classification{Config: rule.Config, Keyword: rule.Keyword}, true
			}
		}
	}
	return Classification{}, false
}

func (c *CategoryClassifier) debugf(format string, args ...interface{}) {
	if c.debug {
		log.Printf(format, args...)
	}
}
