package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PriceMarkupRate is applied to every base price on export.
const PriceMarkupRate = 1.15

// Package-level compiled regex patterns for performance
var (
	// trailingPriceRegex matches a price substring glued to the end of a
	// title ("Spor Ayakkabı 1.234,56 TL").
	trailingPriceRegex = regexp.MustCompile(`[0-9][0-9.,]*\s*(TL|₺)\s*$`)

	// anyPriceRegex matches price substrings anywhere in a text block.
	anyPriceRegex = regexp.MustCompile(`[0-9][0-9.,]*\s*(TL|₺)`)

	// lowStockMarkerRegex matches the urgency markers the template injects
	// next to the product name ("Tükenmek Üzere!", "Son 3 Ürün!").
	lowStockMarkerRegex = regexp.MustCompile(`(?i)(tükenmek üzere!?|son\s+[0-9]+\s+ürün!?)`)

	// priceCharsRegex keeps only digits and the decimal comma of the source
	// locale; dots are thousands separators and are dropped entirely.
	priceCharsRegex = regexp.MustCompile(`[^0-9,]`)

	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	nonAlphanumRunRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// CleanTitle runs the title normalization steps in their fixed order:
// strip a trailing price, strip the low-stock marker, collapse whitespace,
// drop a duplicated leading brand token. Each step is independent so the
// order stays auditable.
func CleanTitle(raw string) string {
	s := stripTrailingPrice(raw)
	s = stripLowStockMarker(s)
	s = collapseWhitespace(s)
	s = dedupeLeadingToken(s)
	return s
}

func stripTrailingPrice(s string) string {
	return strings.TrimSpace(trailingPriceRegex.ReplaceAllString(s, ""))
}

// stripPrices removes price substrings anywhere in the text; used for the
// first-block title fallback where the price sits mid-block.
func stripPrices(s string) string {
	return anyPriceRegex.ReplaceAllString(s, " ")
}

func stripLowStockMarker(s string) string {
	return lowStockMarkerRegex.ReplaceAllString(s, " ")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}

// dedupeLeadingToken collapses "Mavi Mavi Slim Jean" to "Mavi Slim Jean";
// the state fragment prefixes the brand even when the name already starts
// with it.
func dedupeLeadingToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) >= 2 && strings.EqualFold(fields[0], fields[1]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// CleanPriceText reduces raw price text to a parseable decimal: everything
// except digits and the decimal comma is removed, then the comma becomes a
// dot ("1.234,56 TL" -> "1234.56").
func CleanPriceText(raw string) string {
	s := priceCharsRegex.ReplaceAllString(raw, "")
	return strings.ReplaceAll(s, ",", ".")
}

// ParsePrice parses cleaned price text into a positive decimal value.
func ParsePrice(raw string) (float64, bool) {
	cleaned := CleanPriceText(raw)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// RoundTo2 rounds to two decimals, half away from zero.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MarkedUpPrice returns the export price for a base price.
func MarkedUpPrice(base float64) float64 {
	return RoundTo2(base * PriceMarkupRate)
}

// FormatPrice renders a price the way the import format expects it.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Dotless ı and dotted İ do not decompose, so NFD folding never reaches
// them; map them by hand before the generic fold.
var turkishReplacer = strings.NewReplacer("ı", "i", "İ", "I")

// FoldDiacritics maps locale-specific letters to their ASCII equivalents
// ("Ayakkabı" -> "Ayakkabi", "Gömlek" -> "Gomlek").
func FoldDiacritics(s string) string {
	s = turkishReplacer.Replace(s)
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeKeyword prepares a string for taxonomy matching: trim, fold
// diacritics, lowercase.
func NormalizeKeyword(s string) string {
	return strings.ToLower(FoldDiacritics(strings.TrimSpace(s)))
}

// Slugify derives the URL-safe export handle: folded lowercase with
// non-alphanumeric runs collapsed to single dashes.
func Slugify(s string) string {
	s = strings.ToLower(FoldDiacritics(s))
	s = nonAlphanumRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
