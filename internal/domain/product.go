package domain

// ProductRecord is the canonical, validated representation of one scraped
// product page. It is produced by the extraction pipeline and consumed by the
// classifier, the CSV serializer and the product store.
type ProductRecord struct {
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	Brand         string            `json:"brand,omitempty"`
	Description   string            `json:"description,omitempty"`
	BasePrice     float64           `json:"basePrice"`     // source currency (TRY)
	MarkedUpPrice float64           `json:"markedUpPrice"` // basePrice * 1.15, 2 decimals
	Images        []string          `json:"images"`        // normalized, deduplicated, ordered
	Variants      Variants          `json:"variants"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Categories    []string          `json:"categories"` // root-to-leaf
	Tags          []string          `json:"tags,omitempty"`
}

// Variants holds the in-stock option values of a product. Order follows the
// source page; values are unique within each list.
type Variants struct {
	Sizes  []string `json:"sizes,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

// HasOptions reports whether the record carries any sellable variant options.
func (v Variants) HasOptions() bool {
	return len(v.Sizes) > 0 || len(v.Colors) > 0
}

// StockEntry is the availability snapshot of one raw variant option. It only
// exists during extraction; the stock filter decides which options survive
// into the ProductRecord.
type StockEntry struct {
	Value    string
	InStock  bool
	Sellable bool
	Quantity int
	Price    float64 // optional per-variant override, 0 if absent
}

// VariantSource identifies which embedded-state shape a stock entry came
// from. Different shapes expose stock signals with different completeness,
// so the inclusion rule depends on the source.
type VariantSource int

const (
	// SourceDetailed is the per-SKU variant list carrying full stock data.
	SourceDetailed VariantSource = iota
	// SourceFlat is the flat option value list (inStock flag only).
	SourceFlat
	// SourceGrouped is the grouped attribute list (per-group option values).
	SourceGrouped
)

func (s VariantSource) String() string {
	switch s {
	case SourceDetailed:
		return "detailed"
	case SourceFlat:
		return "flat"
	case SourceGrouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// Validate checks the invariants every extracted record must satisfy:
// non-empty title, a positive base price, at least one image and at least
// one category. A violation is reported as a MissingFieldError so callers
// can tell which field broke the record.
func (r *ProductRecord) Validate() error {
	if r.Title == "" {
		return &MissingFieldError{Field: FieldTitle}
	}
	if r.BasePrice <= 0 {
		return &MissingFieldError{Field: FieldPrice}
	}
	if len(r.Images) == 0 {
		return &MissingFieldError{Field: FieldImages}
	}
	if len(r.Categories) == 0 {
		return &MissingFieldError{Field: FieldCategories}
	}
	return nil
}
