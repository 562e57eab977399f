package domain

// VariantLabels carries the localized option names a category uses on the
// export side. Footwear sizes are labelled "Numara", apparel sizes "Beden";
// Material is only set for categories where the material attribute is worth
// surfacing as a tag.
type VariantLabels struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
}

// CategoryConfig is the classifier output for one product: the target
// platform category path plus the per-category export settings. Values are
// copied out of the static rule table and never mutated afterwards.
type CategoryConfig struct {
	// CategoryPath is the target taxonomy path, root-to-leaf,
	// "A > B > C" form as the import format expects it.
	CategoryPath string `json:"categoryPath"`
	// ProductType is the short type label for the Type column.
	ProductType string `json:"productType,omitempty"`
	Labels      VariantLabels
	// DefaultStockQuantity is used for every emitted variant row; source
	// pages expose stock flags, not reliable counts.
	DefaultStockQuantity int `json:"defaultStockQuantity"`
	// HasVariants gates variant expansion: categories sold as single items
	// (bags, wallets) export exactly one row even when options were parsed.
	HasVariants bool `json:"hasVariants"`
	// AttributeAllowlist names the source attributes worth keeping in the
	// export body. Empty means keep everything.
	AttributeAllowlist []string `json:"attributeAllowlist,omitempty"`
}

// AllowsAttribute reports whether the named source attribute survives into
// the export body table.
func (c CategoryConfig) AllowsAttribute(name string) bool {
	if len(c.AttributeAllowlist) == 0 {
		return true
	}
	for _, allowed := range c.AttributeAllowlist {
		if allowed == name {
			return true
		}
	}
	return false
}

// CategoryRule is one entry of the classification table: a normalized
// keyword and the config selected when the keyword is contained in any of
// the product's category strings. Rules are evaluated in declared order, so
// specific keywords must precede generic ones.
type CategoryRule struct {
	Keyword string
	Config  CategoryConfig
}
