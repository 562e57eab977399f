package usecase

import (
	"strings"

	"github.com/storeport/backend/internal/domain"
)

// FilterInStock reduces raw variant options to the purchasable ones,
// preserving source order and dropping duplicate display values. The
// per-SKU detailed source is trusted on its own inStock flag; the flat and
// grouped sources understate availability, so either inStock or sellable
// admits the option there.
func FilterInStock(entries []domain.StockEntry, source domain.VariantSource) []string {
	seen := make(map[string]bool, len(entries))
	var options []string
	for _, entry := range entries {
		value := strings.TrimSpace(entry.Value)
		if value == "" || seen[value] {
			continue
		}
		if !stockAccepted(entry, source) {
			continue
		}
		seen[value] = true
		options = append(options, value)
	}
	return options
}

func stockAccepted(entry domain.StockEntry, source domain.VariantSource) bool {
	if source == domain.SourceDetailed {
		return entry.InStock
	}
	return entry.InStock || entry.Sellable
}
