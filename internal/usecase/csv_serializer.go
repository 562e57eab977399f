package usecase

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/storeport/backend/internal/domain"
)

// Fixed column values of the import format.
const (
	publishedTrue       = "TRUE"
	statusActive        = "active"
	inventoryPolicyDeny = "deny"
	defaultVariantGrams = "500"
	weightUnitGrams     = "g"

	defaultSizeLabel  = "Beden"
	defaultColorLabel = "Renk"
)

// CsvSerializer flattens a product record into import rows: one row per
// size/color combination, every variant row carrying the primary image at
// position 1, then one continuation row per remaining gallery image.
type CsvSerializer struct {
	vendorFallback string
}

// NewCsvSerializer returns a serializer that substitutes vendorFallback for
// products whose brand could not be extracted.
func NewCsvSerializer(vendorFallback string) *CsvSerializer {
	return &CsvSerializer{vendorFallback: vendorFallback}
}

// Serialize expands rec into its ordered CSV rows under the classified
// category config. The record is assumed validated; rows come out in a
// stable order for identical inputs.
func (s *CsvSerializer) Serialize(rec *domain.ProductRecord, cfg domain.CategoryConfig) []domain.CsvRow {
	handle := Slugify(rec.Title)
	primaryImage := ""
	if len(rec.Images) > 0 {
		primaryImage = rec.Images[0]
	}

	base := domain.CsvRow{
		Handle:          handle,
		Title:           rec.Title,
		BodyHTML:        buildBodyHTML(rec, cfg),
		Vendor:          s.vendor(rec),
		ProductCategory: cfg.CategoryPath,
		CustomCategory:  cfg.CategoryPath,
		Type:            cfg.ProductType,
		Tags:            s.tags(rec, cfg),
		Published:       publishedTrue,
		VariantPrice:    FormatPrice(rec.MarkedUpPrice),
		InventoryPolicy: inventoryPolicyDeny,
		InventoryQty:    strconv.Itoa(cfg.DefaultStockQuantity),
		VariantGrams:    defaultVariantGrams,
		WeightUnit:      weightUnitGrams,
		Status:          statusActive,
		ImageSrc:        primaryImage,
		ImagePosition:   "1",
	}

	var rows []domain.CsvRow
	if cfg.HasVariants && rec.Variants.HasOptions() {
		rows = expandVariants(base, cfg, rec.Variants)
	} else {
		single := base
		single.VariantSKU = handle
		rows = append(rows, single)
	}

	// Remaining gallery images ride on continuation rows so the import
	// attaches them to the same product.
	for i, img := range rec.Images {
		if i == 0 {
			continue
		}
		rows = append(rows, domain.CsvRow{
			Handle:        handle,
			ImageSrc:      img,
			ImagePosition: strconv.Itoa(i + 1),
		})
	}
	return rows
}

// expandVariants emits the size x color cross product. An empty option list
// contributes a single blank placeholder so the other axis still expands.
func expandVariants(base domain.CsvRow, cfg domain.CategoryConfig, v domain.Variants) []domain.CsvRow {
	sizes := v.Sizes
	if len(sizes) == 0 {
		sizes = []string{""}
	}
	colors := v.Colors
	if len(colors) == 0 {
		colors = []string{""}
	}

	rows := make([]domain.CsvRow, 0, len(sizes)*len(colors))
	for _, size := range sizes {
		for _, color := range colors {
			row := base
			if size != "" {
				row.Option1Name = labelOr(cfg.Labels.Size, defaultSizeLabel)
				row.Option1Value = size
			}
			if color != "" {
				row.Option2Name = labelOr(cfg.Labels.Color, defaultColorLabel)
				row.Option2Value = color
			}
			row.VariantSKU = variantSKU(base.Handle, size, color)
			rows = append(rows, row)
		}
	}
	return rows
}

// variantSKU joins the slugged handle, size and color, skipping absent
// parts.
func variantSKU(handle, size, color string) string {
	parts := []string{handle}
	if s := Slugify(size); s != "" {
		parts = append(parts, s)
	}
	if c := Slugify(color); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "-")
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

func (s *CsvSerializer) vendor(rec *domain.ProductRecord) string {
	if rec.Brand != "" {
		return rec.Brand
	}
	return s.vendorFallback
}

// tags joins the category-derived tags and appends the material attribute
// when the category surfaces one.
func (s *CsvSerializer) tags(rec *domain.ProductRecord, cfg domain.CategoryConfig) string {
	tags := append([]string(nil), rec.Tags...)
	if cfg.Labels.Material != "" {
		if material := strings.TrimSpace(rec.Attributes[cfg.Labels.Material]); material != "" && !containsFold(tags, material) {
			tags = append(tags, material)
		}
	}
	return strings.Join(tags, ", ")
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// buildBodyHTML renders the description paragraph plus the allowlisted
// attribute table. Attribute names are sorted; map iteration order would
// otherwise make consecutive exports differ byte for byte.
func buildBodyHTML(rec *domain.ProductRecord, cfg domain.CategoryConfig) string {
	var b strings.Builder
	if desc := strings.TrimSpace(rec.Description); desc != "" {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(desc))
		b.WriteString("</p>")
	}

	names := make([]string, 0, len(rec.Attributes))
	for name := range rec.Attributes {
		if cfg.AllowsAttribute(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) > 0 {
		b.WriteString("<table>")
		for _, name := range names {
			b.WriteString("<tr><td>")
			b.WriteString(html.EscapeString(name))
			b.WriteString("</td><td>")
			b.WriteString(html.EscapeString(rec.Attributes[name]))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</table>")
	}
	return b.String()
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the rows as a UTF-8 CSV with a BOM so spreadsheet tools
// pick up the Turkish characters, header first.
func WriteCSV(w io.Writer, rows []domain.CsvRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.CsvColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("writing row %s: %w", row.Handle, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
