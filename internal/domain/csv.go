package domain

// CsvColumns is the fixed column set of the target platform's product import
// format. Order and presence must match exactly or the import round-trip
// breaks.
var CsvColumns = []string{
	"Handle",
	"Title",
	"Body (HTML)",
	"Vendor",
	"Product Category",
	"Custom Product Category",
	"Type",
	"Tags",
	"Published",
	"Option1 Name",
	"Option1 Value",
	"Option2 Name",
	"Option2 Value",
	"Variant SKU",
	"Variant Price",
	"Variant Inventory Policy",
	"Variant Inventory Qty",
	"Variant Grams",
	"Variant Weight Unit",
	"Status",
	"Image Src",
	"Image Position",
}

// CsvRow is one flattened export record: either a full variant row or an
// image-only continuation row (Handle + ImageSrc + ImagePosition, everything
// else blank).
type CsvRow struct {
	Handle          string
	Title           string
	BodyHTML        string
	Vendor          string
	ProductCategory string
	CustomCategory  string
	Type            string
	Tags            string
	Published       string
	Option1Name     string
	Option1Value    string
	Option2Name     string
	Option2Value    string
	VariantSKU      string
	VariantPrice    string
	InventoryPolicy string
	InventoryQty    string
	VariantGrams    string
	WeightUnit      string
	Status          string
	ImageSrc        string
	ImagePosition   string
}

// Record flattens the row into CsvColumns order for the csv writer.
func (r CsvRow) Record() []string {
	return []string{
		r.Handle,
		r.Title,
		r.BodyHTML,
		r.Vendor,
		r.ProductCategory,
		r.CustomCategory,
		r.Type,
		r.Tags,
		r.Published,
		r.Option1Name,
		r.Option1Value,
		r.Option2Name,
		r.Option2Value,
		r.VariantSKU,
		r.VariantPrice,
		r.InventoryPolicy,
		r.InventoryQty,
		r.VariantGrams,
		r.WeightUnit,
		r.Status,
		r.ImageSrc,
		r.ImagePosition,
	}
}
