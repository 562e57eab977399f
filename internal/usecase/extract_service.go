package usecase

import (
	"log"
	"strings"

	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/rawpage"
)

// Selectors of the product page template. Fields with more than one source
// declare their priority as ordered strategy lists below.
const (
	selProductHeading  = "h1.product-name"
	selBrandLink       = "a.brand-link"
	selFirstInfoBlock  = "div.product-detail-info"
	selDescription     = "div.product-description"
	selBreadcrumbLinks = "ul.breadcrumb li a"
	selCategoryPath    = "div.detail-category-path"
)

// priceSelectors are tried in order; a running campaign renders the
// discounted price next to the struck-out selling price, so discounted has
// to win.
var priceSelectors = []string{
	"div.price-box span.discounted",
	"div.price-box span.selling",
	"div.product-price span.current",
}

const (
	// homeCrumb is the storefront root breadcrumb, never a category.
	homeCrumb = "anasayfa"

	// colorQualifierSeparator splits a display color from its internal
	// qualifier ("Siyah - 23K05").
	colorQualifierSeparator = " - "

	// colorAttributeName is the linked-data attribute carrying colors.
	colorAttributeName = "Renk"

	// defaultCategoryName is assigned when no category source yields
	// anything; the classifier maps it to the generic apparel bucket.
	defaultCategoryName = "Giyim"
)

// A textStrategy resolves one text field from one source. The strategies of
// a field run in list order until one returns a usable value, which makes
// the fallback priority an explicit, testable artifact.
type textStrategy struct {
	name    string
	extract func(p *rawpage.Page) string
}

type listStrategy struct {
	name    string
	extract func(p *rawpage.Page) []string
}

var titleStrategies = []textStrategy{
	{"state", titleFromState},
	{"heading", titleFromHeading},
	{"info-block", titleFromInfoBlock},
}

var categoryStrategies = []listStrategy{
	{"state-hierarchy", categoriesFromState},
	{"breadcrumbs", categoriesFromBreadcrumbs},
	{"category-path", categoriesFromPathLabel},
}

// sizeStrategies cover the structured-state shapes that carry size options,
// newest template version first. The stock filter decides inclusion per
// shape; a page normally carries exactly one shape.
var sizeStrategies = []struct {
	name    string
	source  domain.VariantSource
	entries func(p *rawpage.Page) []domain.StockEntry
}{
	{"detailed", domain.SourceDetailed, sizeEntriesDetailed},
	{"flat", domain.SourceFlat, sizeEntriesFlat},
	{"grouped", domain.SourceGrouped, sizeEntriesGrouped},
}

// ExtractConfig tunes extraction behavior.
type ExtractConfig struct {
	// KeepTrailingImage disables dropping the last gallery image. The
	// default matches the live template, whose gallery always ends in a
	// thumbnail or video placeholder slot.
	KeepTrailingImage bool

	EnableDebugLogging bool
}

// ExtractService turns a parsed page into a validated product record by
// running the per-field strategy chains.
type ExtractService struct {
	images            *ImageNormalizer
	keepTrailingImage bool
	debug             bool
}

func NewExtractService(cfg ExtractConfig) *ExtractService {
	return &ExtractService{
		images:            NewImageNormalizer(),
		keepTrailingImage: cfg.KeepTrailingImage,
		debug:             cfg.EnableDebugLogging,
	}
}

// Extract resolves one product record from the page. Extraction is all or
// nothing: a missing required field fails the whole page with a
// MissingFieldError and no partial record is ever returned.
func (s *ExtractService) Extract(page *rawpage.Page) (*domain.ProductRecord, error) {
	rec := &domain.ProductRecord{URL: page.URL}

	title, err := s.extractTitle(page)
	if err != nil {
		return nil, err
	}
	rec.Title = title
	rec.Brand = extractBrand(page)

	base, err := s.extractPrice(page)
	if err != nil {
		return nil, err
	}
	rec.BasePrice = base
	rec.MarkedUpPrice = MarkedUpPrice(base)

	images, err := s.extractImages(page)
	if err != nil {
		return nil, err
	}
	rec.Images = images

	rec.Description = extractDescription(page)
	rec.Variants = domain.Variants{
		Sizes:  extractSizes(page),
		Colors: extractColors(page),
	}
	rec.Attributes = extractAttributes(page)
	rec.Categories = s.extractCategories(page, rec.Title)
	rec.Tags = append([]string(nil), rec.Categories...)

	return rec, nil
}

func (s *ExtractService) extractTitle(page *rawpage.Page) (string, error) {
	for _, strat := range titleStrategies {
		if title := CleanTitle(strat.extract(page)); title != "" {
			s.debugf("[EXTRACT] title %q via %s strategy", title, strat.name)
			return title, nil
		}
	}
	return "", &domain.MissingFieldError{Field: domain.FieldTitle}
}

func titleFromState(p *rawpage.Page) string {
	for _, st := range p.States() {
		name := strings.TrimSpace(st.Product.Name)
		if name == "" {
			continue
		}
		return joinBrandName(st.Product.Brand.Name, name)
	}
	return ""
}

func titleFromHeading(p *rawpage.Page) string {
	heading := p.Text(selProductHeading)
	if heading == "" {
		return ""
	}
	return joinBrandName(p.Text(selBrandLink), heading)
}

// titleFromInfoBlock is the last resort: the first info block holds the
// name but also the price text, which gets stripped before cleanup.
func titleFromInfoBlock(p *rawpage.Page) string {
	return stripPrices(p.Text(selFirstInfoBlock))
}

// joinBrandName prefixes the brand unless the name already starts with it.
func joinBrandName(brand, name string) string {
	brand = strings.TrimSpace(brand)
	name = strings.TrimSpace(name)
	if brand == "" || strings.HasPrefix(strings.ToLower(name), strings.ToLower(brand)) {
		return name
	}
	return brand + " " + name
}

func extractBrand(p *rawpage.Page) string {
	for _, st := range p.States() {
		if brand := strings.TrimSpace(st.Product.Brand.Name); brand != "" {
			return brand
		}
	}
	return p.Text(selBrandLink)
}

func (s *ExtractService) extractPrice(page *rawpage.Page) (float64, error) {
	for _, sel := range priceSelectors {
		if v, ok := ParsePrice(page.Text(sel)); ok {
			s.debugf("[EXTRACT] price %.2f via selector %q", v, sel)
			return v, nil
		}
	}
	for _, st := range page.States() {
		price := st.Product.Price
		if price == nil {
			continue
		}
		for _, amount := range []rawpage.Amount{price.DiscountedPrice, price.SellingPrice} {
			if v, ok := amountPrice(amount); ok {
				s.debugf("[EXTRACT] price %.2f via state", v)
				return v, nil
			}
		}
	}
	return 0, &domain.MissingFieldError{Field: domain.FieldPrice}
}

func amountPrice(a rawpage.Amount) (float64, bool) {
	if a.Value > 0 {
		return a.Value, true
	}
	return ParsePrice(a.Text)
}

// extractImages collects the state gallery, normalizes and dedups it in
// order, then applies the trailing-image policy.
func (s *ExtractService) extractImages(page *rawpage.Page) ([]string, error) {
	seen := make(map[string]bool)
	var images []string
	for _, st := range page.States() {
		for _, raw := range st.Product.Images {
			u := s.images.Normalize(raw)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			images = append(images, u)
		}
	}
	if !s.keepTrailingImage && len(images) > 0 {
		images = images[:len(images)-1]
	}
	if len(images) == 0 {
		return nil, &domain.MissingFieldError{Field: domain.FieldImages}
	}
	return images, nil
}

// extractSizes tries the variant shapes in priority order. A shape that is
// present owns the answer even when every option filters out; falling
// through to another shape would fabricate availability.
func extractSizes(page *rawpage.Page) []string {
	for _, strat := range sizeStrategies {
		entries := strat.entries(page)
		if len(entries) == 0 {
			continue
		}
		return FilterInStock(entries, strat.source)
	}
	return nil
}

func sizeEntriesDetailed(p *rawpage.Page) []domain.StockEntry {
	var entries []domain.StockEntry
	for _, st := range p.States() {
		for _, v := range st.Product.Variants {
			entries = append(entries, domain.StockEntry{
				Value:    v.AttributeValue,
				InStock:  v.InStock,
				Sellable: v.Sellable,
				Quantity: v.Stock,
				Price:    v.Price.Value,
			})
		}
	}
	return entries
}

func sizeEntriesFlat(p *rawpage.Page) []domain.StockEntry {
	var entries []domain.StockEntry
	for _, st := range p.States() {
		for _, v := range st.Product.AllVariants {
			entries = append(entries, domain.StockEntry{
				Value:    v.Value,
				InStock:  v.InStock,
				Sellable: v.Sellable,
			})
		}
	}
	return entries
}

// sizeGroupNames are the grouped-shape attribute names that carry the size
// axis, in normalized form.
var sizeGroupNames = map[string]bool{
	"beden":  true,
	"numara": true,
	"ebat":   true,
}

func sizeEntriesGrouped(p *rawpage.Page) []domain.StockEntry {
	var entries []domain.StockEntry
	for _, st := range p.States() {
		for _, group := range st.Product.SlicedAttributes {
			if !sizeGroupNames[NormalizeKeyword(group.Name)] {
				continue
			}
			for _, opt := range group.Attributes {
				entries = append(entries, domain.StockEntry{
					Value:    opt.Text,
					InStock:  opt.InStock,
					Sellable: opt.Sellable,
				})
			}
		}
	}
	return entries
}

// extractColors prefers the state color field, falling back to the
// linked-data color attribute, whose value may be a comma list.
func extractColors(page *rawpage.Page) []string {
	seen := make(map[string]bool)
	var colors []string
	add := func(raw string) {
		c := strings.TrimSpace(raw)
		if c != "" && !seen[c] {
			seen[c] = true
			colors = append(colors, c)
		}
	}

	for _, st := range page.States() {
		if st.Product.Color == "" {
			continue
		}
		color, _, _ := strings.Cut(st.Product.Color, colorQualifierSeparator)
		add(color)
	}
	if len(colors) > 0 {
		return colors
	}

	for _, lp := range page.LinkedProducts() {
		for _, prop := range lp.AdditionalProperty {
			if !strings.EqualFold(strings.TrimSpace(prop.Name), colorAttributeName) {
				continue
			}
			for _, part := range strings.Split(prop.Value.String(), ",") {
				add(part)
			}
		}
	}
	return colors
}

// extractAttributes flattens the linked-data additional properties; the
// first occurrence of a name wins.
func extractAttributes(page *rawpage.Page) map[string]string {
	attrs := make(map[string]string)
	for _, lp := range page.LinkedProducts() {
		for _, prop := range lp.AdditionalProperty {
			name := strings.TrimSpace(prop.Name)
			if name == "" {
				continue
			}
			value := strings.TrimSpace(prop.Value.String())
			if value == "" {
				value = strings.TrimSpace(prop.UnitText)
			}
			if value == "" {
				continue
			}
			if _, ok := attrs[name]; !ok {
				attrs[name] = value
			}
		}
	}
	return attrs
}

// extractCategories never fails: after the source strategies it falls back
// to title keywords and finally to the default category.
func (s *ExtractService) extractCategories(page *rawpage.Page, title string) []string {
	for _, strat := range categoryStrategies {
		if cats := strat.extract(page); len(cats) > 0 {
			s.debugf("[EXTRACT] categories %v via %s strategy", cats, strat.name)
			return cats
		}
	}
	if cats := categoriesFromTitle(title); len(cats) > 0 {
		s.debugf("[EXTRACT] categories %v via title keywords", cats)
		return cats
	}
	s.debugf("[EXTRACT] no category source, using %q", defaultCategoryName)
	return []string{defaultCategoryName}
}

func categoriesFromState(p *rawpage.Page) []string {
	for _, st := range p.States() {
		var cats []string
		for _, c := range st.Product.CategoryHierarchy {
			if name := strings.TrimSpace(c.Name); name != "" {
				cats = append(cats, name)
			}
		}
		if len(cats) > 0 {
			return cats
		}
	}
	return nil
}

func categoriesFromBreadcrumbs(p *rawpage.Page) []string {
	var cats []string
	for _, crumb := range p.Texts(selBreadcrumbLinks) {
		if NormalizeKeyword(crumb) == homeCrumb {
			continue
		}
		cats = append(cats, crumb)
	}
	return cats
}

func categoriesFromPathLabel(p *rawpage.Page) []string {
	var cats []string
	for _, part := range strings.Split(p.Text(selCategoryPath), "/") {
		if part = strings.TrimSpace(part); part != "" {
			cats = append(cats, part)
		}
	}
	return cats
}

// titleCategoryKeywords map folded title keywords to a display category,
// specific types first.
var titleCategoryKeywords = []struct {
	keyword  string
	category string
}{
	{"sneaker", "Sneaker"},
	{"bot", "Bot"},
	{"sandalet", "Sandalet"},
	{"ayakkabi", "Ayakkabı"},
	{"elbise", "Elbise"},
	{"gomlek", "Gömlek"},
	{"tisort", "Tişört"},
	{"pantolon", "Pantolon"},
	{"etek", "Etek"},
	{"canta", "Çanta"},
}

func categoriesFromTitle(title string) []string {
	folded := NormalizeKeyword(title)
	for _, entry := range titleCategoryKeywords {
		if strings.Contains(folded, entry.keyword) {
			return []string{entry.category}
		}
	}
	return nil
}

func extractDescription(p *rawpage.Page) string {
	for _, st := range p.States() {
		if desc := strings.TrimSpace(st.Product.Description); desc != "" {
			return desc
		}
	}
	return p.Text(selDescription)
}

func (s *ExtractService) debugf(format string, args ...interface{}) {
	if s.debug {
		log.Printf(format, args...)
	}
}
