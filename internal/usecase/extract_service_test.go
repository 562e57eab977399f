package usecase

import (
	"reflect"
	"strings"
	"testing"

	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/rawpage"
)

func mustParse(t *testing.T, html string) *rawpage.Page {
	t.Helper()
	page, err := rawpage.Parse("https://www.modavera.com/test-p-1", strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return page
}

// statePage embeds the given JSON as the window state global inside a
// minimal document.
func statePage(stateJSON, body string) string {
	return `<html><head><script>window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = ` +
		stateJSON + `;</script></head><body>` + body + `</body></html>`
}

const fullStateJSON = `{"product":{
	"name":"Air Sneaker",
	"brand":{"name":"Nike"},
	"description":"Hafif ve rahat",
	"price":{"discountedPrice":{"value":1234.56,"text":"1.234,56 TL"},"sellingPrice":{"value":1499.99,"text":"1.499,99 TL"}},
	"images":["/product/media/img1.jpg","/product/media/img2.jpg","/product/media/video_thumb.jpg"],
	"categoryHierarchy":[{"name":"Ayakkabı"},{"name":"Sneaker"}],
	"color":"Siyah - 23K10",
	"variants":[
		{"attributeName":"Numara","attributeValue":"38","inStock":true,"sellable":true,"stock":4,"price":{"value":1234.56}},
		{"attributeName":"Numara","attributeValue":"39","inStock":false,"sellable":true,"stock":0},
		{"attributeName":"Numara","attributeValue":"40","inStock":true,"sellable":false,"stock":2}
	]
}}`

const fullStateBody = `
<h1 class="product-name">Nike Air Sneaker</h1>
<a class="brand-link" href="/nike">Nike</a>
<div class="price-box"><span class="selling">1.499,99 TL</span><span class="discounted">1.234,56 TL</span></div>
<ul class="breadcrumb"><li><a href="/">Anasayfa</a></li><li><a href="/ayakkabi">Ayakkabı</a></li></ul>`

func TestExtractService_FullPage(t *testing.T) {
	s := NewExtractService(ExtractConfig{})
	page := mustParse(t, statePage(fullStateJSON, fullStateBody))

	rec, err := s.Extract(page)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Title != "Nike Air Sneaker" {
		t.Errorf("Title = %q, want %q", rec.Title, "Nike Air Sneaker")
	}
	if rec.Brand != "Nike" {
		t.Errorf("Brand = %q, want Nike", rec.Brand)
	}
	// The discounted selector outranks everything else.
	if rec.BasePrice != 1234.56 {
		t.Errorf("BasePrice = %v, want 1234.56", rec.BasePrice)
	}
	if rec.MarkedUpPrice != 1419.74 {
		t.Errorf("MarkedUpPrice = %v, want 1419.74", rec.MarkedUpPrice)
	}
	if rec.Description != "Hafif ve rahat" {
		t.Errorf("Description = %q, want %q", rec.Description, "Hafif ve rahat")
	}

	// Three gallery entries, the trailing placeholder dropped.
	wantImages := []string{
		"https://cdn.modavera.com/product/media/img1_org_zoom.jpg",
		"https://cdn.modavera.com/product/media/img2_org_zoom.jpg",
	}
	if !reflect.DeepEqual(rec.Images, wantImages) {
		t.Errorf("Images = %v, want %v", rec.Images, wantImages)
	}

	// Detailed variants trust inStock alone.
	if !reflect.DeepEqual(rec.Variants.Sizes, []string{"38", "40"}) {
		t.Errorf("Sizes = %v, want [38 40]", rec.Variants.Sizes)
	}
	if !reflect.DeepEqual(rec.Variants.Colors, []string{"Siyah"}) {
		t.Errorf("Colors = %v, want [Siyah]", rec.Variants.Colors)
	}

	if !reflect.DeepEqual(rec.Categories, []string{"Ayakkabı", "Sneaker"}) {
		t.Errorf("Categories = %v, want [Ayakkabı Sneaker]", rec.Categories)
	}
	if !reflect.DeepEqual(rec.Tags, rec.Categories) {
		t.Errorf("Tags = %v, want same as categories", rec.Tags)
	}
	if rec.URL != page.URL {
		t.Errorf("URL = %q, want %q", rec.URL, page.URL)
	}
}

func TestExtractService_KeepTrailingImage(t *testing.T) {
	s := NewExtractService(ExtractConfig{KeepTrailingImage: true})
	page := mustParse(t, statePage(fullStateJSON, fullStateBody))

	rec, err := s.Extract(page)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(rec.Images) != 3 {
		t.Errorf("len(Images) = %d, want 3", len(rec.Images))
	}
}

func TestExtractService_TitleFallbacks(t *testing.T) {
	t.Run("heading when state has no name", func(t *testing.T) {
		s := NewExtractService(ExtractConfig{})
		state := `{"product":{"images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		body := `<h1 class="product-name">Midi Elbise</h1>
			<a class="brand-link">Zara</a>
			<div class="price-box"><span class="selling">899,99 TL</span></div>`
		rec, err := s.Extract(mustParse(t, statePage(state, body)))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if rec.Title != "Zara Midi Elbise" {
			t.Errorf("Title = %q, want %q", rec.Title, "Zara Midi Elbise")
		}
	})

	t.Run("info block with inline price as last resort", func(t *testing.T) {
		s := NewExtractService(ExtractConfig{})
		state := `{"product":{"images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		body := `<div class="product-detail-info">Zara Midi Elbise 899,99 TL</div>
			<div class="price-box"><span class="selling">899,99 TL</span></div>`
		rec, err := s.Extract(mustParse(t, statePage(state, body)))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if rec.Title != "Zara Midi Elbise" {
			t.Errorf("Title = %q, want %q", rec.Title, "Zara Midi Elbise")
		}
	})

	t.Run("state title is not duplicated when name carries the brand", func(t *testing.T) {
		s := NewExtractService(ExtractConfig{})
		state := `{"product":{
			"name":"Nike Court Vision",
			"brand":{"name":"Nike"},
			"price":{"sellingPrice":{"value":2399}},
			"images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if rec.Title != "Nike Court Vision" {
			t.Errorf("Title = %q, want %q", rec.Title, "Nike Court Vision")
		}
	})
}

func TestExtractService_MissingFields(t *testing.T) {
	s := NewExtractService(ExtractConfig{})

	t.Run("no title source", func(t *testing.T) {
		state := `{"product":{"price":{"sellingPrice":{"value":100}},"images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		_, err := s.Extract(mustParse(t, statePage(state, "")))
		if !domain.IsMissingField(err, domain.FieldTitle) {
			t.Errorf("error = %v, want missing title", err)
		}
	})

	t.Run("no price source", func(t *testing.T) {
		state := `{"product":{"name":"Basic Tişört","images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		_, err := s.Extract(mustParse(t, statePage(state, "")))
		if !domain.IsMissingField(err, domain.FieldPrice) {
			t.Errorf("error = %v, want missing price", err)
		}
	})

	t.Run("no usable images", func(t *testing.T) {
		state := `{"product":{"name":"Basic Tişört","price":{"sellingPrice":{"value":100}},"images":["/product/media/clip.mp4"]}}`
		_, err := s.Extract(mustParse(t, statePage(state, "")))
		if !domain.IsMissingField(err, domain.FieldImages) {
			t.Errorf("error = %v, want missing images", err)
		}
	})

	t.Run("single image is consumed by the trailing drop", func(t *testing.T) {
		state := `{"product":{"name":"Basic Tişört","price":{"sellingPrice":{"value":100}},"images":["/product/media/a.jpg"]}}`
		_, err := s.Extract(mustParse(t, statePage(state, "")))
		if !domain.IsMissingField(err, domain.FieldImages) {
			t.Errorf("error = %v, want missing images", err)
		}
	})
}

func TestExtractService_PriceSources(t *testing.T) {
	s := NewExtractService(ExtractConfig{})

	t.Run("state price when no selector matches", func(t *testing.T) {
		state := `{"product":{
			"name":"Basic Tişört",
			"price":{"discountedPrice":{"text":"149,99 TL"},"sellingPrice":{"value":199.99}},
			"images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if rec.BasePrice != 149.99 {
			t.Errorf("BasePrice = %v, want 149.99 (discounted text)", rec.BasePrice)
		}
	})

	t.Run("current price selector as final markup fallback", func(t *testing.T) {
		state := `{"product":{"name":"Basic Tişört","images":["/product/media/a.jpg","/product/media/b.jpg"]}}`
		body := `<div class="product-price"><span class="current">89,90 TL</span></div>`
		rec, err := s.Extract(mustParse(t, statePage(state, body)))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if rec.BasePrice != 89.90 {
			t.Errorf("BasePrice = %v, want 89.90", rec.BasePrice)
		}
	})
}

func TestExtractService_VariantShapes(t *testing.T) {
	s := NewExtractService(ExtractConfig{})

	t.Run("flat shape accepts sellable", func(t *testing.T) {
		state := `{"product":{
			"name":"Basic Tişört",
			"price":{"sellingPrice":{"value":100}},
			"images":["/product/media/a.jpg","/product/media/b.jpg"],
			"allVariants":[
				{"value":"S","inStock":false,"sellable":true},
				{"value":"M","inStock":false,"sellable":false},
				{"value":"L","inStock":true,"sellable":false}
			]}}`
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !reflect.DeepEqual(rec.Variants.Sizes, []string{"S", "L"}) {
			t.Errorf("Sizes = %v, want [S L]", rec.Variants.Sizes)
		}
	})

	t.Run("grouped shape reads only size groups", func(t *testing.T) {
		state := `{"product":{
			"name":"Topuklu Ayakkabı",
			"price":{"sellingPrice":{"value":100}},
			"images":["/product/media/a.jpg","/product/media/b.jpg"],
			"slicedAttributes":[
				{"name":"Renk","attributes":[{"text":"Siyah","inStock":true}]},
				{"name":"Numara","attributes":[{"text":"36","inStock":true},{"text":"37","sellable":true},{"text":"38"}]}
			]}}`
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !reflect.DeepEqual(rec.Variants.Sizes, []string{"36", "37"}) {
			t.Errorf("Sizes = %v, want [36 37]", rec.Variants.Sizes)
		}
	})

	t.Run("detailed shape owns the answer even when sold out", func(t *testing.T) {
		state := `{"product":{
			"name":"Basic Tişört",
			"price":{"sellingPrice":{"value":100}},
			"images":["/product/media/a.jpg","/product/media/b.jpg"],
			"variants":[{"attributeValue":"S","inStock":false,"sellable":true}],
			"allVariants":[{"value":"M","inStock":true}]}}`
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(rec.Variants.Sizes) != 0 {
			t.Errorf("Sizes = %v, want empty", rec.Variants.Sizes)
		}
	})
}

func TestExtractService_ColorFromLinkedData(t *testing.T) {
	s := NewExtractService(ExtractConfig{})
	html := `<html><head>
		<script type="application/ld+json">
		{"@type":"Product","name":"Basic Tişört","additionalProperty":[
			{"name":"Renk","value":"Siyah, Beyaz"},
			{"name":"Kumaş","value":"Pamuk"}
		]}
		</script>
		<script>window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = {"product":{
			"name":"Basic Tişört",
			"price":{"sellingPrice":{"value":100}},
			"images":["/product/media/a.jpg","/product/media/b.jpg"]}};</script>
		</head><body></body></html>`

	rec, err := s.Extract(mustParse(t, html))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !reflect.DeepEqual(rec.Variants.Colors, []string{"Siyah", "Beyaz"}) {
		t.Errorf("Colors = %v, want [Siyah Beyaz]", rec.Variants.Colors)
	}
	if rec.Attributes["Kumaş"] != "Pamuk" {
		t.Errorf("Attributes[Kumaş] = %q, want Pamuk", rec.Attributes["Kumaş"])
	}
	if rec.Attributes["Renk"] != "Siyah, Beyaz" {
		t.Errorf("Attributes[Renk] = %q, want the raw list", rec.Attributes["Renk"])
	}
}

func TestExtractService_CategoryFallbacks(t *testing.T) {
	s := NewExtractService(ExtractConfig{})
	baseState := `{"product":{"name":"%s","price":{"sellingPrice":{"value":100}},"images":["/product/media/a.jpg","/product/media/b.jpg"]}}`

	t.Run("breadcrumbs skip the home crumb", func(t *testing.T) {
		body := `<ul class="breadcrumb"><li><a>Anasayfa</a></li><li><a>Kadın</a></li><li><a>Elbise</a></li></ul>`
		state := strings.Replace(baseState, "%s", "Midi Elbise", 1)
		rec, err := s.Extract(mustParse(t, statePage(state, body)))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !reflect.DeepEqual(rec.Categories, []string{"Kadın", "Elbise"}) {
			t.Errorf("Categories = %v, want [Kadın Elbise]", rec.Categories)
		}
	})

	t.Run("category path label split on slash", func(t *testing.T) {
		body := `<div class="detail-category-path">Kadın / Giyim / Elbise</div>`
		state := strings.Replace(baseState, "%s", "Midi Elbise", 1)
		rec, err := s.Extract(mustParse(t, statePage(state, body)))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !reflect.DeepEqual(rec.Categories, []string{"Kadın", "Giyim", "Elbise"}) {
			t.Errorf("Categories = %v, want [Kadın Giyim Elbise]", rec.Categories)
		}
	})

	t.Run("title keywords when the page has no category source", func(t *testing.T) {
		state := strings.Replace(baseState, "%s", "Oversize Gömlek", 1)
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !reflect.DeepEqual(rec.Categories, []string{"Gömlek"}) {
			t.Errorf("Categories = %v, want [Gömlek]", rec.Categories)
		}
	})

	t.Run("default category as the last resort", func(t *testing.T) {
		state := strings.Replace(baseState, "%s", "Basic Model", 1)
		rec, err := s.Extract(mustParse(t, statePage(state, "")))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !reflect.DeepEqual(rec.Categories, []string{"Giyim"}) {
			t.Errorf("Categories = %v, want [Giyim]", rec.Categories)
		}
	})
}
