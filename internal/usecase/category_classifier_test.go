package usecase

import (
	"testing"
)

func TestCategoryClassifier_Classify(t *testing.T) {
	c := NewCategoryClassifier(nil)

	testCases := []struct {
		name         string
		categories   []string
		wantType     string
		wantKeyword  string
		wantFallback string
	}{
		{
			name:        "specific keyword beats generic from the same trail",
			categories:  []string{"Ayakkabı", "Sneaker"},
			wantType:    "Sneaker",
			wantKeyword: "sneaker",
		},
		{
			name:        "generic footwear when nothing more specific",
			categories:  []string{"Kadın", "Ayakkabı"},
			wantType:    "Ayakkabı",
			wantKeyword: "ayakkabi",
		},
		{
			name:        "keyword matched inside a longer category string",
			categories:  []string{"Kadın Spor Ayakkabı Modelleri"},
			wantType:    "Spor Ayakkabı",
			wantKeyword: "spor ayakkabi",
		},
		{
			name:        "diacritics and case folded before matching",
			categories:  []string{"TİŞÖRT"},
			wantType:    "Tişört",
			wantKeyword: "tisort",
		},
		{
			name:        "dress trail",
			categories:  []string{"Kadın", "Giyim", "Elbise"},
			wantType:    "Elbise",
			wantKeyword: "elbise",
		},
		{
			name:         "gender-only trail falls back",
			categories:   []string{"Kadın"},
			wantType:     "Kadın Giyim",
			wantKeyword:  "kadin",
			wantFallback: FallbackGender,
		},
		{
			name:         "unknown trail uses the hard default",
			categories:   []string{"Outlet", "Sezon Sonu"},
			wantType:     "Giyim",
			wantFallback: FallbackDefault,
		},
		{
			name:         "empty input uses the hard default",
			categories:   nil,
			wantType:     "Giyim",
			wantFallback: FallbackDefault,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.categories)
			if got.Config.ProductType != tt.wantType {
				t.Errorf("ProductType = %q, want %q", got.Config.ProductType, tt.wantType)
			}
			if got.Keyword != tt.wantKeyword {
				t.Errorf("Keyword = %q, want %q", got.Keyword, tt.wantKeyword)
			}
			if got.Fallback != tt.wantFallback {
				t.Errorf("Fallback = %q, want %q", got.Fallback, tt.wantFallback)
			}
		})
	}
}

// The table side drives the iteration, so input order and duplicates must
// not change the verdict.
func TestCategoryClassifier_Deterministic(t *testing.T) {
	c := NewCategoryClassifier(nil)

	inputs := [][]string{
		{"Ayakkabı", "Sneaker"},
		{"Sneaker", "Ayakkabı"},
		{"Sneaker", "Sneaker", "Ayakkabı", "Ayakkabı"},
		{"ayakkabı", "SNEAKER"},
	}

	for _, categories := range inputs {
		got := c.Classify(categories)
		if got.Keyword != "sneaker" {
			t.Errorf("Classify(%v) keyword = %q, want %q", categories, got.Keyword, "sneaker")
		}
	}

	// Repeated runs stay stable.
	first := c.Classify([]string{"Kadın", "Bot", "Çizme"})
	for i := 0; i < 10; i++ {
		again := c.Classify([]string{"Kadın", "Bot", "Çizme"})
		if again.Keyword != first.Keyword || again.Config.ProductType != first.Config.ProductType {
			t.Fatalf("Classify not deterministic: run %d gave %q/%q, first gave %q/%q",
				i, again.Keyword, again.Config.ProductType, first.Keyword, first.Config.ProductType)
		}
	}
}

func TestCategoryClassifier_ConfigShape(t *testing.T) {
	c := NewCategoryClassifier(nil)

	t.Run("footwear uses the footwear size label", func(t *testing.T) {
		got := c.Classify([]string{"Sneaker"})
		if got.Config.Labels.Size != "Numara" {
			t.Errorf("Labels.Size = %q, want %q", got.Config.Labels.Size, "Numara")
		}
		if !got.Config.HasVariants {
			t.Error("expected footwear to expand variants")
		}
	})

	t.Run("apparel uses the apparel size label", func(t *testing.T) {
		got := c.Classify([]string{"Elbise"})
		if got.Config.Labels.Size != "Beden" {
			t.Errorf("Labels.Size = %q, want %q", got.Config.Labels.Size, "Beden")
		}
	})

	t.Run("bags export a single row", func(t *testing.T) {
		got := c.Classify([]string{"Çanta"})
		if got.Config.HasVariants {
			t.Error("expected bags to export without variant expansion")
		}
	})

	t.Run("custom table overrides the default taxonomy", func(t *testing.T) {
		custom := NewCategoryClassifier(DefaultTaxonomy()[:1]) // sneaker only
		got := custom.Classify([]string{"Elbise"})
		if got.Fallback != FallbackDefault {
			t.Errorf("Fallback = %q, want %q", got.Fallback, FallbackDefault)
		}
	})
}
