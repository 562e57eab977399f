package usecase

import "github.com/storeport/backend/internal/domain"

// Variant label sets of the site's merchandising groups.
var (
	footwearLabels = domain.VariantLabels{Size: "Numara", Color: "Renk", Material: "Materyal"}
	apparelLabels  = domain.VariantLabels{Size: "Beden", Color: "Renk", Material: "Kumaş"}
	bagLabels      = domain.VariantLabels{Color: "Renk", Material: "Materyal"}
)

// Attribute allowlists keep the noisy template attributes ("Kampanya",
// basket counters) out of the export body.
var (
	footwearAttributes = []string{"Materyal", "Taban", "Bağcıklı", "Topuk Boyu", "Kullanım Alanı"}
	apparelAttributes  = []string{"Kumaş", "Kalıp", "Desen", "Yaka", "Kol Tipi", "Boy"}
	bagAttributes      = []string{"Materyal", "Bölme Sayısı", "Askı Tipi"}
)

func footwearConfig(leaf, productType string) domain.CategoryConfig {
	return domain.CategoryConfig{
		CategoryPath:         "Apparel & Accessories > Shoes > " + leaf,
		ProductType:          productType,
		Labels:               footwearLabels,
		DefaultStockQuantity: 5,
		HasVariants:          true,
		AttributeAllowlist:   footwearAttributes,
	}
}

func apparelConfig(leaf, productType string) domain.CategoryConfig {
	return domain.CategoryConfig{
		CategoryPath:         "Apparel & Accessories > Clothing > " + leaf,
		ProductType:          productType,
		Labels:               apparelLabels,
		DefaultStockQuantity: 10,
		HasVariants:          true,
		AttributeAllowlist:   apparelAttributes,
	}
}

func accessoryConfig(path, productType string, hasVariants bool) domain.CategoryConfig {
	return domain.CategoryConfig{
		CategoryPath:         path,
		ProductType:          productType,
		Labels:               bagLabels,
		DefaultStockQuantity: 15,
		HasVariants:          hasVariants,
		AttributeAllowlist:   bagAttributes,
	}
}

// DefaultTaxonomy returns the category lookup table in priority order.
// Specific keywords come before the generic group they belong to; "sneaker"
// has to win over "ayakkabi" for a page categorized as both. Keywords are
// stored pre-normalized (folded, lowercase).
func DefaultTaxonomy() []domain.CategoryRule {
	return []domain.CategoryRule{
		// Footwear subtypes before the generic footwear bucket.
		{Keyword: "sneaker", Config: footwearConfig("Sneakers", "Sneaker")},
		{Keyword: "spor ayakkabi", Config: footwearConfig("Sneakers", "Spor Ayakkabı")},
		{Keyword: "bot", Config: footwearConfig("Boots", "Bot")},
		{Keyword: "cizme", Config: footwearConfig("Boots", "Çizme")},
		{Keyword: "sandalet", Config: footwearConfig("Sandals", "Sandalet")},
		{Keyword: "topuklu", Config: footwearConfig("Heels", "Topuklu Ayakkabı")},
		{Keyword: "babet", Config: footwearConfig("Flats", "Babet")},
		{Keyword: "loafer", Config: footwearConfig("Loafers", "Loafer")},
		{Keyword: "terlik", Config: footwearConfig("Slippers", "Terlik")},

		// Clothing subtypes.
		{Keyword: "elbise", Config: apparelConfig("Dresses", "Elbise")},
		{Keyword: "gomlek", Config: apparelConfig("Shirts & Tops", "Gömlek")},
		{Keyword: "tisort", Config: apparelConfig("Shirts & Tops", "Tişört")},
		{Keyword: "t-shirt", Config: apparelConfig("Shirts & Tops", "Tişört")},
		{Keyword: "bluz", Config: apparelConfig("Shirts & Tops", "Bluz")},
		{Keyword: "sweatshirt", Config: apparelConfig("Activewear", "Sweatshirt")},
		{Keyword: "kazak", Config: apparelConfig("Sweaters", "Kazak")},
		{Keyword: "hirka", Config: apparelConfig("Sweaters", "Hırka")},
		{Keyword: "pantolon", Config: apparelConfig("Pants", "Pantolon")},
		{Keyword: "jean", Config: apparelConfig("Pants", "Jean")},
		{Keyword: "sort", Config: apparelConfig("Shorts", "Şort")},
		{Keyword: "etek", Config: apparelConfig("Skirts", "Etek")},
		{Keyword: "mont", Config: apparelConfig("Outerwear", "Mont")},
		{Keyword: "kaban", Config: apparelConfig("Outerwear", "Kaban")},
		{Keyword: "ceket", Config: apparelConfig("Outerwear", "Ceket")},

		// Accessories.
		{Keyword: "canta", Config: accessoryConfig("Apparel & Accessories > Handbags", "Çanta", false)},
		{Keyword: "cuzdan", Config: accessoryConfig("Apparel & Accessories > Handbag & Wallet Accessories", "Cüzdan", false)},
		{Keyword: "kemer", Config: accessoryConfig("Apparel & Accessories > Clothing Accessories > Belts", "Kemer", true)},
		{Keyword: "sapka", Config: accessoryConfig("Apparel & Accessories > Clothing Accessories > Hats", "Şapka", false)},
		{Keyword: "atki", Config: accessoryConfig("Apparel & Accessories > Clothing Accessories > Scarves", "Atkı", false)},

		// Generic buckets last so the subtypes above get first refusal.
		{Keyword: "ayakkabi", Config: footwearConfig("Shoes", "Ayakkabı")},
		{Keyword: "giyim", Config: apparelConfig("Clothing", "Giyim")},
		{Keyword: "aksesuar", Config: accessoryConfig("Apparel & Accessories > Clothing Accessories", "Aksesuar", false)},
	}
}

// genderFallbacks catch category trails that only carry the storefront
// gender segment.
func genderFallbacks() []domain.CategoryRule {
	return []domain.CategoryRule{
		{Keyword: "kadin", Config: apparelConfig("Clothing", "Kadın Giyim")},
		{Keyword: "erkek", Config: apparelConfig("Clothing", "Erkek Giyim")},
	}
}

// defaultCategoryConfig is the hard fallback: generic apparel.
func defaultCategoryConfig() domain.CategoryConfig {
	return apparelConfig("Clothing", "Giyim")
}
