package rawpage

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The embedded state blob is loosely typed and its shape drifted across
// template versions. Instead of walking an untyped tree, every shape the
// site is known to emit is modelled here explicitly; decoding tolerates the
// known encoding variations and anything unrecognized decodes to zero values
// the extractor treats as absent.

// ProductState is the top-level shape of the window state global.
type ProductState struct {
	Product *StateProduct `json:"product"`
}

// StateProduct carries the product internals the extraction strategies read.
// Any field may be missing on a given template version.
type StateProduct struct {
	Name        string    `json:"name"`
	Brand       NameField `json:"brand"`
	Description string    `json:"description"`

	Price  *StatePrice `json:"price"`
	Images []string    `json:"images"`

	// CategoryHierarchy is ordered root-to-leaf.
	CategoryHierarchy []NameField `json:"categoryHierarchy"`

	// Color is a single display value, possibly with a trailing internal
	// qualifier ("Siyah - 23K05").
	Color string `json:"color"`

	// The three variant shapes, newest template version first. A page
	// usually carries only one of them.
	Variants         []StateVariant        `json:"variants"`
	AllVariants      []StateFlatVariant    `json:"allVariants"`
	SlicedAttributes []StateAttributeGroup `json:"slicedAttributes"`
}

// StateVariant is the detailed per-SKU option shape: every option row has
// full stock data.
type StateVariant struct {
	AttributeName  string `json:"attributeName"`
	AttributeValue string `json:"attributeValue"`
	InStock        bool   `json:"inStock"`
	Sellable       bool   `json:"sellable"`
	Stock          int    `json:"stock"`
	Price          Amount `json:"price"`
}

// StateFlatVariant is the flat option list shape; older templates omit the
// sellable flag entirely.
type StateFlatVariant struct {
	Value    string `json:"value"`
	InStock  bool   `json:"inStock"`
	Sellable bool   `json:"sellable"`
}

// StateAttributeGroup groups option values under an attribute name
// ("Beden", "Numara").
type StateAttributeGroup struct {
	Name       string               `json:"name"`
	Attributes []StateGroupedOption `json:"attributes"`
}

// StateGroupedOption is one option value inside a group.
type StateGroupedOption struct {
	Text     string `json:"text"`
	InStock  bool   `json:"inStock"`
	Sellable bool   `json:"sellable"`
}

// StatePrice holds the price box of the state blob. Discounted price wins
// over selling price when both are present.
type StatePrice struct {
	DiscountedPrice Amount `json:"discountedPrice"`
	SellingPrice    Amount `json:"sellingPrice"`
	OriginalPrice   Amount `json:"originalPrice"`
}

// Amount tolerates the three encodings the templates use for money:
// a bare number, a formatted string ("1.234,56"), or an object carrying
// both ({"value": 1234.56, "text": "1.234,56 TL"}).
type Amount struct {
	Value float64
	Text  string
}

// IsZero reports whether the amount carries no usable value at all.
func (a Amount) IsZero() bool {
	return a.Value == 0 && a.Text == ""
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			Value float64 `json:"value"`
			Text  string  `json:"text"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil // unknown object shape, treat as absent
		}
		a.Value = obj.Value
		a.Text = obj.Text
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		a.Text = s
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil
		}
		a.Value = v
	}
	return nil
}

// NameField tolerates both the bare-string and the object encoding of named
// references ("Nike" vs {"name": "Nike"}).
type NameField struct {
	Name string
}

func (f *NameField) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		f.Name = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	f.Name = obj.Name
	return nil
}

// LinkedProduct is the schema.org Product entry embedded as JSON-LD; the
// attribute extractor reads its additional properties.
type LinkedProduct struct {
	Type               string          `json:"@type"`
	Name               string          `json:"name"`
	Brand              NameField       `json:"brand"`
	AdditionalProperty []PropertyValue `json:"additionalProperty"`
}

// PropertyValue is one schema.org name/value attribute pair. Either Value or
// UnitText may carry the payload depending on the template version.
type PropertyValue struct {
	Name     string     `json:"name"`
	Value    FlexString `json:"value"`
	UnitText string     `json:"unitText"`
}

// FlexString decodes string, number and boolean JSON values to their string
// form, since linked-data property values are not consistently typed.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
