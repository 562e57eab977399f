package rawpage

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/titanous/json5"
)

// stateGlobal is the window global the site template assigns its initial
// product state to. The blob's shape varies across template versions; every
// known shape is modelled in state.go and anything else is skipped.
const stateGlobal = "__PRODUCT_DETAIL_APP_INITIAL_STATE__"

// Page is one fetched product document: the parsed markup plus every
// embedded structured-state fragment that could be recovered from it.
// A Page is immutable after Parse and is consumed by a single extraction.
type Page struct {
	URL string

	doc    *goquery.Document
	states []*ProductState
	linked []*LinkedProduct
}

// Parse reads the document once and collects all embedded fragments.
// Individual fragments that fail to parse are logged and dropped; only an
// unreadable document itself is an error.
func Parse(pageURL string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	p := &Page{URL: pageURL, doc: doc}
	p.collectStates()
	p.collectLinkedData()
	return p, nil
}

// Text returns the trimmed text of the first node matching the selector,
// or "" when nothing matches.
func (p *Page) Text(selector string) string {
	return strings.TrimSpace(p.doc.Find(selector).First().Text())
}

// Texts returns the trimmed, non-empty texts of every node matching the
// selector, in document order.
func (p *Page) Texts(selector string) []string {
	var out []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// Attr returns the named attribute of the first node matching the selector,
// or "" when the node or attribute is absent.
func (p *Page) Attr(selector, name string) string {
	return strings.TrimSpace(p.doc.Find(selector).First().AttrOr(name, ""))
}

// States returns every product state fragment recovered from the page, in
// document order. The slice may be empty; extraction strategies must treat
// any subset of fragments as optional.
func (p *Page) States() []*ProductState {
	return p.states
}

// LinkedProducts returns the structured linked-data products embedded in the
// page (used for the additional-property attribute source).
func (p *Page) LinkedProducts() []*LinkedProduct {
	return p.linked
}

func (p *Page) collectStates() {
	p.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		body := s.Text()
		idx := strings.Index(body, stateGlobal)
		if idx < 0 {
			return
		}
		rest := body[idx+len(stateGlobal):]
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return
		}

		raw := braceObject(rest[eq+1:])
		if raw == "" {
			log.Printf("[PAGE] state fragment on %s has no object literal, skipping", p.URL)
			return
		}

		state, err := parseState([]byte(raw))
		if err != nil {
			log.Printf("[PAGE] skipping unparseable state fragment on %s: %v", p.URL, err)
			return
		}
		p.states = append(p.states, state)
	})
}

func (p *Page) collectLinkedData() {
	p.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		products, err := parseLinkedData([]byte(strings.TrimSpace(s.Text())))
		if err != nil {
			log.Printf("[PAGE] skipping unparseable linked-data block on %s: %v", p.URL, err)
			return
		}
		p.linked = append(p.linked, products...)
	})
}

// parseState decodes a state blob, falling back to JSON5 because some
// template versions emit a plain JS object literal (single quotes, trailing
// commas) rather than strict JSON.
func parseState(raw []byte) (*ProductState, error) {
	var state ProductState
	if err := json.Unmarshal(raw, &state); err != nil {
		if err5 := json5.Unmarshal(raw, &state); err5 != nil {
			return nil, fmt.Errorf("not valid JSON (%v) nor JSON5 (%v)", err, err5)
		}
	}
	if state.Product == nil {
		return nil, fmt.Errorf("state has no product object")
	}
	return &state, nil
}

// parseLinkedData accepts both a single JSON-LD object and a top-level array
// of them, keeping only Product entries.
func parseLinkedData(raw []byte) ([]*LinkedProduct, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var candidates []*LinkedProduct
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &candidates); err != nil {
			return nil, err
		}
	} else {
		var one LinkedProduct
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, err
		}
		candidates = []*LinkedProduct{&one}
	}

	var products []*LinkedProduct
	for _, c := range candidates {
		if c != nil && strings.EqualFold(c.Type, "Product") {
			products = append(products, c)
		}
	}
	return products, nil
}

// braceObject slices the first balanced {...} literal out of s, tracking
// string literals so braces inside values do not desynchronize the scan.
// Returns "" when no balanced object is found.
func braceObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
