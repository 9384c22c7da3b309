package storage

import "encoding/json"

// Selector is the predicate form of the store's rich query: only
// documents matching every set field are returned. It is the closed,
// typed replacement for the free-form JSON selector strings the
// CouchDB-style stores accept.
type Selector struct {
	Doctype    string `json:"doctype,omitempty"`
	NotDoctype string `json:"notDoctype,omitempty"`
	ID         string `json:"id,omitempty"`
	Owner      string `json:"owner,omitempty"`
	NotOwner   string `json:"notOwner,omitempty"`
	Side       string `json:"side,omitempty"`
	AssetID    string `json:"assetId,omitempty"`
	Fulfilled  *bool  `json:"fulfilled,omitempty"`
	PriceLTE   *int64 `json:"priceLte,omitempty"`
	PriceGTE   *int64 `json:"priceGte,omitempty"`
}

// document is the loose shape selectors are evaluated against. Pointer
// fields distinguish "absent" from zero values, a wallet document has no
// fulfilled flag at all.
type document struct {
	Doctype   string `json:"doctype"`
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Side      string `json:"side"`
	AssetID   string `json:"assetId"`
	Fulfilled *bool  `json:"fulfilled"`
	Price     *int64 `json:"price"`
}

// Bool returns a pointer suitable for Selector.Fulfilled.
func Bool(b bool) *bool {
	return &b
}

// Int64 returns a pointer suitable for the selector price bounds.
func Int64(i int64) *int64 {
	return &i
}

// Match reports whether the raw document satisfies the selector.
// Documents that do not decode as JSON objects never match.
func (s Selector) Match(data []byte) bool {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	if s.Doctype != "" && doc.Doctype != s.Doctype {
		return false
	}
	if s.NotDoctype != "" && doc.Doctype == s.NotDoctype {
		return false
	}
	if s.ID != "" && doc.ID != s.ID {
		return false
	}
	if s.Owner != "" && doc.Owner != s.Owner {
		return false
	}
	if s.NotOwner != "" && doc.Owner == s.NotOwner {
		return false
	}
	if s.Side != "" && doc.Side != s.Side {
		return false
	}
	if s.AssetID != "" && doc.AssetID != s.AssetID {
		return false
	}
	if s.Fulfilled != nil {
		if doc.Fulfilled == nil || *doc.Fulfilled != *s.Fulfilled {
			return false
		}
	}
	if s.PriceLTE != nil {
		if doc.Price == nil || *doc.Price > *s.PriceLTE {
			return false
		}
	}
	if s.PriceGTE != nil {
		if doc.Price == nil || *doc.Price < *s.PriceGTE {
			return false
		}
	}
	return true
}
