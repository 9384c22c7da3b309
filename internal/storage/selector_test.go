package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorMatch(t *testing.T) {
	sell := []byte(`{"doctype":"contract","id":"s1","owner":"alice","side":"sell","price":40,"assetId":"a1","fulfilled":false,"matchedWith":""}`)
	buy := []byte(`{"doctype":"contract","id":"b1","owner":"bob","side":"buy","price":50,"fulfilled":false,"matchedWith":""}`)
	wallet := []byte(`{"doctype":"wallet","owner":"alice","balance":100}`)

	t.Run("doctype and side", func(t *testing.T) {
		assert.True(t, Selector{Doctype: "contract", Side: "sell"}.Match(sell))
		assert.False(t, Selector{Doctype: "contract", Side: "sell"}.Match(buy))
		assert.False(t, Selector{Doctype: "contract"}.Match(wallet))
	})

	t.Run("negated fields", func(t *testing.T) {
		assert.True(t, Selector{NotDoctype: "asset", Owner: "alice"}.Match(sell))
		assert.True(t, Selector{NotDoctype: "asset", Owner: "alice"}.Match(wallet))
		assert.False(t, Selector{NotOwner: "alice"}.Match(sell))
		assert.True(t, Selector{NotOwner: "alice"}.Match(buy))
	})

	t.Run("price bounds", func(t *testing.T) {
		assert.True(t, Selector{PriceLTE: Int64(40)}.Match(sell))
		assert.False(t, Selector{PriceLTE: Int64(39)}.Match(sell))
		assert.True(t, Selector{PriceGTE: Int64(40)}.Match(buy))
		assert.False(t, Selector{PriceGTE: Int64(51)}.Match(buy))
		// a wallet has no price field at all
		assert.False(t, Selector{PriceLTE: Int64(1000)}.Match(wallet))
	})

	t.Run("fulfilled flag", func(t *testing.T) {
		assert.True(t, Selector{Fulfilled: Bool(false)}.Match(sell))
		assert.False(t, Selector{Fulfilled: Bool(true)}.Match(sell))
		// absent flag never matches an explicit filter
		assert.False(t, Selector{Fulfilled: Bool(false)}.Match(wallet))
	})

	t.Run("malformed document", func(t *testing.T) {
		assert.False(t, Selector{}.Match([]byte("not json")))
	})
}
