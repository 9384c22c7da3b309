package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Hash returns the sha3-256 digest of key. Used wherever an id has to be
// derived from supplied content: the result is a pure function of its
// input, so independent replicas re-executing the same transaction
// derive the same id.
func Hash(key []byte) []byte {
	hasher := sha3.New256()
	hasher.Write(key)
	return hasher.Sum(nil)
}

// HashID returns the hex encoding of Hash(id), the canonical form for
// derived document ids.
func HashID(id string) string {
	return hex.EncodeToString(Hash([]byte(id)))
}
