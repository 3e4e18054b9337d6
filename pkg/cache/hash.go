package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/matzehuels/lenslayout/pkg/graph"
)

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GraphHash fingerprints a serialized graph. Node and edge order are part
// of the fingerprint because layouts depend on them.
func GraphHash(g graph.Graph) string {
	data, _ := json.Marshal(g)
	return Hash(data)
}
