package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// Hash returns the hex SHA-256 digest of data. Serialized trees are hashed
// once and the digest is what enters the keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest returns "<kind>:<Hash of the JSON array of parts>". Key parts are
// strings, ints, int slices and bools, which always marshal.
func digest(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Keyer derives cache keys. Keys embed every input that influences the
// cached value, so two requests that could produce different results never
// share a key.
type Keyer interface {
	// CurveKey returns the key of the budget curve of a tree.
	CurveKey(treeHash string) string
	// SearchKey returns the key of a labeling search over a tree.
	SearchKey(treeHash string, opts SearchKeyOpts) string
}

// SearchKeyOpts lists the search inputs besides the tree.
// Costs and Prizes are multisets; their order does not affect the key.
type SearchKeyOpts struct {
	Costs              []int
	Prizes             []int
	Objective          string
	DedupBeforeScoring bool
}

// DefaultKeyer generates "curve:<hash>" and "search:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CurveKey generates a key for budget curve caching.
func (DefaultKeyer) CurveKey(treeHash string) string {
	return digest("curve", treeHash)
}

// SearchKey generates a key for labeling search caching.
func (DefaultKeyer) SearchKey(treeHash string, opts SearchKeyOpts) string {
	costs := slices.Sorted(slices.Values(opts.Costs))
	prizes := slices.Sorted(slices.Values(opts.Prizes))
	return digest("search", treeHash, costs, prizes, opts.Objective, opts.DedupBeforeScoring)
}
