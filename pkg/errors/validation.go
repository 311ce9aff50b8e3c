package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from external documents.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier coming from an external tree document.
//
// The rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidTree, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateLabelCounts checks that both label multisets cover exactly the
// non-root nodes of a tree with nodeCount nodes.
func ValidateLabelCounts(nodeCount, costs, prizes int) error {
	want := nodeCount - 1
	if costs != want || prizes != want {
		return New(ErrCodeLabelCountMismatch,
			"tree has %d non-root nodes but got %d costs and %d prizes", want, costs, prizes)
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in config.
// It rejects empty paths, null bytes and other control characters.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}
