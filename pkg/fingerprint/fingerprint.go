package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// CMSMetaExclusions lists CMS envelope fields that change on every save
// without the content changing. Fingerprints over raw documents must
// skip them or every delivery would look like an edit.
func CMSMetaExclusions() map[string]bool {
	return map[string]bool{
		"_rev":       true,
		"_updatedAt": true,
		"_createdAt": true,
		"operation":  true,
	}
}

// Generate returns a deterministic SHA256 fingerprint of the data. Equal
// content yields equal fingerprints regardless of key order.
func Generate(data map[string]any) string {
	return GenerateWithExclusions(data, nil)
}

// GenerateWithExclusions fingerprints the data while skipping the given
// dot-notation field paths. Excluding a parent path excludes everything
// under it.
func GenerateWithExclusions(data map[string]any, excludeFields map[string]bool) string {
	canonical := canonicalize(data, excludeFields, "")
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

// ForRequest fingerprints an upsert request struct by round-tripping it
// through JSON, so the fingerprint covers exactly the fields the row
// stores.
func ForRequest(req any) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}
	return Generate(m), nil
}

// HasChanged compares two fingerprints.
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}

func canonicalize(data any, excludeFields map[string]bool, currentPath string) string {
	switch v := data.(type) {
	case map[string]any:
		return canonicalizeMap(v, excludeFields, currentPath)
	case []any:
		return canonicalizeArray(v, excludeFields, currentPath)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func canonicalizeMap(m map[string]any, excludeFields map[string]bool, currentPath string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for _, k := range keys {
		fieldPath := k
		if currentPath != "" {
			fieldPath = currentPath + "." + k
		}
		if shouldExclude(fieldPath, excludeFields) {
			continue
		}

		if !first {
			sb.WriteString(",")
		}
		first = false
		keyJSON, _ := json.Marshal(k)
		sb.Write(keyJSON)
		sb.WriteString(":")
		sb.WriteString(canonicalize(m[k], excludeFields, fieldPath))
	}
	sb.WriteString("}")
	return sb.String()
}

func canonicalizeArray(arr []any, excludeFields map[string]bool, currentPath string) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range arr {
		if i > 0 {
			sb.WriteString(",")
		}
		// Array elements share the parent path; individual indices
		// cannot be excluded.
		sb.WriteString(canonicalize(v, excludeFields, currentPath))
	}
	sb.WriteString("]")
	return sb.String()
}

func shouldExclude(fieldPath string, excludeFields map[string]bool) bool {
	if excludeFields == nil {
		return false
	}
	if excludeFields[fieldPath] {
		return true
	}
	for excluded := range excludeFields {
		if strings.HasPrefix(fieldPath, excluded+".") {
			return true
		}
	}
	return false
}
