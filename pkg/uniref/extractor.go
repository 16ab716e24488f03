package uniref

import "strings"

// Extractor extracts one named field from an entry's lines.
// Implementations must be pure over well-formed entries: same lines in,
// same value out, no retained state between calls.
type Extractor interface {
	// ID returns the stable key under which this extractor's output is
	// stored in a record.
	ID() string

	// Extract returns the value extracted from the entry lines.
	// The second return value is false when the field is absent.
	Extract(entry []string) (any, bool)
}

// attrValue returns the quoted value of the attribute named by attr
// (e.g. `id=`, `value=`) in an XML-ish line.
func attrValue(line, attr string) (string, bool) {
	i := strings.Index(line, attr+`"`)
	if i < 0 {
		return "", false
	}
	rest := line[i+len(attr)+1:]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}
