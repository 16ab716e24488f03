package uniref

import "strings"

const (
	entryOpen   = `<entry id=`
	dbReference = `<dbReference type=`
	property    = `<property type=`
	unirefStem  = "UniRef"
)

// ACExtractor extracts the cluster accession code from the entry-open
// marker line. Only the first matching line is used.
type ACExtractor struct{}

// ID returns "AC".
func (ACExtractor) ID() string { return "AC" }

// Extract returns the quoted id attribute of the entry-open line, or
// absent if no such line exists.
func (ACExtractor) Extract(entry []string) (any, bool) {
	for _, line := range entry {
		if !strings.HasPrefix(line, entryOpen) {
			continue
		}
		ac, ok := attrValue(line, "id=")
		if !ok {
			return nil, false
		}
		return ac, true
	}
	return nil, false
}

// MemberEntriesExtractor collects the UniProtKB and UniParc accession
// codes of the cluster's member entries.
//
// UniProtKB member references carry their accession in the value of
// the next UniProtKB property line; every other reference carries it
// in its own id attribute.
type MemberEntriesExtractor struct{}

// ID returns "ACC".
func (MemberEntriesExtractor) ID() string { return "ACC" }

// Extract returns the distinct member accessions in first-seen order,
// or absent if the entry references no members.
func (MemberEntriesExtractor) Extract(entry []string) (any, bool) {
	var members []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	searchUniProtID := false
	for _, line := range entry {
		switch {
		case strings.HasPrefix(line, dbReference):
			if strings.Contains(line, "UniProtKB") {
				searchUniProtID = true
			} else if id, ok := attrValue(line, "id="); ok {
				add(id)
			}
		case strings.HasPrefix(line, property) && searchUniProtID:
			if strings.Contains(line, "UniProtKB") {
				if id, ok := attrValue(line, "value="); ok {
					add(id)
				}
				searchUniProtID = false
			}
		}
	}

	if len(members) == 0 {
		return nil, false
	}
	return members, true
}

// CrossRefExtractor collects the other UniRef clusters associated with
// the entry, grouped by clustering level.
type CrossRefExtractor struct{}

// ID returns "UNIREF".
func (CrossRefExtractor) ID() string { return "UNIREF" }

// Extract groups UniRef property values by the numeric level of their
// prefix: a value "UniRef90_A" lands in group "90" as "A". Duplicates
// within a group are collapsed. Returns absent when the entry holds no
// UniRef cross-references.
func (CrossRefExtractor) Extract(entry []string) (any, bool) {
	groups := make(map[string][]string)
	seen := make(map[string]struct{})

	for _, line := range entry {
		if !strings.HasPrefix(line, property) {
			continue
		}
		v, ok := attrValue(line, "value=")
		if !ok || !strings.HasPrefix(v, unirefStem) {
			continue
		}
		rest := v[len(unirefStem):]
		us := strings.IndexByte(rest, '_')
		if us <= 0 || us == len(rest)-1 {
			continue
		}
		level, id := rest[:us], rest[us+1:]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		groups[level] = append(groups[level], id)
	}

	if len(groups) == 0 {
		return nil, false
	}
	return groups, true
}
