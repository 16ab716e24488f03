package dbuilder

// targetSet tracks which requested accession codes have been
// satisfied. A target matches an entry when it equals the entry's
// accession code or appears among the entry's member accessions.
type targetSet struct {
	satisfied map[string]bool
	left      int
}

func newTargetSet(targets []string) *targetSet {
	if len(targets) == 0 {
		return nil
	}
	t := &targetSet{satisfied: make(map[string]bool, len(targets))}
	for _, target := range targets {
		if _, ok := t.satisfied[target]; !ok {
			t.satisfied[target] = false
			t.left++
		}
	}
	return t
}

// match returns the targets this entry would satisfy.
func (t *targetSet) match(ac string, members []string) []string {
	var hits []string
	if _, ok := t.satisfied[ac]; ok {
		hits = append(hits, ac)
	}
	for _, m := range members {
		if m == ac {
			continue
		}
		if _, ok := t.satisfied[m]; ok {
			hits = append(hits, m)
		}
	}
	return hits
}

// markDone records the given targets as satisfied.
func (t *targetSet) markDone(targets []string) {
	for _, target := range targets {
		if done, ok := t.satisfied[target]; ok && !done {
			t.satisfied[target] = true
			t.left--
		}
	}
}

// done reports whether every distinct target has been satisfied.
func (t *targetSet) done() bool {
	return t.left == 0
}

// progress returns satisfied and total target counts.
func (t *targetSet) progress() (int, int) {
	return len(t.satisfied) - t.left, len(t.satisfied)
}
