// Package darkness computes annotation-coverage summaries for UniRef
// clusters by joining their member accessions against UniProt, UniParc
// and AlphaFold collections. Low coverage marks a cluster as part of
// the functionally dark proteome.
package darkness

import (
	"context"
	"fmt"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
)

// coverageParam is the annotation-coverage field used to rank
// representative candidates.
const coverageParam = "FULL_noDUF"

// AFRef identifies an AlphaFold model and its residue count.
type AFRef struct {
	ACC string `bson:"ACC" json:"ACC"`
	LEN int    `bson:"LEN" json:"LEN"`
}

// Summary is the enrichment result for one cluster. The AlphaFold
// fields are only present when an AlphaFold collection was queried.
type Summary struct {
	Representative *string `bson:"REP" json:"REP"`
	Coverage       float64 `bson:"FULL_noDUF" json:"FULL_noDUF"`
	Transmembrane  bool    `bson:"TM" json:"TM"`
	SignalPeptide  bool    `bson:"SP" json:"SP"`

	PLDDTs   []float64 `bson:"pLDDTs,omitempty" json:"pLDDTs,omitempty"`
	AF2Best  *AFRef    `bson:"AF2_REP_best,omitempty" json:"AF2_REP_best,omitempty"`
	AF2Worst *AFRef    `bson:"AF2_REP_worst,omitempty" json:"AF2_REP_worst,omitempty"`
}

// Extractor computes DARKNESS summaries.
type Extractor struct{}

// NewExtractor creates a darkness extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ID returns "DARKNESS".
func (*Extractor) ID() string { return "DARKNESS" }

// Extract queries the UniProt and UniParc collections for the given
// member accessions, selects the best-annotated document as the
// cluster representative, and, when an AlphaFold collection is
// supplied, aggregates per-model confidence. Any collection handle may
// be nil; its pool is skipped. A query failure aborts only this
// enrichment, never the surrounding extraction: the caller is expected
// to discard the error and omit the fields.
func (e *Extractor) Extract(ctx context.Context, acs []string, uniprot, uniparc, alphafold docstore.Collection) (*Summary, error) {
	var pool []docstore.Document
	for _, col := range []docstore.Collection{uniprot, uniparc} {
		if col == nil {
			continue
		}
		docs, err := col.FindByIDs(ctx, acs)
		if err != nil {
			return nil, fmt.Errorf("darkness candidate query: %w", err)
		}
		pool = append(pool, docs...)
	}

	sum := selectRepresentative(pool)

	if alphafold != nil {
		docs, err := alphafold.FindByIDs(ctx, acs)
		if err != nil {
			return nil, fmt.Errorf("darkness alphafold query: %w", err)
		}
		addConfidences(sum, docs)
	}

	return sum, nil
}

// selectRepresentative picks the pooled document with the highest
// annotation coverage. Ties keep the first-seen candidate: the pool is
// iterated UniProt before UniParc, in query-result order. The
// transmembrane and signal-peptide flags are OR'ed across every
// candidate carrying them, not only the selected one.
func selectRepresentative(pool []docstore.Document) *Summary {
	sum := &Summary{}
	for _, doc := range pool {
		if cov, ok := nestedFloat(doc.Data, "ANNOTCOV", coverageParam); ok && cov > sum.Coverage {
			sum.Coverage = cov
			rep := doc.ID
			sum.Representative = &rep
		}
		tm, tmOK := doc.Data["TM"]
		sp, spOK := doc.Data["SP"]
		if tmOK && spOK {
			if tm != nil {
				sum.Transmembrane = true
			}
			if sp != nil {
				sum.SignalPeptide = true
			}
		}
	}
	return sum
}

// addConfidences computes, for each AlphaFold document, the
// length-weighted average per-residue confidence across its fragments,
// and records the best and worst models. When best and worst resolve
// to the same document, worst is cleared.
func addConfidences(sum *Summary, docs []docstore.Document) {
	sum.PLDDTs = []float64{}
	var best, worst float64

	for _, doc := range docs {
		var weighted float64
		var nRes int
		for _, frag := range doc.Data {
			fm, ok := frag.(map[string]any)
			if !ok {
				continue
			}
			pl, ok := fm["pLDDT"].(map[string]any)
			if !ok {
				continue
			}
			avg, okAvg := toFloat(pl["avg_pLDDT"])
			// "Lenght" is the field name used by the AlphaFold
			// extraction schema.
			length, okLen := toFloat(pl["Lenght"])
			if !okAvg || !okLen {
				continue
			}
			weighted += avg * length
			nRes += int(length)
		}
		if nRes == 0 {
			continue
		}
		full := weighted / float64(nRes)

		if len(sum.PLDDTs) == 0 || full > best {
			best = full
			sum.AF2Best = &AFRef{ACC: doc.ID, LEN: nRes}
		}
		if len(sum.PLDDTs) == 0 || full < worst {
			worst = full
			sum.AF2Worst = &AFRef{ACC: doc.ID, LEN: nRes}
		}
		sum.PLDDTs = append(sum.PLDDTs, full)
	}

	if sum.AF2Best != nil && sum.AF2Worst != nil && *sum.AF2Best == *sum.AF2Worst {
		sum.AF2Worst = nil
	}
}

// nestedFloat walks nested maps by key and coerces the leaf to
// float64.
func nestedFloat(data map[string]any, keys ...string) (float64, bool) {
	var cur any = data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		cur, ok = m[k]
		if !ok {
			return 0, false
		}
	}
	return toFloat(cur)
}

// toFloat coerces the numeric types produced by JSON and BSON decoding.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
