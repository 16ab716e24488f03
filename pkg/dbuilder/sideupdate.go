package dbuilder

import (
	"context"
	"strings"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/darkness"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
)

// uniparcPrefix marks UniParc accessions (UPI...). UniProtKB
// accessions always have a digit in the second position, so the
// prefix is unambiguous.
const uniparcPrefix = "UP"

// updateMemberCollections tags every cluster member with the cluster's
// accession and coverage, so member-level documents can be resolved
// back to their cluster. UniParc-style ids are upserted into the
// UniParc collection; all other member ids into UniProt and, when
// configured, AlphaFold. One bulk write per non-empty queue; completes
// synchronously before the next entry is processed.
func (e *Extractor) updateMemberCollections(ctx context.Context, ac string, members []string, sum *darkness.Summary) error {
	tag := map[string]any{
		e.cfg.CollectionName: map[string]any{
			"UNIREF_AC":  ac,
			"FULL_noDUF": sum.Coverage,
		},
	}

	var uniprotOps, uniparcOps, alphafoldOps []docstore.SetOp
	for _, member := range members {
		op := docstore.SetOp{ID: member, Fields: tag}
		if strings.HasPrefix(member, uniparcPrefix) {
			uniparcOps = append(uniparcOps, op)
		} else {
			uniprotOps = append(uniprotOps, op)
			alphafoldOps = append(alphafoldOps, op)
		}
	}

	if len(uniprotOps) > 0 && e.uniprot != nil {
		if err := e.uniprot.BulkSet(ctx, uniprotOps); err != nil {
			return err
		}
	}
	if len(uniparcOps) > 0 && e.uniparc != nil {
		if err := e.uniparc.BulkSet(ctx, uniparcOps); err != nil {
			return err
		}
	}
	if len(alphafoldOps) > 0 && e.alphafold != nil {
		if err := e.alphafold.BulkSet(ctx, alphafoldOps); err != nil {
			return err
		}
	}
	return nil
}
