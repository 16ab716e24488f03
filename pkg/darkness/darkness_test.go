package darkness

import (
	"context"
	"errors"
	"testing"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
)

// failingCollection returns a fixed error from every query.
type failingCollection struct {
	docstore.Memory
	err error
}

func (f *failingCollection) FindByIDs(ctx context.Context, ids []string) ([]docstore.Document, error) {
	return nil, f.err
}

func annotated(id string, coverage float64, tm, sp any) docstore.Document {
	return docstore.Document{
		ID: id,
		Data: map[string]any{
			"ANNOTCOV": map[string]any{"FULL_noDUF": coverage},
			"TM":       tm,
			"SP":       sp,
		},
	}
}

func TestExtractSelectsRepresentative(t *testing.T) {
	ctx := context.Background()
	uniprot := docstore.NewMemory()
	uniparc := docstore.NewMemory()

	if err := uniprot.InsertMany(ctx, []docstore.Document{
		annotated("P11111", 0.4, nil, nil),
		annotated("P22222", 0.9, nil, nil),
	}); err != nil {
		t.Fatalf("seed uniprot: %v", err)
	}
	if err := uniparc.InsertMany(ctx, []docstore.Document{
		annotated("UPI0001", 0.7, nil, nil),
	}); err != nil {
		t.Fatalf("seed uniparc: %v", err)
	}

	sum, err := NewExtractor().Extract(ctx, []string{"P11111", "P22222", "UPI0001"}, uniprot, uniparc, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if sum.Representative == nil || *sum.Representative != "P22222" {
		t.Errorf("Representative = %v, want P22222", sum.Representative)
	}
	if sum.Coverage != 0.9 {
		t.Errorf("Coverage = %v, want 0.9", sum.Coverage)
	}
	if sum.PLDDTs != nil {
		t.Errorf("PLDDTs = %v, want nil without alphafold collection", sum.PLDDTs)
	}
}

func TestExtractTieKeepsFirstSeen(t *testing.T) {
	ctx := context.Background()
	uniprot := docstore.NewMemory()
	uniparc := docstore.NewMemory()

	if err := uniprot.InsertMany(ctx, []docstore.Document{
		annotated("P11111", 0.5, nil, nil),
	}); err != nil {
		t.Fatalf("seed uniprot: %v", err)
	}
	if err := uniparc.InsertMany(ctx, []docstore.Document{
		annotated("UPI0001", 0.5, nil, nil),
	}); err != nil {
		t.Fatalf("seed uniparc: %v", err)
	}

	sum, err := NewExtractor().Extract(ctx, []string{"P11111", "UPI0001"}, uniprot, uniparc, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if sum.Representative == nil || *sum.Representative != "P11111" {
		t.Errorf("Representative = %v, want first-seen P11111", sum.Representative)
	}
}

func TestExtractFlagsORAcrossCandidates(t *testing.T) {
	ctx := context.Background()
	uniprot := docstore.NewMemory()

	if err := uniprot.InsertMany(ctx, []docstore.Document{
		annotated("P11111", 0.9, nil, nil),
		annotated("P22222", 0.1, "helix", nil),
		annotated("P33333", 0.1, nil, "signal"),
	}); err != nil {
		t.Fatalf("seed uniprot: %v", err)
	}

	sum, err := NewExtractor().Extract(ctx, []string{"P11111", "P22222", "P33333"}, uniprot, docstore.NewMemory(), nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	// The flags aggregate over every candidate, not just the
	// representative.
	if !sum.Transmembrane {
		t.Error("Transmembrane = false, want true")
	}
	if !sum.SignalPeptide {
		t.Error("SignalPeptide = false, want true")
	}
	if *sum.Representative != "P11111" {
		t.Errorf("Representative = %v, want P11111", *sum.Representative)
	}
}

func TestExtractNoCandidates(t *testing.T) {
	ctx := context.Background()
	sum, err := NewExtractor().Extract(ctx, []string{"P11111"}, docstore.NewMemory(), docstore.NewMemory(), nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if sum.Representative != nil {
		t.Errorf("Representative = %v, want nil", sum.Representative)
	}
	if sum.Coverage != 0 || sum.Transmembrane || sum.SignalPeptide {
		t.Errorf("zero summary = %+v", sum)
	}
}

func afDoc(id string, avg, length float64) docstore.Document {
	return docstore.Document{
		ID: id,
		Data: map[string]any{
			"F1": map[string]any{
				"pLDDT": map[string]any{"avg_pLDDT": avg, "Lenght": length},
			},
		},
	}
}

func TestExtractAlphaFoldConfidences(t *testing.T) {
	ctx := context.Background()
	alphafold := docstore.NewMemory()
	if err := alphafold.InsertMany(ctx, []docstore.Document{
		afDoc("P11111", 90, 100),
		afDoc("P22222", 40, 200),
		afDoc("P33333", 70, 150),
	}); err != nil {
		t.Fatalf("seed alphafold: %v", err)
	}

	sum, err := NewExtractor().Extract(ctx, []string{"P11111", "P22222", "P33333"},
		docstore.NewMemory(), docstore.NewMemory(), alphafold)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(sum.PLDDTs) != 3 {
		t.Fatalf("PLDDTs = %v, want 3 values", sum.PLDDTs)
	}
	if sum.AF2Best == nil || sum.AF2Best.ACC != "P11111" || sum.AF2Best.LEN != 100 {
		t.Errorf("AF2Best = %+v, want P11111/100", sum.AF2Best)
	}
	if sum.AF2Worst == nil || sum.AF2Worst.ACC != "P22222" || sum.AF2Worst.LEN != 200 {
		t.Errorf("AF2Worst = %+v, want P22222/200", sum.AF2Worst)
	}
}

func TestExtractAlphaFoldWeightedAverage(t *testing.T) {
	ctx := context.Background()
	alphafold := docstore.NewMemory()
	// Two fragments of different lengths: (80*100 + 60*300) / 400 = 65.
	if err := alphafold.InsertMany(ctx, []docstore.Document{
		{
			ID: "P11111",
			Data: map[string]any{
				"F1": map[string]any{"pLDDT": map[string]any{"avg_pLDDT": 80.0, "Lenght": 100.0}},
				"F2": map[string]any{"pLDDT": map[string]any{"avg_pLDDT": 60.0, "Lenght": 300.0}},
			},
		},
	}); err != nil {
		t.Fatalf("seed alphafold: %v", err)
	}

	sum, err := NewExtractor().Extract(ctx, []string{"P11111"},
		docstore.NewMemory(), docstore.NewMemory(), alphafold)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(sum.PLDDTs) != 1 || sum.PLDDTs[0] != 65 {
		t.Errorf("PLDDTs = %v, want [65]", sum.PLDDTs)
	}
	if sum.AF2Best == nil || sum.AF2Best.LEN != 400 {
		t.Errorf("AF2Best = %+v, want LEN 400", sum.AF2Best)
	}
}

func TestExtractAlphaFoldSingleModelClearsWorst(t *testing.T) {
	ctx := context.Background()
	alphafold := docstore.NewMemory()
	if err := alphafold.InsertMany(ctx, []docstore.Document{
		afDoc("P11111", 85, 120),
	}); err != nil {
		t.Fatalf("seed alphafold: %v", err)
	}

	sum, err := NewExtractor().Extract(ctx, []string{"P11111"},
		docstore.NewMemory(), docstore.NewMemory(), alphafold)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if sum.AF2Best == nil || sum.AF2Best.ACC != "P11111" {
		t.Errorf("AF2Best = %+v, want P11111", sum.AF2Best)
	}
	if sum.AF2Worst != nil {
		t.Errorf("AF2Worst = %+v, want nil when best and worst coincide", sum.AF2Worst)
	}
}

func TestExtractAlphaFoldNoModels(t *testing.T) {
	ctx := context.Background()
	sum, err := NewExtractor().Extract(ctx, []string{"P11111"},
		docstore.NewMemory(), docstore.NewMemory(), docstore.NewMemory())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	// An empty slice marks that AlphaFold was consulted.
	if sum.PLDDTs == nil || len(sum.PLDDTs) != 0 {
		t.Errorf("PLDDTs = %v, want empty non-nil", sum.PLDDTs)
	}
}

func TestExtractQueryFailure(t *testing.T) {
	ctx := context.Background()
	queryErr := errors.New("connection reset")
	failing := &failingCollection{err: queryErr}

	if _, err := NewExtractor().Extract(ctx, []string{"P11111"}, failing, docstore.NewMemory(), nil); !errors.Is(err, queryErr) {
		t.Errorf("Extract() error = %v, want wrapped %v", err, queryErr)
	}
	if _, err := NewExtractor().Extract(ctx, []string{"P11111"}, docstore.NewMemory(), docstore.NewMemory(), failing); !errors.Is(err, queryErr) {
		t.Errorf("Extract() error = %v, want wrapped %v", err, queryErr)
	}
}
