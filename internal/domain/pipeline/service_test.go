package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/pkg/config"
)

const incomePageText = `CONSOLIDATED STATEMENTS OF INCOME

Net sales
Cost of goods sold
Gross profit
Operating expenses
Net income
`

const incomeTableText = `Account | 2023 | 2022
Net sales | 900 | 800
Cost of goods sold | 300 | 280
Gross profit | 600 | 520
Operating expenses | 400 | 360
Net income | 150 | 120
`

type fakeExtractor struct {
	pages map[uuid.UUID][]string
	err   error
}

func (f *fakeExtractor) ExtractPages(_ context.Context, doc statement.SourceDocument) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[doc.ID], nil
}

type fakeTables struct {
	tables map[uuid.UUID]string
	calls  [][]int
}

func (f *fakeTables) ExtractTable(_ context.Context, doc statement.SourceDocument, pages []int) (string, error) {
	f.calls = append(f.calls, pages)
	return f.tables[doc.ID], nil
}

func newTestService(extractor *fakeExtractor, tables *fakeTables) *Service {
	return NewService(extractor, nil, tables, config.DefaultCalibration(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessDocument(t *testing.T) {
	doc := statement.SourceDocument{ID: uuid.New(), Label: "acme-10k-2023.pdf"}
	extractor := &fakeExtractor{pages: map[uuid.UUID][]string{
		doc.ID: {"cover page", incomePageText},
	}}
	tables := &fakeTables{tables: map[uuid.UUID]string{doc.ID: incomeTableText}}

	svc := newTestService(extractor, tables)
	result, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.Pages[statement.IncomeStatement])
	require.Contains(t, result.Statements, statement.IncomeStatement)

	parsed := result.Statements[statement.IncomeStatement]
	assert.Equal(t, []string{"2023", "2022"}, parsed.Periods)
	assert.Len(t, parsed.LineItems, 5)

	// The re-extraction collaborator receives the classified page list.
	require.Len(t, tables.calls, 1)
	assert.Equal(t, []int{1}, tables.calls[0])
}

func TestProcessDocument_ExtractorError(t *testing.T) {
	doc := statement.SourceDocument{ID: uuid.New(), Label: "broken.pdf"}
	boom := errors.New("boom")
	svc := newTestService(&fakeExtractor{err: boom}, &fakeTables{})

	_, err := svc.ProcessDocument(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestProcessDocument_UnparseableTableIsNotFatal(t *testing.T) {
	doc := statement.SourceDocument{ID: uuid.New(), Label: "acme-10k.pdf"}
	extractor := &fakeExtractor{pages: map[uuid.UUID][]string{
		doc.ID: {incomePageText},
	}}
	// Re-extraction returned narrative text with no delimiter rows.
	tables := &fakeTables{tables: map[uuid.UUID]string{doc.ID: "no table here"}}

	svc := newTestService(extractor, tables)
	result, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, result.Pages[statement.IncomeStatement])
	assert.NotContains(t, result.Statements, statement.IncomeStatement)
}

func TestConsolidate(t *testing.T) {
	docA := statement.SourceDocument{ID: uuid.New(), Label: "acme-10k-2023.pdf"}
	docB := statement.SourceDocument{ID: uuid.New(), Label: "acme-10k-2021.pdf"}

	extractor := &fakeExtractor{pages: map[uuid.UUID][]string{
		docA.ID: {incomePageText},
		docB.ID: {incomePageText},
	}}
	tables := &fakeTables{tables: map[uuid.UUID]string{
		docA.ID: incomeTableText,
		docB.ID: "Account | 2021 |\nNet sales | 700 |\nNet income | 90 |\n",
	}}

	svc := newTestService(extractor, tables)

	resA, err := svc.ProcessDocument(context.Background(), docA)
	require.NoError(t, err)
	resB, err := svc.ProcessDocument(context.Background(), docB)
	require.NoError(t, err)

	merged, err := svc.Consolidate(statement.IncomeStatement, []*DocumentResult{resA, resB})
	require.NoError(t, err)

	assert.Equal(t, []string{"2023", "2022", "2021"}, merged.Years)

	byName := make(map[string]statement.ConsolidatedAccount)
	for _, acc := range merged.Accounts {
		byName[acc.CanonicalName] = acc
	}
	require.Contains(t, byName, "Net sales")
	assert.Equal(t, "700", byName["Net sales"].ValuesByYear["2021"])
	assert.Equal(t, "900", byName["Net sales"].ValuesByYear["2023"])
}

func TestConsolidate_MissingSource(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeTables{})

	res := &DocumentResult{
		Document:   statement.SourceDocument{ID: uuid.New(), Label: "empty.pdf"},
		Statements: map[statement.Type]statement.ParsedStatement{},
	}

	_, err := svc.Consolidate(statement.IncomeStatement, []*DocumentResult{res})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSource)
}
