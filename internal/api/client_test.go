package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://opencell.test/api"

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	mock := httpmock.NewMockTransport()
	c, err := New(Options{
		BaseURL:    testBase + "/",
		CacheSize:  8,
		HTTPClient: &http.Client{Transport: mock},
	})
	require.NoError(t, err)
	return c, mock
}

const cellLineJSON = `{
	"metadata": {"cell_line_id": 828, "plate_id": "P0012", "well_id": "A01",
		"target_name": "MAP4", "target_terminus": "C", "ensg_id": "ENSG00000047849"},
	"uniprot_metadata": {"uniprot_id": "P27816", "gene_name": "MAP4",
		"protein_name": "Microtubule associated protein 4"},
	"abundance_data": {"rna_abundance": 120.5, "protein_concentration": 310.25,
		"protein_copy_number": 1234567},
	"facs": {"area": 0.42, "intensity": 1.234},
	"annotation": {"categories": ["cytoskeleton", "microtubules_2"], "has_graded_annotations": true},
	"best_pulldown": {"id": 77}
}`

func TestSearchGeneName(t *testing.T) {
	c, mock := newTestClient(t)

	var gotQuery string
	mock.RegisterResponder("GET", testBase+"/search/MAP4",
		func(req *http.Request) (*http.Response, error) {
			gotQuery = req.URL.RawQuery
			return httpmock.NewStringResponse(http.StatusOK,
				`{"oc_ids": ["OPCT00000000828"], "ensg_ids": ["ENSG00000047849"]}`), nil
		})

	res, err := c.SearchGeneName(context.Background(), "MAP4", true)
	require.NoError(t, err)
	assert.Equal(t, "publication_ready=true", gotQuery)
	assert.True(t, res.HasTargets())
	assert.True(t, res.HasGenes())
	assert.Equal(t, "OPCT00000000828", res.OCIDs[0])
}

func TestSearchGeneNameEmpty(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/search/NOPE", httpmock.NewStringResponder(http.StatusOK, `{}`))

	res, err := c.SearchGeneName(context.Background(), "NOPE", false)
	require.NoError(t, err)
	assert.False(t, res.HasTargets())
	assert.False(t, res.HasGenes())
}

func TestResponsesAreCached(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/lines/828", httpmock.NewStringResponder(http.StatusOK, cellLineJSON))

	for range 3 {
		line, err := c.CellLine(context.Background(), 828, false)
		require.NoError(t, err)
		assert.Equal(t, "MAP4", line.Metadata.TargetName)
	}
	assert.Equal(t, 1, mock.GetTotalCallCount())

	// A different mode is a different URL.
	_, err := c.CellLine(context.Background(), 828, true)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.GetTotalCallCount())

	c.Purge()
	_, err = c.CellLine(context.Background(), 828, false)
	require.NoError(t, err)
	assert.Equal(t, 3, mock.GetTotalCallCount())
}

func TestCancelledCallerDoesNotFailOthers(t *testing.T) {
	c, mock := newTestClient(t)

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	mock.RegisterResponder("GET", testBase+"/lines/828",
		func(req *http.Request) (*http.Response, error) {
			started <- struct{}{}
			<-release
			return httpmock.NewStringResponse(http.StatusOK, cellLineJSON), nil
		})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.CellLine(ctxA, 828, false)
		errA <- err
	}()
	<-started

	cancelA()
	err := <-errA
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	type result struct {
		line *CellLine
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		line, err := c.CellLine(context.Background(), 828, false)
		resB <- result{line, err}
	}()
	close(release)

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "MAP4", b.line.Metadata.TargetName)
	assert.Equal(t, 1, mock.GetTotalCallCount(), "the second caller reuses the first request")
}

func TestStatusErrors(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/interactors/ENSG0", httpmock.NewStringResponder(http.StatusNotFound, `{}`))
	mock.RegisterResponder("GET", testBase+"/interactors/ENSG1", httpmock.NewStringResponder(http.StatusInternalServerError, `boom`))

	_, err := c.Interactor(context.Background(), "ENSG0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrStatus)

	_, err = c.Interactor(context.Background(), "ENSG1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrStatus)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)

	// Failures are not cached.
	_, _ = c.Interactor(context.Background(), "ENSG1")
	assert.Equal(t, 2, mock.GetCallCountInfo()["GET "+testBase+"/interactors/ENSG1"])
}

func TestDecodeError(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/target_names", httpmock.NewStringResponder(http.StatusOK, `not json`))

	_, err := c.TargetNames(context.Background(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestCellLinePayload(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/lines/828", httpmock.NewStringResponder(http.StatusOK, cellLineJSON))

	line, err := c.CellLine(context.Background(), 828, false)
	require.NoError(t, err)

	assert.Equal(t, 828, line.Metadata.CellLineID)
	assert.Equal(t, "P27816", line.UniprotMetadata.UniprotID)
	require.NotNil(t, line.Abundance)
	require.NotNil(t, line.Abundance.ProteinCopyNumber)
	assert.InDelta(t, 1234567, *line.Abundance.ProteinCopyNumber, 0.1)
	assert.True(t, line.Annotation.HasGradedAnnotations)
	require.NotNil(t, line.BestPulldown.ID)
	assert.Equal(t, 77, *line.BestPulldown.ID)
	assert.Nil(t, line.FOVCounts)
}

func TestLoadProfile(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/lines/828", httpmock.NewStringResponder(http.StatusOK, cellLineJSON))
	mock.RegisterResponder("GET", testBase+"/uniprotkb_annotation/P27816",
		httpmock.NewStringResponder(http.StatusOK, `{"uniprot_id": "P27816", "functional_annotation": "Binds microtubules."}`))
	mock.RegisterResponder("GET", testBase+"/lines/828/fovs",
		httpmock.NewStringResponder(http.StatusOK, `[{"metadata": {"id": 1, "score": 0.9, "pml_id": "PML0196"}, "annotation": null}]`))
	mock.RegisterResponder("GET", testBase+"/lines/828/annotation", httpmock.NewStringResponder(http.StatusNotFound, ``))
	mock.RegisterResponder("GET", testBase+"/pulldowns/77/hits", httpmock.NewStringResponder(http.StatusOK,
		`{"metadata": {"id": 77}, "significant_hits": [
			{"uniprot_gene_names": ["MAP4"], "opencell_target_names": ["MAP4"], "is_bait": true, "enrichment": 31.2},
			{"uniprot_gene_names": ["TUBB4A"], "ensg_ids": ["ENSG00000104833"], "pval": 12.1,
			 "enrichment": 6.5, "interaction_stoich": 0.02, "abundance_stoich": 1.5, "is_minor_hit": true}
		], "nonsignificant_hits": []}`))

	p, err := c.LoadProfile(context.Background(), 828, ProfileOptions{IncludeFOVs: true, IncludeAnnotation: true})
	require.NoError(t, err)
	require.NotNil(t, p.Line)
	require.NotNil(t, p.Function)
	assert.Equal(t, "Binds microtubules.", p.Function.Annotation)
	require.Len(t, p.FOVs, 1)
	assert.Equal(t, "PML0196", p.FOVs[0].Metadata.PMLID)
	assert.Nil(t, p.Annotation)

	require.Len(t, p.Partners, 2)
	assert.True(t, p.Partners[0].IsBait)
	hit := p.Partners[1]
	assert.Equal(t, "TUBB4A", hit.Name())
	assert.False(t, hit.IsTarget())
	assert.True(t, hit.IsMinorHit)
	require.NotNil(t, hit.InteractionStoich)
	assert.InDelta(t, 0.02, *hit.InteractionStoich, 1e-9)
}

func TestInteractorNetwork(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/interactors/ENSG00000104833/network", httpmock.NewStringResponder(http.StatusOK,
		`{"parent_nodes": [], "edges": [], "metadata": {},
		  "nodes": [
			{"data": {"id": "n1", "type": "hit", "uniprot_gene_names": ["TUBB4A"], "ensg_ids": ["ENSG00000104833"]}},
			{"data": {"id": "n2", "type": "pulldown", "opencell_target_names": ["MAP4"], "enrichment": 6.5}}
		  ]}`))

	nodes, err := c.InteractorNetwork(context.Background(), "ENSG00000104833")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "hit", nodes[0].Type)
	assert.Equal(t, "MAP4", nodes[1].Name())
	assert.True(t, nodes[1].IsTarget())

	_, err = c.InteractorNetwork(context.Background(), "ENSG0")
	assert.Error(t, err)
}

func TestLoadProfilePublicSkipsPrivateParts(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/lines/828", httpmock.NewStringResponder(http.StatusOK, cellLineJSON))
	mock.RegisterResponder("GET", testBase+"/uniprotkb_annotation/P27816", httpmock.NewStringResponder(http.StatusNotFound, ``))
	mock.RegisterResponder("GET", testBase+"/pulldowns/77/hits", httpmock.NewStringResponder(http.StatusInternalServerError, `boom`))

	p, err := c.LoadProfile(context.Background(), 828, ProfileOptions{PublicationReadyOnly: true})
	require.NoError(t, err, "a failed partner fetch does not fail the profile")
	assert.NotNil(t, p.Line)
	assert.Nil(t, p.Function)
	assert.Empty(t, p.FOVs)
	assert.Empty(t, p.Partners)
	assert.Equal(t, 3, mock.GetTotalCallCount())
}

func TestLoadProfileLineMissing(t *testing.T) {
	c, mock := newTestClient(t)
	mock.RegisterResponder("GET", testBase+"/lines/5", httpmock.NewStringResponder(http.StatusNotFound, ``))

	_, err := c.LoadProfile(context.Background(), 5, ProfileOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
