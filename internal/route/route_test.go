package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
)

func TestMatchPublic(t *testing.T) {
	table := NewTable(mode.Public)

	tests := []struct {
		path   string
		view   View
		params map[string]string
	}{
		{"/", ViewLanding, nil},
		{"", ViewLanding, nil},
		{"/target", ViewTargets, nil},
		{"/targets", ViewTargets, nil},
		{"/targets/", ViewTargets, nil},
		{"/target/CID000367", ViewTarget, map[string]string{ParamCellLineID: "CID000367"}},
		{"/target/CID000367/extra", ViewTarget, map[string]string{ParamCellLineID: "CID000367"}},
		{"/interactor/ENSG00000123", ViewInteractor, map[string]string{ParamEnsgID: "ENSG00000123"}},
		{"/gene/ENSG00000123", ViewInteractor, map[string]string{ParamEnsgID: "ENSG00000123"}},
		{"/search/map%204", ViewSearch, map[string]string{ParamQuery: "map 4"}},
		{"/search", ViewSearch, nil},
		{"/gallery", ViewGallery, nil},
		{"/about", ViewAbout, nil},
		{"/help", ViewHelp, nil},
		{"/download", ViewDownload, nil},
		{"/privacy", ViewPrivacy, nil},
		{"/contact", ViewContact, nil},
		{"/jobs", ViewJobs, nil},
		{"/fovs/CID000367", ViewNotFound, nil},
		{"/annotations", ViewNotFound, nil},
		{"/dashboard", ViewNotFound, nil},
		{"/umap", ViewNotFound, nil},
		{"/nowhere", ViewNotFound, nil},
		{"/targets/CID000001", ViewNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			view, params := table.Match(tt.path)
			assert.Equal(t, tt.view, view)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestMatchPrivate(t *testing.T) {
	table := NewTable(mode.Private)

	tests := []struct {
		path string
		view View
	}{
		{"/", ViewLanding},
		{"/fovs/CID000367", ViewFOVs},
		{"/fovs", ViewFOVs},
		{"/annotations/CID000367", ViewAnnotations},
		{"/annotations", ViewAnnotations},
		{"/dashboard", ViewDashboard},
		{"/umap", ViewUMAP},
		{"/target/CID000001", ViewTarget},
		{"/gallery", ViewGallery},
		{"/nowhere", ViewNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			view, _ := table.Match(tt.path)
			assert.Equal(t, tt.view, view)
		})
	}
}

func TestAllows(t *testing.T) {
	pub := NewTable(mode.Public)
	priv := NewTable(mode.Private)

	assert.False(t, pub.Allows(ViewDashboard))
	assert.True(t, priv.Allows(ViewDashboard))
	assert.True(t, pub.Allows(ViewLanding))
	assert.True(t, pub.Allows(ViewNotFound))
	assert.True(t, pub.Allows(ViewTarget))
	for _, r := range PrivateRoutes() {
		assert.False(t, pub.Allows(r.View), r.View)
		assert.True(t, priv.Allows(r.View), r.View)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTarget, KindOf("target"))
	assert.Equal(t, KindFOVs, KindOf("fovs"))
	assert.Equal(t, KindAnnotations, KindOf("annotations"))
	assert.Equal(t, KindNone, KindOf("targets"))
	assert.Equal(t, KindNone, KindOf("gallery"))
	assert.Equal(t, KindNone, KindOf(""))
	assert.False(t, KindNone.IsEntity())
	assert.True(t, KindFOVs.IsEntity())
}

func TestParse(t *testing.T) {
	table := NewTable(mode.Private)

	st := Parse(table, "/fovs/CID000367?mode=private")
	assert.Equal(t, "/fovs/CID000367", st.Path)
	assert.Equal(t, "?mode=private", st.Query)
	assert.Equal(t, "fovs", st.Segment)
	assert.Equal(t, KindFOVs, st.Kind)
	assert.Equal(t, "CID000367", st.RawID)
	assert.Equal(t, identity.New(367), st.ID)
	assert.Equal(t, ViewFOVs, st.View)
	assert.Equal(t, "/fovs/CID000367?mode=private", st.Location())

	st = Parse(table, "/gallery")
	assert.Equal(t, KindNone, st.Kind)
	assert.True(t, st.ID.IsNone())
	assert.Equal(t, ViewGallery, st.View)
	assert.Equal(t, "", st.Query)

	st = Parse(table, "/annotations")
	assert.Equal(t, KindAnnotations, st.Kind)
	assert.True(t, st.ID.IsNone())

	st = Parse(table, "?mode=public")
	assert.Equal(t, "/", st.Path)
	assert.Equal(t, ViewLanding, st.View)
	assert.Equal(t, KindNone, st.Kind)

	st = Parse(table, "/gene/ENSG0001")
	require.Equal(t, ViewInteractor, st.View)
	assert.Equal(t, "ENSG0001", st.Param(ParamEnsgID))
}

func TestShowsCellLine(t *testing.T) {
	pub := NewTable(mode.Public)
	priv := NewTable(mode.Private)

	tests := []struct {
		table    *Table
		location string
		want     bool
	}{
		{pub, "/target/CID000828", true},
		{pub, "/target", false},
		{pub, "/targets", false},
		{pub, "/fovs/901", false},
		{priv, "/fovs/901", true},
		{priv, "/annotations", true},
		{priv, "/gallery", false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.table, tt.location).ShowsCellLine())
		})
	}
}

func TestParseUnmatchedDoesNotPanic(t *testing.T) {
	table := NewTable(mode.Public)
	assert.NotPanics(t, func() {
		st := Parse(table, "/fovs/CID000001")
		assert.Equal(t, ViewNotFound, st.View)
		assert.Equal(t, KindFOVs, st.Kind)
	})
}
