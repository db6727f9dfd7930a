package views

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/route"
)

// localizations are the annotation categories shown publicly. Everything
// else (QC flags, private localizations) is private-mode only.
var localizations = map[string]bool{
	"membrane": true, "vesicles": true, "er": true, "golgi": true,
	"mitochondria": true, "centrosome": true, "cytoskeleton": true,
	"chromatin": true, "nucleoplasm": true, "nuclear_membrane": true,
	"nucleolus_gc": true, "nucleolus_fc_dfc": true, "nuclear_punctae": true,
	"big_aggregates": true, "cell_contact": true, "focal_adhesions": true,
	"cytoplasmic": true,
}

// IsLocalization reports whether an annotation category (with or without a
// grade suffix) is a public localization.
func IsLocalization(category string) bool {
	base, _ := splitGrade(category)
	return localizations[base]
}

// Target renders a cell line profile. kind selects the section: the
// overview, the field-of-view list or the annotation view.
func Target(p *api.Profile, kind route.PageKind, m mode.Mode) (string, []browser.Link) {
	d := &doc{}
	line := p.Line
	md := line.Metadata
	cid := identity.Encode(identity.New(md.CellLineID))

	d.h1(fmt.Sprintf("%s · %s", orNA(md.TargetName), cid))
	d.para(line.UniprotMetadata.ProteinName)

	if m.IsPrivate() {
		tabs := []struct {
			kind  route.PageKind
			label string
		}{
			{route.KindTarget, "Profile"},
			{route.KindFOVs, "FOVs"},
			{route.KindAnnotations, "Annotations"},
		}
		parts := make([]string, 0, len(tabs))
		for _, t := range tabs {
			label := t.label
			if t.kind == kind {
				label = "**" + label + "**"
			}
			parts = append(parts, d.link(label, "/"+string(t.kind)+"/"+cid))
		}
		d.para(strings.Join(parts, " · "))
	}

	switch kind {
	case route.KindFOVs:
		writeFOVs(d, p.FOVs)
	case route.KindAnnotations:
		writeAnnotation(d, line, p.Annotation)
	default:
		writeOverview(d, p, m)
	}
	return d.result()
}

func writeOverview(d *doc, p *api.Profile, m mode.Mode) {
	line := p.Line
	md := line.Metadata

	if p.Function != nil && p.Function.Annotation != "" {
		d.h2("Function")
		d.para(p.Function.Annotation)
	}

	d.h2("Localization")
	var cats []string
	for _, c := range line.Annotation.Categories {
		if IsLocalization(c) || m.IsPrivate() {
			cats = append(cats, Category(c))
		}
	}
	if len(cats) == 0 {
		d.para("No localization annotations.")
	} else {
		d.para(strings.Join(cats, ", "))
	}

	d.h2("Metadata")
	uniprot := orNA(line.UniprotMetadata.UniprotID)
	if line.UniprotMetadata.UniprotID != "" {
		uniprot = d.link(uniprot, "https://www.uniprot.org/uniprot/"+line.UniprotMetadata.UniprotID)
	}
	rows := [][2]string{
		{"Gene name", orNA(md.TargetName)},
		{"Family", orNA(md.TargetFamily)},
		{"Tag terminus", orNA(md.TargetTerminus)},
		{"Uniprot ID", uniprot},
		{"ENSG ID", orNA(md.ENSGID)},
		{"CRISPR guide RNA", orNA(strings.ToUpper(md.ProtospacerSequence))},
	}
	if m.IsPrivate() {
		sortCount := na
		if md.SortCount != nil {
			sortCount = strconv.Itoa(*md.SortCount)
		}
		rows = append(rows,
			[2]string{"Plate", orNA(md.PlateID)},
			[2]string{"Well", orNA(md.WellID)},
			[2]string{"Sort count", sortCount},
		)
	}
	d.kv(rows)

	d.h2("Expression")
	writeAbundance(d, line.Abundance)

	d.h2("FACS")
	d.kv([][2]string{
		{"Area", Percent(line.FACS.Area)},
		{"Intensity (log a.u.)", Fixed(line.FACS.Intensity, 2)},
	})

	if line.BestPulldown.ID != nil {
		d.h2("Interaction partners")
		writePartners(d, p.Partners)
	}
}

// writePartners lists significant interactors strongest first. Tagged
// partners resolve to their cell line; the rest link to their gene page.
func writePartners(d *doc, partners []api.Partner) {
	var rows [][]string
	for _, p := range sortedPartners(partners) {
		if p.IsBait || p.Type == "bait" {
			continue
		}
		name := p.Name()
		switch {
		case name == "":
			continue
		case p.IsTarget():
			name = d.lookup(name, name)
		case len(p.ENSGIDs) > 0:
			name = d.link(name, "/gene/"+p.ENSGIDs[0])
		}
		kind := "interactor"
		switch {
		case p.Type == "pulldown":
			kind = "bait"
		case p.IsMinorHit:
			kind = "minor"
		}
		rows = append(rows, []string{name, kind, Fixed(p.Enrichment, 1), Fixed(p.InteractionStoich, 3)})
	}
	if len(rows) == 0 {
		d.para("No significant interactions.")
		return
	}
	d.table([]string{"Protein", "Type", "Enrichment", "Interaction stoich."}, rows)
}

func sortedPartners(partners []api.Partner) []api.Partner {
	out := slices.Clone(partners)
	slices.SortStableFunc(out, func(a, b api.Partner) int {
		return cmp.Compare(deref(b.Enrichment), deref(a.Enrichment))
	})
	return out
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func writeAbundance(d *doc, ab *api.Abundance) {
	if ab == nil {
		d.para("No abundance measurements.")
		return
	}
	conc := Concentration(ab.ProteinConcentration)
	if ab.ProteinAbundanceImputed && conc != na {
		conc += " (imputed)"
	}
	d.kv([][2]string{
		{"RNA expression (tpm)", Concentration(ab.RNAAbundance)},
		{"Protein concentration (nM)", conc},
		{"Protein copy number (copies/cell)", CopyNumber(ab.ProteinCopyNumber)},
	})
}

func writeFOVs(d *doc, fovs []api.FOV) {
	d.h2("Fields of view")
	if len(fovs) == 0 {
		d.para("There are no FOVs associated with this cell line.")
		return
	}
	d.para(fmt.Sprintf("%d FOVs, best scored first.", len(fovs)))

	rows := make([][]string, 0, len(fovs))
	for _, f := range fovs {
		annotated := "no"
		if f.Annotation != nil {
			annotated = "yes"
			if len(f.Annotation.Categories) > 0 {
				annotated = cell(strings.Join(f.Annotation.Categories, ", "))
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(f.Metadata.ID),
			orNA(f.Metadata.PMLID),
			Fixed(f.Metadata.Score, 2),
			Fixed(f.Metadata.CellLayerCenter, 1),
			annotated,
		})
	}
	d.table([]string{"FOV", "Dataset", "Score", "Cell layer (um)", "Annotation"}, rows)
}

func writeAnnotation(d *doc, line *api.CellLine, ann *api.LineAnnotation) {
	d.h2("Annotation")
	if ann == nil {
		d.para("This cell line has not been annotated.")
		return
	}

	var locs, flags []string
	for _, c := range ann.Categories {
		if IsLocalization(c) {
			locs = append(locs, Category(c))
		} else {
			flags = append(flags, Category(c))
		}
	}
	d.kv([][2]string{
		{"Localization", strings.Join(locs, ", ")},
		{"QC flags", strings.Join(flags, ", ")},
		{"Graded", strconv.FormatBool(line.Annotation.HasGradedAnnotations)},
	})
	if ann.Comment != "" {
		d.h3("Comment")
		d.para(ann.Comment)
	}
}
