package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/mode"
)

// Targets renders the table of all tagged cell lines. The row for
// selectedID, if present, is marked.
func Targets(lines []api.CellLine, selectedID int, m mode.Mode) (string, []browser.Link) {
	d := &doc{}
	d.h1("All tagged proteins")
	d.para(fmt.Sprintf("%d cell lines.", len(lines)))

	sorted := make([]api.CellLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToUpper(sorted[i].Metadata.TargetName) < strings.ToUpper(sorted[j].Metadata.TargetName)
	})

	header := []string{"Gene name", "Description", "Family", "Terminus", "RNA (tpm)", "Conc. (nM)", "Copies/cell"}
	if m.IsPrivate() {
		header = append(header, "Plate", "Well", "FOVs")
	}

	rows := make([][]string, 0, len(sorted))
	for _, l := range sorted {
		name := orNA(l.Metadata.TargetName)
		if l.Metadata.CellLineID == selectedID {
			name = "▶ " + name
		}
		var ab api.Abundance
		if l.Abundance != nil {
			ab = *l.Abundance
		}
		row := []string{
			d.link(cell(name), targetPath(l.Metadata.CellLineID)),
			cell(truncate(orNA(l.UniprotMetadata.ProteinName), 40)),
			cell(orNA(l.Metadata.TargetFamily)),
			orNA(l.Metadata.TargetTerminus),
			Concentration(ab.RNAAbundance),
			Concentration(ab.ProteinConcentration),
			CopyNumber(ab.ProteinCopyNumber),
		}
		if m.IsPrivate() {
			fovs := na
			if l.FOVCounts != nil {
				fovs = fmt.Sprintf("%d (%d annotated)", l.FOVCounts.NumFOVs, l.FOVCounts.NumAnnotatedFOVs)
			}
			row = append(row, orNA(l.Metadata.PlateID), orNA(l.Metadata.WellID), fovs)
		}
		rows = append(rows, row)
	}
	d.table(header, rows)
	return d.result()
}
