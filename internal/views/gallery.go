package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
)

// Gallery lists the targets annotated with a localization. Without one it
// lists the localizations with their target counts.
func Gallery(lines []api.CellLine, localization string) (string, []browser.Link) {
	d := &doc{}
	localization = strings.ToLower(strings.TrimSpace(localization))

	byLoc := map[string][]api.CellLine{}
	for _, l := range lines {
		seen := map[string]bool{}
		for _, c := range l.Annotation.Categories {
			if !IsLocalization(c) {
				continue
			}
			key, _ := splitGrade(c)
			if !seen[key] {
				seen[key] = true
				byLoc[key] = append(byLoc[key], l)
			}
		}
	}

	if localization == "" {
		d.h1("Microscopy gallery")
		d.para("Targets by subcellular localization.")
		counts := make(map[string]int, len(byLoc))
		for k, v := range byLoc {
			counts[k] = len(v)
		}
		writeCounts(d, "Localization", tally(counts), func(name string) string {
			return d.link(Category(name), "/gallery?localization="+name)
		})
		return d.result()
	}

	matched := byLoc[localization]
	d.h1("Gallery: " + Category(localization))
	d.para(fmt.Sprintf("%d targets. %s", len(matched), d.link("All localizations", "/gallery")))

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Metadata.TargetName < matched[j].Metadata.TargetName
	})
	for _, l := range matched {
		d.printf("- %s %s\n",
			d.link(cell(orNA(l.Metadata.TargetName)), targetPath(l.Metadata.CellLineID)),
			truncate(l.UniprotMetadata.ProteinName, 60))
	}
	d.sb.WriteString("\n")
	return d.result()
}
