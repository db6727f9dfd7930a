package views

import (
	"fmt"
	"slices"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
)

// Interactor renders the profile of a gene that is not an OpenCell target.
func Interactor(it *api.Interactor, network []api.Partner) (string, []browser.Link) {
	d := &doc{}
	md := it.Metadata

	d.h1(fmt.Sprintf("%s · %s", orNA(md.TargetName), orNA(md.ENSGID)))
	d.para(it.UniprotMetadata.ProteinName)

	d.para("> **This protein is not in the OpenCell library.** It has not been tagged; " +
		"this page shows its abundance in HEK293T cells and any interactions observed with tagged targets.")

	switch {
	case !md.IsExpressed:
		d.para("> **Not expressed.** This protein was not found to be expressed in HEK293T cells " +
			"by bulk RNA-Seq (threshold 1 transcript per million). If this looks wrong, " +
			d.link("contact us", "/contact") + ".")
	case !md.HasInteractors:
		d.para("> **No interactions.** This protein is expressed but was not observed to interact " +
			"with any tagged protein. To suggest it for tagging, " + d.link("let us know", "/contact") + ".")
	default:
		d.para("> **Incomplete network.** Interactions are only known with tagged proteins, " +
			"so this protein's network is almost certainly incomplete.")
	}

	if it.UniprotMetadata.Annotation != "" {
		d.h2("About this protein")
		d.para(it.UniprotMetadata.Annotation)
	}

	d.h2("Protein abundance")
	writeAbundance(d, it.Abundance)

	if md.HasInteractors {
		d.h2("Interaction partners")
		writePartners(d, slices.DeleteFunc(slices.Clone(network), func(p api.Partner) bool {
			return slices.Contains(p.ENSGIDs, md.ENSGID)
		}))
	}

	d.h2("Reference databases")
	writeExternalLinks(d, md.ENSGID, it.UniprotMetadata.UniprotID)
	return d.result()
}

func writeExternalLinks(d *doc, ensgID, uniprotID string) {
	if ensgID != "" {
		d.printf("- %s\n", d.link("Ensembl", "https://uswest.ensembl.org/Homo_sapiens/Gene/Summary?g="+ensgID))
		d.printf("- %s\n", d.link("NCBI", "https://www.ncbi.nlm.nih.gov/gene/?term="+ensgID))
		d.printf("- %s\n", d.link("HPA", "https://www.proteinatlas.org/"+ensgID))
	}
	if uniprotID != "" {
		d.printf("- %s\n", d.link("UniProt", "https://www.uniprot.org/uniprot/"+uniprotID))
	}
	d.sb.WriteString("\n")
}
