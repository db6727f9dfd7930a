package api

// GeneNameResult is the exact-match lookup for a gene name. Either list may be
// empty. Cell line ids use the OPCT form ("OPCT00000000828").
type GeneNameResult struct {
	OCIDs   []string `json:"oc_ids"`
	ENSGIDs []string `json:"ensg_ids"`
}

// HasTargets reports whether the lookup matched at least one tagged cell line.
func (r GeneNameResult) HasTargets() bool { return len(r.OCIDs) > 0 }

// HasGenes reports whether the lookup matched at least one gene.
func (r GeneNameResult) HasGenes() bool { return len(r.ENSGIDs) > 0 }

// SearchHit is one row of a full-text search.
type SearchHit struct {
	ENSGID              string   `json:"ensg_id"`
	GeneName            string   `json:"gene_name"`
	ProteinName         string   `json:"protein_name"`
	PublishedCellLineID *int     `json:"published_cell_line_id"`
	Status              string   `json:"status"`
	Relevance           float64  `json:"relevance"`
	MeasuredExpression  *float64 `json:"measured_expression"`
	MeasuredAbundance   *float64 `json:"measured_abundance"`
	ImputedAbundance    *float64 `json:"imputed_abundance"`
}

// Concentration returns the measured protein concentration (nM), falling
// back to the imputed one.
func (h SearchHit) Concentration() *float64 {
	if h.MeasuredAbundance != nil && *h.MeasuredAbundance != 0 {
		return h.MeasuredAbundance
	}
	return h.ImputedAbundance
}

// FullTextResult is the response of the full-text search endpoint.
type FullTextResult struct {
	IsValidGeneName  bool        `json:"is_valid_gene_name"`
	IsLegacyGeneName bool        `json:"is_legacy_gene_name"`
	ApprovedGeneName string      `json:"approved_gene_name"`
	ExactMatchFound  bool        `json:"exact_match_found"`
	Hits             []SearchHit `json:"hits"`
}

// TargetName pairs a target with its protein name, for search suggestions.
type TargetName struct {
	TargetName  string `json:"target_name"`
	ProteinName string `json:"protein_name"`
}

// CellLineMetadata is the top-level "metadata" object of a cell line.
type CellLineMetadata struct {
	CellLineID          int    `json:"cell_line_id"`
	SortCount           *int   `json:"sort_count"`
	WellID              string `json:"well_id"`
	PlateID             string `json:"plate_id"`
	TargetName          string `json:"target_name"`
	TargetFamily        string `json:"target_family"`
	TargetTerminus      string `json:"target_terminus"`
	ProtospacerSequence string `json:"protospacer_sequence"`
	ENSTID              string `json:"enst_id"`
	ENSGID              string `json:"ensg_id"`
}

// UniprotMetadata identifies the protein behind a target or interactor.
type UniprotMetadata struct {
	UniprotID   string `json:"uniprot_id"`
	GeneName    string `json:"gene_name"`
	ProteinName string `json:"protein_name"`
	Annotation  string `json:"annotation"`
}

// Abundance holds expression measurements. Any value may be missing.
type Abundance struct {
	RNAAbundance            *float64 `json:"rna_abundance"`
	ProteinConcentration    *float64 `json:"protein_concentration"`
	ProteinCopyNumber       *float64 `json:"protein_copy_number"`
	ProteinAbundanceImputed bool     `json:"protein_abundance_imputed"`
}

// FACS holds the sorting scalars for a cell line.
type FACS struct {
	Area      *float64 `json:"area"`
	Intensity *float64 `json:"intensity"`
}

// Annotation is the localization annotation summary of a cell line.
type Annotation struct {
	Categories           []string `json:"categories"`
	HasGradedAnnotations bool     `json:"has_graded_annotations"`
}

// Pulldown references the best mass-spec pulldown of a cell line.
type Pulldown struct {
	ID              *int `json:"id"`
	HasSavedNetwork bool `json:"has_saved_network"`
}

// FOVCounts is only present on private cell line lists.
type FOVCounts struct {
	NumFOVs          int `json:"num_fovs"`
	NumAnnotatedFOVs int `json:"num_annotated_fovs"`
}

// CellLine is the payload of the cell line endpoints.
type CellLine struct {
	Metadata        CellLineMetadata   `json:"metadata"`
	UniprotMetadata UniprotMetadata    `json:"uniprot_metadata"`
	Abundance       *Abundance         `json:"abundance_data"`
	FACS            FACS               `json:"facs"`
	Sequencing      map[string]float64 `json:"sequencing"`
	Annotation      Annotation         `json:"annotation"`
	BestPulldown    Pulldown           `json:"best_pulldown"`
	FOVCounts       *FOVCounts         `json:"fov_counts"`
}

// FunctionalAnnotation is the UniProtKB function comment for a protein.
type FunctionalAnnotation struct {
	UniprotID  string `json:"uniprot_id"`
	Annotation string `json:"functional_annotation"`
}

// FOVMetadata describes one microscopy field of view.
type FOVMetadata struct {
	ID              int      `json:"id"`
	Score           *float64 `json:"score"`
	PMLID           string   `json:"pml_id"`
	SrcFilename     string   `json:"src_filename"`
	ZStepSize       float64  `json:"z_step_size"`
	CellLayerCenter *float64 `json:"cell_layer_center"`
}

// FOVAnnotation is the manual annotation of a field of view, if any.
type FOVAnnotation struct {
	Categories []string `json:"categories"`
}

// FOV is one entry of a cell line's field-of-view list.
type FOV struct {
	Metadata   FOVMetadata    `json:"metadata"`
	Annotation *FOVAnnotation `json:"annotation"`
}

// LineAnnotation is the full manual annotation of a cell line.
type LineAnnotation struct {
	Comment    string   `json:"comment"`
	Categories []string `json:"categories"`
}

// InteractorMetadata mirrors the cell line metadata for a non-target gene.
type InteractorMetadata struct {
	ENSGID         string `json:"ensg_id"`
	TargetName     string `json:"target_name"`
	HasInteractors bool   `json:"has_interactors"`
	IsExpressed    bool   `json:"is_expressed"`
}

// Interactor is the payload of the interactor endpoint.
type Interactor struct {
	Metadata        InteractorMetadata `json:"metadata"`
	UniprotMetadata UniprotMetadata    `json:"uniprot_metadata"`
	Abundance       *Abundance         `json:"abundance_data"`
}

// Partner is one protein in an interaction partner list: a significant hit
// of a pulldown or a node of an interactor's network.
type Partner struct {
	GeneNames         []string `json:"uniprot_gene_names"`
	TargetNames       []string `json:"opencell_target_names"`
	ENSGIDs           []string `json:"ensg_ids"`
	IsBait            bool     `json:"is_bait"`
	IsMinorHit        bool     `json:"is_minor_hit"`
	Type              string   `json:"type"` // network nodes: bait, hit or pulldown
	Pval              *float64 `json:"pval"`
	Enrichment        *float64 `json:"enrichment"`
	InteractionStoich *float64 `json:"interaction_stoich"`
	AbundanceStoich   *float64 `json:"abundance_stoich"`
}

// Name is the first target name, falling back to the first gene name.
func (p Partner) Name() string {
	if len(p.TargetNames) > 0 {
		return p.TargetNames[0]
	}
	if len(p.GeneNames) > 0 {
		return p.GeneNames[0]
	}
	return ""
}

// IsTarget reports whether the partner was itself tagged.
func (p Partner) IsTarget() bool { return len(p.TargetNames) > 0 }
