package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

func publicationReady(only bool) url.Values {
	return url.Values{"publication_ready": {strconv.FormatBool(only)}}
}

// SearchGeneName looks up tagged cell lines and genes whose name matches name
// exactly. With publicationReadyOnly the server hides unpublished lines.
func (c *Client) SearchGeneName(ctx context.Context, name string, publicationReadyOnly bool) (GeneNameResult, error) {
	var res GeneNameResult
	err := c.getJSON(ctx, "/search/"+url.PathEscape(name), publicationReady(publicationReadyOnly), &res)
	return res, err
}

// FullTextSearch searches gene and protein names of targets and interactors.
func (c *Client) FullTextSearch(ctx context.Context, query string) (FullTextResult, error) {
	var res FullTextResult
	err := c.getJSON(ctx, "/fsearch/"+url.PathEscape(query), nil, &res)
	return res, err
}

// TargetNames lists every target with its protein name.
func (c *Client) TargetNames(ctx context.Context, publicationReadyOnly bool) ([]TargetName, error) {
	var names []TargetName
	err := c.getJSON(ctx, "/target_names", publicationReady(publicationReadyOnly), &names)
	return names, err
}

// CellLines lists all cell lines.
func (c *Client) CellLines(ctx context.Context, publicationReadyOnly bool) ([]CellLine, error) {
	var lines []CellLine
	err := c.getJSON(ctx, "/lines", publicationReady(publicationReadyOnly), &lines)
	return lines, err
}

// CellLine fetches one cell line by numeric id.
func (c *Client) CellLine(ctx context.Context, id int, publicationReadyOnly bool) (*CellLine, error) {
	var line CellLine
	if err := c.getJSON(ctx, "/lines/"+strconv.Itoa(id), publicationReady(publicationReadyOnly), &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// FOVs lists the fields of view imaged for a cell line, best scored first.
func (c *Client) FOVs(ctx context.Context, id int) ([]FOV, error) {
	var fovs []FOV
	err := c.getJSON(ctx, "/lines/"+strconv.Itoa(id)+"/fovs", nil, &fovs)
	return fovs, err
}

// LineAnnotation fetches the manual annotation of a cell line.
func (c *Client) LineAnnotation(ctx context.Context, id int) (*LineAnnotation, error) {
	var ann LineAnnotation
	if err := c.getJSON(ctx, "/lines/"+strconv.Itoa(id)+"/annotation", nil, &ann); err != nil {
		return nil, err
	}
	return &ann, nil
}

// FunctionalAnnotation fetches the UniProtKB function comment.
func (c *Client) FunctionalAnnotation(ctx context.Context, uniprotID string) (*FunctionalAnnotation, error) {
	var fa FunctionalAnnotation
	if err := c.getJSON(ctx, "/uniprotkb_annotation/"+url.PathEscape(uniprotID), nil, &fa); err != nil {
		return nil, err
	}
	return &fa, nil
}

// Interactor fetches the profile of a gene by ENSG id.
func (c *Client) Interactor(ctx context.Context, ensgID string) (*Interactor, error) {
	var it Interactor
	if err := c.getJSON(ctx, "/interactors/"+url.PathEscape(ensgID), nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// PulldownHits lists the significant hits of a pulldown.
func (c *Client) PulldownHits(ctx context.Context, pulldownID int) ([]Partner, error) {
	var res struct {
		SignificantHits []Partner `json:"significant_hits"`
	}
	err := c.getJSON(ctx, "/pulldowns/"+strconv.Itoa(pulldownID)+"/hits", nil, &res)
	return res.SignificantHits, err
}

// InteractorNetwork lists the nodes of the network around a gene that was
// not itself tagged. Pulldown nodes are the targets that found it.
func (c *Client) InteractorNetwork(ctx context.Context, ensgID string) ([]Partner, error) {
	var res struct {
		Nodes []struct {
			Data Partner `json:"data"`
		} `json:"nodes"`
	}
	if err := c.getJSON(ctx, "/interactors/"+url.PathEscape(ensgID)+"/network", nil, &res); err != nil {
		return nil, err
	}
	nodes := make([]Partner, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		nodes = append(nodes, n.Data)
	}
	return nodes, nil
}

// Profile is everything the target pages show for one cell line.
type Profile struct {
	Line       *CellLine
	Function   *FunctionalAnnotation // nil if UniProtKB has no entry
	FOVs       []FOV                 // private only
	Annotation *LineAnnotation       // private only; nil if not annotated
	Partners   []Partner             // significant hits of the best pulldown
}

// ProfileOptions selects the optional parts of a Profile.
type ProfileOptions struct {
	PublicationReadyOnly bool
	IncludeFOVs          bool
	IncludeAnnotation    bool
}

// LoadProfile fetches a cell line and its optional parts concurrently. Only a
// failure to fetch the line itself is an error; missing FOVs, annotations,
// function comments or partners leave the corresponding field empty.
func (c *Client) LoadProfile(ctx context.Context, id int, opts ProfileOptions) (*Profile, error) {
	p := &Profile{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		line, err := c.CellLine(gctx, id, opts.PublicationReadyOnly)
		if err != nil {
			return fmt.Errorf("cell line %d: %w", id, err)
		}
		p.Line = line

		if pid := line.BestPulldown.ID; pid != nil {
			g.Go(func() error {
				hits, err := c.PulldownHits(gctx, *pid)
				if err != nil {
					c.logger.Debug("no pulldown hits", "pulldown_id", *pid, "error", err)
				}
				p.Partners = hits
				return nil
			})
		}

		if uid := line.UniprotMetadata.UniprotID; uid != "" {
			fa, err := c.FunctionalAnnotation(gctx, uid)
			if err != nil {
				c.logger.Debug("no functional annotation", "uniprot_id", uid, "error", err)
			} else {
				p.Function = fa
			}
		}
		return nil
	})

	if opts.IncludeFOVs {
		g.Go(func() error {
			fovs, err := c.FOVs(gctx, id)
			if err != nil && !errors.Is(err, ErrNotFound) {
				c.logger.Warn("loading fovs", "cell_line_id", id, "error", err)
			}
			p.FOVs = fovs
			return nil
		})
	}

	if opts.IncludeAnnotation {
		g.Go(func() error {
			ann, err := c.LineAnnotation(gctx, id)
			if err != nil && !errors.Is(err, ErrNotFound) {
				c.logger.Warn("loading annotation", "cell_line_id", id, "error", err)
			}
			p.Annotation = ann
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
