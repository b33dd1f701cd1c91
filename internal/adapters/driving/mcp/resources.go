package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for chpl resources.
	uriScheme = "chpl://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus/report",
		Name:        "corpus-report",
		Description: "Outcome of the last corpus load: loaded and skipped leaflets",
		MIMEType:    "application/json",
	}, s.handleReportResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "corpus/outcomes/{filename}",
		Name:        "corpus-outcome",
		Description: "Load outcome of a single corpus leaflet",
		MIMEType:    "application/json",
	}, s.handleOutcomeResource)
}

type reportInfo struct {
	RunID        string        `json:"run_id"`
	Source       string        `json:"source"`
	InvalidPath  bool          `json:"invalid_path"`
	Loaded       int           `json:"loaded"`
	Skipped      int           `json:"skipped"`
	SkippedPages int           `json:"skipped_pages"`
	Outcomes     []outcomeInfo `json:"outcomes"`
}

type outcomeInfo struct {
	Filename     string         `json:"filename"`
	Status       string         `json:"status"`
	Reason       string         `json:"reason,omitempty"`
	Pages        int            `json:"pages"`
	SkippedPages []pageSkipInfo `json:"skipped_pages,omitempty"`
}

type pageSkipInfo struct {
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}

func toOutcomeInfo(o domain.Outcome) outcomeInfo {
	info := outcomeInfo{
		Filename: o.Filename,
		Status:   string(o.Status),
		Reason:   o.Reason,
		Pages:    o.Pages,
	}
	for _, p := range o.SkippedPages {
		info.SkippedPages = append(info.SkippedPages, pageSkipInfo{Page: p.Page, Reason: p.Reason})
	}
	return info
}

// handleReportResource returns the processing report of the loaded corpus,
// loading the corpus first if no request has done so yet.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	report, err := s.report(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcomeInfo, len(report.Outcomes))
	for i, o := range report.Outcomes {
		outcomes[i] = toOutcomeInfo(o)
	}

	return jsonResource(req.Params.URI, reportInfo{
		RunID:        report.RunID,
		Source:       report.Source,
		InvalidPath:  report.InvalidPath,
		Loaded:       report.Loaded(),
		Skipped:      report.Skipped(),
		SkippedPages: report.SkippedPages(),
		Outcomes:     outcomes,
	})
}

// handleOutcomeResource returns the outcome for one corpus file.
func (s *Server) handleOutcomeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	filename := extractFilename(req.Params.URI)
	if filename == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.report(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range report.Outcomes {
		if o.Filename == filename {
			return jsonResource(req.Params.URI, toOutcomeInfo(o))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func (s *Server) report(ctx context.Context) (*domain.ProcessingReport, error) {
	if report := s.ports.Catalog.Report(); report != nil {
		return report, nil
	}
	report, err := s.ports.Catalog.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	return report, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFilename extracts the filename from a URI like chpl://corpus/outcomes/{filename}.
func extractFilename(uri string) string {
	const prefix = uriScheme + "corpus/outcomes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
