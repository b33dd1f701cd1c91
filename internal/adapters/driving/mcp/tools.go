package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/services"
)

// SearchIndicationInput is the input schema for the search_indication tool.
type SearchIndicationInput struct {
	Query string `json:"query" jsonschema:"the indication to search for, in Polish"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchIndicationOutput is the output schema for the search_indication tool.
type SearchIndicationOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput is one ranked corpus leaflet.
type ResultOutput struct {
	Filename    string  `json:"filename"`
	ProductName string  `json:"product_name"`
	Score       float64 `json:"score"`
}

// FindSimilarInput is the input schema for the find_similar tool.
type FindSimilarInput struct {
	Folder string `json:"folder" jsonschema:"path to a folder of new leaflets"`
}

// FindSimilarOutput is the output schema for the find_similar tool.
type FindSimilarOutput struct {
	Groups  []GroupOutput `json:"groups"`
	Message string        `json:"message,omitempty"`
}

// GroupOutput holds the matches for one new leaflet.
type GroupOutput struct {
	Filename string         `json:"filename"`
	Results  []ResultOutput `json:"results"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_indication",
		Description: "Rank medicinal product leaflets by how well their indications and composition match a query",
	}, s.handleSearchIndication)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_similar",
		Description: "For each leaflet in a folder, list the most similar corpus products by composition and indications",
	}, s.handleFindSimilar)
}

// handleSearchIndication handles the search_indication tool invocation.
func (s *Server) handleSearchIndication(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchIndicationInput,
) (*mcp.CallToolResult, SearchIndicationOutput, error) {
	if input.Query == "" {
		return nil, SearchIndicationOutput{}, errors.New("query is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	results, err := s.ports.Catalog.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchIndicationOutput{}, err
	}
	results = domain.FilterAbove(results, s.opts.Threshold)
	if len(results) > limit {
		results = results[:limit]
	}

	output := SearchIndicationOutput{
		Results: toResultOutputs(results),
		Count:   len(results),
	}
	return nil, output, nil
}

// handleFindSimilar handles the find_similar tool invocation.
func (s *Server) handleFindSimilar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindSimilarInput,
) (*mcp.CallToolResult, FindSimilarOutput, error) {
	docs, report, err := s.ports.Catalog.LoadDocuments(ctx, input.Folder)
	if err != nil {
		return nil, FindSimilarOutput{}, err
	}
	if report.InvalidPath {
		return nil, FindSimilarOutput{Groups: []GroupOutput{}, Message: services.InvalidPathMessage}, nil
	}

	groups, err := s.ports.Catalog.RankSimilar(ctx, docs)
	if err != nil {
		return nil, FindSimilarOutput{}, err
	}

	output := FindSimilarOutput{Groups: make([]GroupOutput, len(groups))}
	for i, g := range groups {
		output.Groups[i] = GroupOutput{
			Filename: g.Filename,
			Results:  toResultOutputs(g.Results),
		}
	}
	return nil, output, nil
}

func toResultOutputs(results []domain.RankedResult) []ResultOutput {
	out := make([]ResultOutput, len(results))
	for i, r := range results {
		out[i] = ResultOutput{
			Filename:    r.Filename,
			ProductName: domain.ProductName(r.ProductName),
			Score:       r.Score,
		}
	}
	return out
}
