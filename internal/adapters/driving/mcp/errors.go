// Package mcp provides an MCP (Model Context Protocol) server adapter for chpl.
// It lets AI assistants search the leaflet corpus by indication and rank it
// against folders of new leaflets.
package mcp

import "errors"

// ErrMissingCatalog is returned when the catalog service is not provided.
var ErrMissingCatalog = errors.New("mcp: catalog service is required")
