// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the public land registry to LLM clients via stdio
// transport. Only verified records and reference data are served.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/store"
)

// Server wraps the MCP server with the public registry tools.
type Server struct {
	mcp *server.MCPServer
	db  store.Registry
}

// New creates a new MCP server with all registry tools registered.
func New(db store.Registry) *Server {
	s := &Server{db: db}

	s.mcp = server.NewMCPServer(
		"Cadastr",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_land_records",
		mcp.WithDescription("Full-text search through verified land records (title, location, description, zoning)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchLandRecords)

	s.mcp.AddTool(mcp.NewTool("get_land_record",
		mcp.WithDescription("Read a verified land record by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Land record UUID")),
	), s.getLandRecord)

	s.mcp.AddTool(mcp.NewTool("list_zoning_laws",
		mcp.WithDescription("List the zoning laws the registry publishes as reference data."),
	), s.listZoningLaws)

	// Resource: record field reference.
	s.mcp.AddResource(
		mcp.NewResource("cadastr://record-format", "Land Record Format",
			mcp.WithResourceDescription("Field reference for land records returned by the registry."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchLandRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.SearchVerifiedLands(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getLandRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %s", raw)), nil
	}
	l, err := s.db.GetLand(id)
	if err != nil || l.OwnershipStatus != models.OwnershipVerified {
		return mcp.NewToolResultError(fmt.Sprintf("no verified record: %s", raw)), nil
	}
	out, _ := json.MarshalIndent(l, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listZoningLaws(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	laws, err := s.db.ListZoningLaws()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(laws, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "cadastr://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatReference,
		},
	}, nil
}
