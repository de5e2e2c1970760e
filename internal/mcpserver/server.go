// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes read-only blog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/operlabs/conexao/internal/content"
	"github.com/operlabs/conexao/internal/render"
)

// Server wraps the MCP server with the blog tools.
type Server struct {
	mcp   *server.MCPServer
	store *content.Store
}

// New creates an MCP server with all blog tools registered.
func New(store *content.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Conexão",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Free-text search over post titles, summaries, bodies, tags and categories."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("category", mcp.Description("Optional exact category filter")),
		mcp.WithString("tag", mcp.Description("Optional exact tag filter")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("get_post",
		mcp.WithDescription("Fetch a single post by slug, including its body rendered to HTML."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug (legacy ids also resolve)")),
	), s.getPost)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List all posts sorted by publish date descending: slug, title and publish date per line."),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("get_content_contract",
		mcp.WithDescription("Returns the post content markup contract. "+
			"Call this before drafting post bodies to ensure correct structure."),
	), s.getContentContract)

	// Resource: content format contract.
	s.mcp.AddResource(
		mcp.NewResource("conexao://content-format", "Post Content Format",
			mcp.WithResourceDescription("Line-based markup that post bodies must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContentFormatResource,
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

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := content.SearchOptions{Limit: 20}
	if c, err := req.RequireString("category"); err == nil {
		opts.Category = c
	}
	if tag, err := req.RequireString("tag"); err == nil {
		opts.Tag = tag
	}
	results, err := s.store.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.store.BySlug(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if post == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}

	out, _ := json.MarshalIndent(map[string]any{
		"post":        post,
		"contentHtml": render.Content(post.Content),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts, err := s.store.All(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(posts) == 0 {
		return mcp.NewToolResultText("no posts"), nil
	}

	lines := make([]string, len(posts))
	for i, p := range posts {
		lines[i] = fmt.Sprintf("%s\t%s\t%s", p.Slug, p.Title, p.PublishedAt)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getContentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentFormatContract), nil
}

func (s *Server) readContentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "conexao://content-format",
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
