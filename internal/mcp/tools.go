package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stylebook/internal/content"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// exampleTools fixes the tool surface for example lookups: one tool per
// category, each with a single required string argument named after the
// category.
var exampleTools = []struct {
	toolName string
	param    string
	noun     string
	category content.Category
}{
	{"get_component_example", "component_name", "component", content.CategoryComponents},
	{"get_hook_example", "hook_name", "hook", content.CategoryHooks},
	{"get_service_example", "service_name", "service", content.CategoryServices},
	{"get_screen_example", "screen_name", "screen", content.CategoryScreens},
	{"get_theme_example", "theme_name", "theme", content.CategoryThemes},
}

func (s *Server) registerExampleTools() {
	for _, spec := range exampleTools {
		tool := mcp.NewTool(spec.toolName,
			mcp.WithDescription(fmt.Sprintf("Get a %s code example for the %s platform", spec.noun, s.library.Platform())),
			mcp.WithString(spec.param,
				mcp.Required(),
				mcp.Description(fmt.Sprintf("Name of the %s, e.g. a file name with or without extension", spec.noun)),
			),
		)
		s.mcpServer.AddTool(tool, s.exampleHandler(spec.category, spec.param))
	}
}

// exampleHandler resolves one example by name. The success result
// carries the file content as the first text block and the source path
// relative to the platform examples root as the second.
func (s *Server) exampleHandler(category content.Category, param string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString(param)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("missing or invalid %q parameter: %v", param, err)), nil
		}

		res, err := s.library.Resolve(category, name)
		if err != nil {
			return s.exampleFailure(category, name, err), nil
		}

		s.logger.Debug("Served example", "category", category, "name", name, "path", res.RelativePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(res.Content),
				mcp.NewTextContent("Source: " + res.RelativePath),
			},
		}, nil
	}
}

// exampleFailure maps the lookup error taxonomy onto tool errors. The
// three classes stay distinguishable to the caller: a miss names the
// query, a missing category directory names the deployment problem, and
// a read failure stays generic with the detail in the server log.
func (s *Server) exampleFailure(category content.Category, name string, err error) *mcp.CallToolResult {
	switch {
	case content.IsNotFound(err):
		return mcp.NewToolResultError(fmt.Sprintf("no %s example found matching %q", category, name))
	case content.IsDirectoryMissing(err):
		return mcp.NewToolResultError(fmt.Sprintf("the %s example directory is not present in the content tree", category))
	case content.IsReadFailure(err):
		return mcp.NewToolResultError(fmt.Sprintf("the matched %s example is currently unavailable", category))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func (s *Server) registerCatalogTool() {
	tool := mcp.NewTool("list_available_examples",
		mcp.WithDescription("List all available code examples by category"),
		mcp.WithString("category",
			mcp.Description("Restrict the listing to one category: components, hooks, services, screens, themes"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: text (default) or json"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleListExamples)
}

// handleListExamples returns the grouped catalog. Catalog construction
// never hard-fails (unreadable categories list as empty), so the only
// tool errors here are argument problems.
func (s *Server) handleListExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := strings.ToLower(strings.TrimSpace(request.GetString("format", "text")))
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (expected text or json)", format)), nil
	}

	var catalog content.Catalog
	if categoryArg := request.GetString("category", ""); categoryArg != "" {
		category, err := content.ParseCategory(categoryArg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		catalog = s.library.CatalogFor(category)
	} else {
		catalog = s.library.Catalog()
	}

	s.logger.Debug("Served catalog", "items", catalog.TotalItems(), "format", format)

	if format == "json" {
		data, err := json.Marshal(catalog)
		if err != nil {
			s.logger.Error("Catalog encoding failed", "error", err)
			return mcp.NewToolResultError("the catalog is currently unavailable"), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(catalog.FormatText()), nil
}

// registerStandards discovers the standards documents and registers each
// as a get_<id> tool and a stylebook://standards/<id> resource. Failure
// to discover leaves the example tools working and logs the cause.
func (s *Server) registerStandards() {
	standards, err := s.library.Standards()
	if err != nil {
		s.logger.Warn("Standards discovery failed, no standard tools registered", "error", err)
		return
	}

	for _, std := range standards {
		tool := mcp.NewTool("get_"+std.ID, mcp.WithDescription(std.Description))
		s.mcpServer.AddTool(tool, s.standardHandler(std.ID))

		uri := "stylebook://standards/" + std.ID
		resource := mcp.NewResource(uri, std.Title,
			mcp.WithResourceDescription(std.Description),
			mcp.WithMIMEType("text/markdown"),
		)
		s.mcpServer.AddResource(resource, s.standardResourceHandler(uri, std.ID))
	}

	s.logger.Info("Standards registered", "count", len(standards))
}

// standardHandler serves one standards document, frontmatter stripped.
func (s *Server) standardHandler(id string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := s.library.ResolveStandard(id)
		if err != nil {
			return s.standardFailure(id, err), nil
		}

		s.logger.Debug("Served standard", "id", id, "path", res.RelativePath)
		return mcp.NewToolResultText(res.Content), nil
	}
}

func (s *Server) standardFailure(id string, err error) *mcp.CallToolResult {
	switch {
	case content.IsNotFound(err):
		return mcp.NewToolResultError(fmt.Sprintf("standard %q not found", id))
	case content.IsDirectoryMissing(err):
		return mcp.NewToolResultError("the standards directory is not present in the content tree")
	case content.IsReadFailure(err):
		return mcp.NewToolResultError(fmt.Sprintf("standard %q is currently unavailable", id))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func (s *Server) standardResourceHandler(uri, id string) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		res, err := s.library.ResolveStandard(id)
		if err != nil {
			return nil, fmt.Errorf("standard %q unavailable: %w", id, err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     res.Content,
			},
		}, nil
	}
}
