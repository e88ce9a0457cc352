// Package mcp implements the Model Context Protocol (MCP) server for
// stylebook using mcp-go.
//
// The server exposes a content library of coding standards and code
// examples to AI assistants: each standards document becomes its own
// tool (and a stylebook:// resource), each example category gets a fixed
// lookup tool, and list_available_examples returns the grouped catalog.
//
// # Tool surface
//
//   - get_component_example, get_hook_example, get_service_example,
//     get_screen_example, get_theme_example: fetch one code example by
//     name, with fuzzy fallback. Each takes a single required string
//     argument named after its category (component_name, hook_name,
//     service_name, screen_name, theme_name).
//   - list_available_examples: list item names grouped by category,
//     optionally filtered to one category, as text or JSON.
//   - get_<standard id>: one tool per standards document discovered at
//     startup, e.g. get_component_design. Descriptions come from the
//     document's YAML frontmatter.
//
// Standards tools are registered once at construction; documents added
// to the tree afterwards appear after a restart. Example lookups walk
// the tree per request, so new example files are served immediately.
//
// # Implementation
//
// The package uses the mcp-go library (github.com/mark3labs/mcp-go).
// All content access goes through the content.Library, which confines
// reads to the configured tree and never writes to it. Handlers hold no
// shared mutable state; every request is an independent lookup.
//
// # Usage
//
// The server is typically started as a subprocess by AI assistants that
// support MCP over stdio:
//
//	stylebook serve
//
// It reads JSON-RPC requests from stdin and writes responses to stdout
// until EOF. The streamable HTTP transport serves the same tool surface
// on a TCP address:
//
//	stylebook serve --http :8192
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
