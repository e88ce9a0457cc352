package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"stylebook/internal/content"
	"stylebook/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonSource = `import React from 'react';
import { Pressable, Text } from 'react-native';

export function Button({ label, onPress }) {
  return (
    <Pressable onPress={onPress}>
      <Text>{label}</Text>
    </Pressable>
  );
}
`

// newTestServer builds a Server over a populated temp content tree:
// three standards documents (one without frontmatter) and one example
// per category, with a nested components subdirectory.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	contentDir := t.TempDir()

	writeTestFile(t, contentDir, "standards/component-design.md", `---
title: Component Design
description: Get component design standards for React Native development
---

# Component Design

Keep components small and focused.
`)
	writeTestFile(t, contentDir, "standards/api-communication.md", `---
title: API Communication
description: Get API communication standards for React Native development
---

# API Communication

Route every request through the shared client.
`)
	writeTestFile(t, contentDir, "standards/naming.md", "# Naming\n\nUse descriptive names.\n")

	writeTestFile(t, contentDir, exampleFile("components/Button.tsx"), buttonSource)
	writeTestFile(t, contentDir, exampleFile("components/forms/Input.tsx"), "export function Input() {}\n")
	writeTestFile(t, contentDir, exampleFile("hooks/useDebounce.ts"), "export function useDebounce() {}\n")
	writeTestFile(t, contentDir, exampleFile("services/apiClient.ts"), "export const apiClient = {};\n")
	writeTestFile(t, contentDir, exampleFile("screens/HomeScreen.tsx"), "export function HomeScreen() {}\n")
	writeTestFile(t, contentDir, exampleFile("themes/colors.ts"), "export const colors = {};\n")

	return serverOver(t, contentDir)
}

func serverOver(t *testing.T, contentDir string) *Server {
	t.Helper()

	logger, _ := logging.NewTestLogger()
	library, err := content.NewLibrary(content.Options{ContentDir: contentDir, Logger: logger})
	require.NoError(t, err)

	s, err := NewServer(library, "test", logger)
	require.NoError(t, err)
	return s
}

func writeTestFile(t *testing.T, contentDir, rel, body string) {
	t.Helper()

	full := filepath.Join(contentDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0644))
}

func exampleFile(rel string) string {
	return "code-examples/" + content.DefaultPlatform + "/" + rel
}

// rpcCall drives the underlying mcp-go server through its JSON-RPC
// entrypoint, the way a transport would, and returns the marshalled
// response.
func rpcCall(t *testing.T, s *Server, method, params string) []byte {
	t.Helper()

	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":%q`, method)
	if params != "" {
		msg += `,"params":` + params
	}
	msg += `}`

	resp := s.mcpServer.HandleMessage(context.Background(), json.RawMessage(msg))
	require.NotNil(t, resp, "no response for %s", method)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return data
}

func initializeSession(t *testing.T, s *Server) {
	t.Helper()

	resp := rpcCall(t, s, "initialize",
		`{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.1"}}`)
	require.Contains(t, string(resp), `"result"`, "initialize failed: %s", resp)
}

func listToolNames(t *testing.T, s *Server) map[string]string {
	t.Helper()

	resp := rpcCall(t, s, "tools/list", "")
	var decoded struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp, &decoded), "tools/list response: %s", resp)

	names := make(map[string]string, len(decoded.Result.Tools))
	for _, tool := range decoded.Result.Tools {
		names[tool.Name] = tool.Description
	}
	return names
}

func TestNewServer_RequiresLibrary(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	_, err := NewServer(nil, "test", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content library is required")
}

func TestNewServer_RegistersFullToolSurface(t *testing.T) {
	s := newTestServer(t)
	initializeSession(t, s)

	tools := listToolNames(t, s)

	for _, name := range []string{
		"get_component_example",
		"get_hook_example",
		"get_service_example",
		"get_screen_example",
		"get_theme_example",
		"list_available_examples",
		"get_component_design",
		"get_api_communication",
		"get_naming",
	} {
		assert.Contains(t, tools, name)
	}
	assert.Len(t, tools, 9)
}

func TestNewServer_StandardDescriptionsFromFrontmatter(t *testing.T) {
	s := newTestServer(t)
	initializeSession(t, s)

	tools := listToolNames(t, s)

	assert.Equal(t, "Get component design standards for React Native development", tools["get_component_design"])
	// No frontmatter: description is derived from the filename stem.
	assert.Equal(t, "Naming coding standard", tools["get_naming"])
}

func TestNewServer_BrokenTreeStillConstructs(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "never-created")
	s := serverOver(t, missing)
	initializeSession(t, s)

	// No standards could be discovered; the fixed tools still register.
	tools := listToolNames(t, s)
	assert.Len(t, tools, 6)
	assert.Contains(t, tools, "get_component_example")
	assert.Contains(t, tools, "list_available_examples")
}

func TestServer_ListsStandardResources(t *testing.T) {
	s := newTestServer(t)
	initializeSession(t, s)

	resp := rpcCall(t, s, "resources/list", "")
	var decoded struct {
		Result struct {
			Resources []struct {
				URI  string `json:"uri"`
				Name string `json:"name"`
			} `json:"resources"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp, &decoded), "resources/list response: %s", resp)

	uris := make(map[string]string, len(decoded.Result.Resources))
	for _, res := range decoded.Result.Resources {
		uris[res.URI] = res.Name
	}

	require.Len(t, uris, 3)
	assert.Equal(t, "Component Design", uris["stylebook://standards/component_design"])
	assert.Equal(t, "API Communication", uris["stylebook://standards/api_communication"])
	assert.Equal(t, "Naming", uris["stylebook://standards/naming"])
}

func TestServer_ReadsStandardResource(t *testing.T) {
	s := newTestServer(t)
	initializeSession(t, s)

	resp := rpcCall(t, s, "resources/read", `{"uri":"stylebook://standards/component_design"}`)
	var decoded struct {
		Result struct {
			Contents []struct {
				URI      string `json:"uri"`
				MIMEType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp, &decoded), "resources/read response: %s", resp)

	require.Len(t, decoded.Result.Contents, 1)
	doc := decoded.Result.Contents[0]
	assert.Equal(t, "stylebook://standards/component_design", doc.URI)
	assert.Equal(t, "text/markdown", doc.MIMEType)
	assert.Contains(t, doc.Text, "# Component Design")
	assert.NotContains(t, doc.Text, "title:", "frontmatter should be stripped")
}

func TestServer_InitializeReportsIdentity(t *testing.T) {
	s := newTestServer(t)

	resp := rpcCall(t, s, "initialize",
		`{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.1"}}`)

	var decoded struct {
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp, &decoded), "initialize response: %s", resp)
	assert.Equal(t, "stylebook", decoded.Result.ServerInfo.Name)
	assert.Equal(t, "test", decoded.Result.ServerInfo.Version)
}
