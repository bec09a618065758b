package mcpserver

import (
	"encoding/json"
)

const (
	registryName  = "io.github.panbanda/jscheck"
	serverSchema  = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	publisherMeta = "io.modelcontextprotocol.registry/publisher-provided"
	configEnv     = "JSCHECK_CONFIG"
)

// Manifest is the server.json document published to the MCP registry.
type Manifest struct {
	Schema      string         `json:"$schema"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Version     string         `json:"version"`
	Repository  *Repository    `json:"repository,omitempty"`
	Packages    []Package      `json:"packages,omitempty"`
	Meta        map[string]any `json:"_meta,omitempty"`
}

// Repository points at the source repository.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is the container image that serves jscheck over stdio.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []Environment `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

// Argument is one command-line argument.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Environment is a variable the client may set for the server.
type Environment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
	Format      string `json:"format,omitempty"`
}

// Transport names the MCP transport.
type Transport struct {
	Type string `json:"type"`
}

// ToolInfo lists a tool in the publisher metadata.
type ToolInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// GenerateManifest returns the indented server.json for version. The tools
// listed are the ones registerTools adds.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	tools := make([]ToolInfo, 0, len(toolList))
	for _, t := range toolList {
		tools = append(tools, ToolInfo{Name: t.name, Title: t.title})
	}

	manifest := Manifest{
		Schema:      serverSchema,
		Name:        registryName,
		Description: "Line-based JavaScript checks: unbalanced curly brackets, unused variables, undeclared calls, brace-less if/else",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/jscheck",
			Source: "github",
		},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       "ghcr.io/panbanda/jscheck:" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: []Environment{{
				Name:        configEnv,
				Description: "Path to a jscheck.toml, .yaml or .json config inside the container",
				Format:      "filepath",
			}},
			Transport: Transport{Type: "stdio"},
		}},
		Meta: map[string]any{
			publisherMeta: map[string]any{"tools": tools},
		},
	}

	return json.MarshalIndent(manifest, "", "  ")
}
