package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/tidyjson/internal/config"
)

func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestRun_SimpleJSON(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_input_*.json", `{"name": "John", "age": 30, "active": true}`)

	err := run(&Context{Config: config.NewConfig()})
	require.NoError(t, err)
}

func TestRun_WithOutputFile(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_input_*.json", `{"id": 1, "email": "test@example.com", "tags": []}`)
	CLI.Output = filepath.Join(t.TempDir(), "out.json")

	err := run(&Context{Config: config.NewConfig()})
	require.NoError(t, err)

	// Verify output file was created and contains expected content
	outputContent, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1,\n  \"email\": \"test@example.com\",\n  \"tags\": []\n}\n", string(outputContent))
}

func TestRun_ConfigOptions(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_input_*.json", `{"b": {"d": 1, "c": 2}, "a": [1]}`)
	CLI.Output = filepath.Join(t.TempDir(), "sorted.json")

	cfg, err := config.LoadConfigWithCLI("", config.CLIOverrides{Indent: 4, Sort: true})
	require.NoError(t, err)

	require.NoError(t, run(&Context{Config: cfg}))

	outputContent, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": [\n        1\n    ],\n    \"b\": {\n        \"c\": 2,\n        \"d\": 1\n    }\n}\n", string(outputContent))
}

func TestRun_Raw(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_input_*.json", "{\n  \"b\": [1, 2],\n  \"a\": null\n}")
	CLI.Output = filepath.Join(t.TempDir(), "raw.json")
	CLI.Raw = true

	require.NoError(t, run(&Context{Config: config.NewConfig()}))

	outputContent, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\"b\":[1,2],\"a\":null}\n", string(outputContent))
}

func TestRun_YAMLInput(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_input_*.yml", "name: jtidy\nlist:\n  - 1\n  - two\n")
	CLI.Output = filepath.Join(t.TempDir(), "yaml.json")

	require.NoError(t, run(&Context{Config: config.NewConfig()}))

	outputContent, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"jtidy\",\n  \"list\": [\n    1,\n    \"two\"\n  ]\n}\n", string(outputContent))
}

func TestRun_ScalarInput(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_input_*.json", `42`)

	err := run(&Context{Config: config.NewConfig()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot tidy a number")
}

func TestParseInput_FromFile(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_parse_*.json", `{"user": {"name": "Alice", "id": 42}}`)

	tree, err := parseInput()
	require.NoError(t, err)
	assert.True(t, tree.IsMap())
}

func TestParseInput_FromStdin(t *testing.T) {
	// Save original CLI state and stdin
	originalCLI := CLI
	originalStdin := os.Stdin
	defer func() {
		CLI = originalCLI
		os.Stdin = originalStdin
	}()

	// Clear input file to force stdin reading
	CLI.Input = ""

	// Create a pipe to simulate stdin
	jsonData := `[{"item": "apple"}, {"item": "banana"}]`
	r, w, err := os.Pipe()
	require.NoError(t, err)

	// Write test data to pipe
	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(jsonData)
	}()

	// Replace stdin
	os.Stdin = r
	defer func() { _ = r.Close() }()

	tree, err := parseInput()
	require.NoError(t, err)
	assert.True(t, tree.IsSeq())
	assert.Equal(t, 2, tree.Len())
}

func TestParseInput_EmptyFile(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_empty_*.json", "")

	// Test parsing - should return error
	_, err := parseInput()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseInput_InvalidJSON(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "test_invalid_*.json", `{"invalid": json}`)

	// Test parsing - should return error
	_, err := parseInput()
	assert.Error(t, err)
}

func TestParseInput_NonExistentFile(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	// Set CLI to use non-existent file
	CLI.Input = "/non/existent/file.json"

	// Test parsing - should return error
	_, err := parseInput()
	assert.Error(t, err)
}

func TestWriteOutput_ToFile(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = filepath.Join(t.TempDir(), "test_write.json")

	text := "{\n  \"a\": 1\n}\n"
	err := writeOutput(config.NewConfig(), text)
	require.NoError(t, err)

	// Verify content was written
	content, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, text, string(content))
}

func TestWriteOutput_ToStdout(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	// Clear output file to force stdout
	CLI.Output = ""

	// Test writing to stdout - this is harder to test precisely
	// so we'll just verify it doesn't error
	cfg := config.NewConfig()
	assert.NoError(t, writeOutput(cfg, "[]\n"))

	cfg.Output.Color = true
	assert.NoError(t, writeOutput(cfg, "{\"a\": true}\n"))
}

func TestWriteOutput_FileError(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	// Try to write to a directory that doesn't exist
	CLI.Output = "/non/existent/dir/output.json"

	// Test writing - should return error
	err := writeOutput(config.NewConfig(), "{}")
	assert.Error(t, err)
}

// Note: TestReadInteractiveInput is challenging to test reliably due to
// stdin/EOF handling complexities, so we focus on testing other components
func TestReadInteractiveInput_Concept(t *testing.T) {
	assert.NotNil(t, readInteractiveInput)
}
