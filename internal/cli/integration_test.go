package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samples = "../../testdata/samples"

func expectedSample(t *testing.T) string {
	t.Helper()
	want, err := os.ReadFile(filepath.Join(samples, "user.tidy.json"))
	require.NoError(t, err)
	return string(want)
}

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()
	outputFile := filepath.Join(tempDir, "output.json")

	// Run the CLI command
	cmd := exec.Command("go", "run", "../../main.go", "-i", filepath.Join(samples, "user.json"), "-o", outputFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))
	assert.Contains(t, string(output), "Tidy JSON written to")

	got, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, expectedSample(t), string(got))
}

// TestCLI_YAMLInput tests that YAML files produce the same output as JSON
func TestCLI_YAMLInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-i", filepath.Join(samples, "user.yml"))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, expectedSample(t), stdout.String())
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"name": "Jane Smith", "age": 25, "active": true}`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, "{\n  \"name\": \"Jane Smith\",\n  \"age\": 25,\n  \"active\": true\n}\n", stdout.String())
}

// TestCLI_YAMLStdin tests the --yaml flag on piped input
func TestCLI_YAMLStdin(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--yaml")
	cmd.Stdin = strings.NewReader("- a\n- b: 1\n")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "[\n  \"a\",\n  {\n    \"b\": 1\n  }\n]\n", stdout.String())
}

// TestCLI_IndentAndSort tests the formatting flags
func TestCLI_IndentAndSort(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-n", "4", "-s")
	cmd.Stdin = strings.NewReader(`{"b": 1, "a": {"d": [], "c": null}}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "{\n    \"a\": {\n        \"c\": null,\n        \"d\": []\n    },\n    \"b\": 1\n}\n", stdout.String())
}

// TestCLI_InvalidIndentFallsBack tests that an out of range indent uses the default
func TestCLI_InvalidIndentFallsBack(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--indent", "5")
	cmd.Stdin = strings.NewReader(`[1]`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "[\n  1\n]\n", stdout.String())
}

// TestCLI_Raw tests compact output
func TestCLI_Raw(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-r")
	cmd.Stdin = strings.NewReader("{\n  \"x\": [1, 2, 3],\n  \"y\": \"z\"\n}\n")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "{\"x\":[1,2,3],\"y\":\"z\"}\n", stdout.String())
}

// TestCLI_GeneratorFlags tests the JSON generator knobs
func TestCLI_GeneratorFlags(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--space-before", "2", "--space", "2", "--escape-slash", "--ascii-only")
	cmd.Stdin = strings.NewReader(`{"url": "a/b", "word": "café"}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "{\n  \"url\"  :  \"a\\/b\",\n  \"word\"  :  \"caf\\u00e9\"\n}\n", stdout.String())
}

// TestCLI_MaxNesting tests the nesting limit flags
func TestCLI_MaxNesting(t *testing.T) {
	deep := `[[[[1]]]]`

	cmd := exec.Command("go", "run", "../../main.go", "--max-nesting", "3")
	cmd.Stdin = strings.NewReader(deep)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	assert.Error(t, cmd.Run(), "CLI should fail past the nesting limit")
	assert.Contains(t, stderr.String(), "nesting")

	cmd = exec.Command("go", "run", "../../main.go", "--no-nesting-limit", "-r")
	cmd.Stdin = strings.NewReader(deep)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())
	assert.Equal(t, "[[[[1]]]]\n", stdout.String())
}

// TestCLI_ConfigFile tests settings read from a config file
func TestCLI_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "jtidy.yml")
	err := os.WriteFile(configFile, []byte("format:\n  indent: 6\n  sort: true\n"), 0o644)
	require.NoError(t, err)

	cmd := exec.Command("go", "run", "../../main.go", "-c", configFile)
	cmd.Stdin = strings.NewReader(`{"b": 2, "a": 1}`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), "CLI command failed: %s", stderr.String())
	assert.Equal(t, "{\n      \"a\": 1,\n      \"b\": 2\n}\n", stdout.String())

	// Flags take precedence over the file
	cmd = exec.Command("go", "run", "../../main.go", "-c", configFile, "-n", "2")
	cmd.Stdin = strings.NewReader(`{"b": 2, "a": 1}`)
	stdout.Reset()
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}\n", stdout.String())
}

// TestCLI_LogFile tests that diagnostics can be sent to a file
func TestCLI_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "jtidy.log")

	cmd := exec.Command("go", "run", "../../main.go", "-d", "--log-file", logFile, "-n", "3")
	cmd.Stdin = strings.NewReader(`{"a": 1}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "{\n  \"a\": 1\n}\n", stdout.String())

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "level=DEBUG")
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"name": "Invalid JSON, "age": 30}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr.String(), "Parsing error")
}

// TestCLI_ScalarInput tests that scalars are rejected
func TestCLI_ScalarInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`"just a string"`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with a scalar")
	assert.Contains(t, stderr.String(), "cannot tidy a string")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr.String(), "empty input")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "jtidy version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-i, --input")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "-n, --indent")
	assert.Contains(t, helpOutput, "-s, --sort")
	assert.Contains(t, helpOutput, "-r, --raw")
	assert.Contains(t, helpOutput, "--yaml")
}
