package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const widgetSpecYAML = `
openapi: 3.0.0
info:
  title: Widgets API
  version: "1.0.0"
servers:
  - url: https://api.widgets.dev/v1
paths:
  "/widgets/{id}":
    get:
      operationId: getWidget
      summary: Fetch one widget
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
`

func writeSpecDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(widgetSpecYAML)+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	t.Parallel()
	out, _, err := runCLI(t)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "specdock") || !strings.Contains(out, "serve") {
		t.Fatalf("help output missing commands:\n%s", out)
	}
}

func TestRoot_UnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()
	_, _, err := runCLI(t, "specs", "--bogus")
	if err == nil {
		t.Fatalf("expected error for unknown flag")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if !strings.Contains(err.Error(), "Usage") {
		t.Fatalf("usage error should include help text: %v", err)
	}
}

func TestSpecs_ListsSpecs(t *testing.T) {
	t.Parallel()
	dir := writeSpecDir(t)
	out, _, err := runCLI(t, "specs", "--specs-dir", dir)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "widgets") || !strings.Contains(out, "Widgets API") {
		t.Fatalf("spec listing missing entries:\n%s", out)
	}
}

func TestSpecs_WithEndpoints(t *testing.T) {
	t.Parallel()
	dir := writeSpecDir(t)
	out, _, err := runCLI(t, "specs", "--specs-dir", dir, "--endpoints")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "GET") || !strings.Contains(out, "/widgets/{id}") {
		t.Fatalf("endpoint listing missing:\n%s", out)
	}
}

func TestExample_MissingFlags(t *testing.T) {
	t.Parallel()
	_, _, err := runCLI(t, "example", "--specs-dir", writeSpecDir(t))
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestExample_RendersSnippet(t *testing.T) {
	t.Parallel()
	dir := writeSpecDir(t)
	out, _, err := runCLI(t, "example",
		"--specs-dir", dir,
		"--spec", "widgets",
		"--path", "/widgets/{id}",
		"--method", "GET",
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "const BASE_URL = 'https://api.widgets.dev/v1';") {
		t.Fatalf("snippet missing base URL:\n%s", out)
	}
	if !strings.Contains(out, "${BASE_URL}/widgets/${id}") {
		t.Fatalf("snippet missing URL interpolation:\n%s", out)
	}
}

func TestExample_PythonVariant(t *testing.T) {
	t.Parallel()
	dir := writeSpecDir(t)
	out, _, err := runCLI(t, "example",
		"--specs-dir", dir,
		"--spec", "widgets",
		"--path", "/widgets/{id}",
		"--method", "get",
		"--lang", "python",
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "import requests") {
		t.Fatalf("python snippet missing imports:\n%s", out)
	}
}

func TestExample_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	dir := writeSpecDir(t)
	_, _, err := runCLI(t, "example",
		"--specs-dir", dir,
		"--spec", "widgets",
		"--path", "/widgets/{id}",
		"--method", "GET",
		"--lang", "cobol",
	)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for unsupported language, got %v", err)
	}
}

func TestExample_UnknownSpec(t *testing.T) {
	t.Parallel()
	dir := writeSpecDir(t)
	_, _, err := runCLI(t, "example",
		"--specs-dir", dir,
		"--spec", "ghost",
		"--path", "/widgets/{id}",
		"--method", "GET",
	)
	if err == nil {
		t.Fatalf("expected error for unknown spec")
	}
	if !strings.Contains(err.Error(), "spec not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}
