package tools

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDispatchUnknownTool(t *testing.T) {
	dir := setupTestDir(t)
	r := NewRegistry()

	result := r.Dispatch("launch_missiles", map[string]interface{}{}, dir)
	if !strings.HasPrefix(result, "error:") {
		t.Errorf("Expected error: prefix, got: %q", result)
	}
	if !strings.Contains(result, "launch_missiles") {
		t.Errorf("Error should name the tool: %q", result)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	dir := setupTestDir(t)
	r := NewRegistry()

	// Handler failures come back as textual results, never as panics or
	// propagated errors.
	result := r.Dispatch("read", map[string]interface{}{"path": "missing.txt"}, dir)
	if !strings.HasPrefix(result, "error:") {
		t.Errorf("Expected error: prefix, got: %q", result)
	}
}

func TestDispatchSuccess(t *testing.T) {
	dir := setupTestDir(t)
	os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0644)
	r := NewRegistry()

	result := r.Dispatch("read", map[string]interface{}{"path": "hello.txt"}, dir)
	if strings.HasPrefix(result, "error:") {
		t.Errorf("Unexpected error result: %q", result)
	}
	if !strings.Contains(result, "hi") {
		t.Errorf("Expected file content, got: %q", result)
	}
}

func TestDefinitionsSchema(t *testing.T) {
	r := NewRegistry()
	defs := r.Definitions()

	if len(defs) != len(r.Names()) {
		t.Fatalf("Expected %d definitions, got %d", len(r.Names()), len(defs))
	}

	byName := make(map[string]map[string]interface{})
	for _, d := range defs {
		if d.Type != "function" {
			t.Errorf("Tool %s has type %q, want function", d.Function.Name, d.Type)
		}
		byName[d.Function.Name] = d.Function.Parameters.(map[string]interface{})
	}

	readParams := byName["read"]
	props := readParams["properties"].(map[string]interface{})

	// Numeric parameters are declared as integers.
	offset := props["offset"].(map[string]interface{})
	if offset["type"] != "integer" {
		t.Errorf("offset should be declared integer, got %v", offset["type"])
	}

	// Optional parameters stay out of the required list.
	required := readParams["required"].([]string)
	if !reflect.DeepEqual(required, []string{"path"}) {
		t.Errorf("read required list should be [path], got %v", required)
	}

	editRequired := byName["edit"]["required"].([]string)
	if !reflect.DeepEqual(editRequired, []string{"new", "old", "path"}) {
		t.Errorf("edit required list mismatch: %v", editRequired)
	}

	// An all-optional tool must publish an empty array, not null.
	diffRequired := byName["diff"]["required"].([]string)
	if diffRequired == nil || len(diffRequired) != 0 {
		t.Errorf("diff required list should be an empty array, got %#v", diffRequired)
	}
}

func TestDefinitionsStable(t *testing.T) {
	r := NewRegistry()

	first := r.Definitions()
	second := r.Definitions()
	if !reflect.DeepEqual(first, second) {
		t.Error("Definitions should be identical on every call")
	}
}
