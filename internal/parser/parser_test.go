package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	stderrors "errors"

	json "github.com/goccy/go-json"

	"github.com/djdembeck/toon-format-skill/internal/errors"
	"github.com/djdembeck/toon-format-skill/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`
	reader := strings.NewReader(jsonStr)
	root, err := Parse(reader)

	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{
		"name":      "John Doe",
		"age":       json.Number("30"),
		"isStudent": false,
		"city":      nil,
	}

	actualRoot, ok := root.(models.JSONObject)
	if !ok {
		t.Fatalf("Parse() root is not a models.JSONObject, got %T", root)
	}

	if !reflect.DeepEqual(actualRoot, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", actualRoot, expectedRoot)
	}
}

func TestParse_SimpleArray(t *testing.T) {
	jsonStr := `[1, "test", true, null, 3.14]`
	root, err := Parse(strings.NewReader(jsonStr))

	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONArray{
		json.Number("1"),
		"test",
		true,
		nil,
		json.Number("3.14"),
	}

	actualRoot, ok := root.(models.JSONArray)
	if !ok {
		t.Fatalf("Parse() root is not a models.JSONArray, got %T", root)
	}

	if !reflect.DeepEqual(actualRoot, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", actualRoot, expectedRoot)
	}
}

func TestParse_NestedContainersAreNormalized(t *testing.T) {
	jsonStr := `{"users": [{"id": 1}, {"id": 2}], "meta": {"total": 2}}`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	obj, ok := root.(models.JSONObject)
	if !ok {
		t.Fatalf("root is not a models.JSONObject, got %T", root)
	}
	users, ok := obj["users"].(models.JSONArray)
	if !ok {
		t.Fatalf("users is not a models.JSONArray, got %T", obj["users"])
	}
	if _, ok := users[0].(models.JSONObject); !ok {
		t.Errorf("array element is not a models.JSONObject, got %T", users[0])
	}
	if _, ok := obj["meta"].(models.JSONObject); !ok {
		t.Errorf("meta is not a models.JSONObject, got %T", obj["meta"])
	}
}

func TestParse_NullRoot(t *testing.T) {
	root, err := Parse(strings.NewReader("null"))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}
	if root != nil {
		t.Errorf("Parse() root = %v, want nil for a top-level null", root)
	}
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := ParseString(input)
		if err == nil {
			t.Fatalf("ParseString(%q) expected error, got nil", input)
		}
		if !stderrors.Is(err, errors.ErrEmptyInput) {
			t.Errorf("ParseString(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestParseString_InvalidJSON(t *testing.T) {
	_, err := ParseString(`{"broken": `)
	if err == nil {
		t.Fatal("ParseString() expected error for truncated JSON, got nil")
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error is not an *AppError: %v", err)
	}
	if appErr.Type != errors.ErrorTypeParsing {
		t.Errorf("error type = %s, want %s", appErr.Type, errors.ErrorTypeParsing)
	}
}

func TestParse_MultipleRootValues(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"a": 1} {"b": 2}`))
	if err == nil {
		t.Fatal("Parse() expected error for multiple root values, got nil")
	}
	if !stderrors.Is(err, errors.ErrMultipleJSON) {
		t.Errorf("error = %v, want ErrMultipleJSON", err)
	}
}

func TestParse_TrailingWhitespaceIsAllowed(t *testing.T) {
	_, err := Parse(strings.NewReader("{\"a\": 1}\n\n   "))
	if err != nil {
		t.Errorf("Parse() error = %v, want nil for trailing whitespace", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(path, []byte(`{"ok": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}
	obj, ok := root.(models.JSONObject)
	if !ok || obj["ok"] != true {
		t.Errorf("ParseFile() root = %v, want {ok: true}", root)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	if !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestParseFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(path)
	if !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("error = %v, want ErrFileEmpty", err)
	}
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("  ")
	if !stderrors.Is(err, errors.ErrInvalidFilePath) {
		t.Errorf("error = %v, want ErrInvalidFilePath", err)
	}
}
