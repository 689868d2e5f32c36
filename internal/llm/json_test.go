package llm

import (
	"strings"
	"testing"
)

func TestExtractJSON_Plain(t *testing.T) {
	out, err := ExtractJSON(`{"a": 1, "b": "two"}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != `{"a": 1, "b": "two"}` {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestExtractJSON_CodeFence(t *testing.T) {
	input := "```json\n{\"document_type\": \"email\"}\n```"
	out, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != `{"document_type": "email"}` {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	input := `Here is the extraction you asked for:
{"persons_found": [{"name": "John Smith"}]}
Let me know if you need anything else.`

	out, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "John Smith") {
		t.Errorf("Expected extracted JSON to contain the person, got %s", out)
	}
	if strings.Contains(out, "Let me know") {
		t.Errorf("Expected trailing prose to be stripped, got %s", out)
	}
}

func TestExtractJSON_NestedBracesInStrings(t *testing.T) {
	input := `{"note": "contains { braces } and \"quotes\"", "n": 2}`
	out, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != input {
		t.Errorf("Expected full object back, got %s", out)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not process this document, sorry.")
	if err == nil {
		t.Fatal("Expected error for non-JSON input")
	}
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	_, err := ExtractJSON(`{"truncated": "response`)
	if err == nil {
		t.Fatal("Expected error for unbalanced JSON")
	}
}

func TestParseJSONResponse(t *testing.T) {
	type shape struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	got, err := ParseJSONResponse[shape]("```json\n{\"name\": \"x\", \"count\": 3}\n```")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("Unexpected result: %+v", got)
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := Snippet(long, 200); len(got) != 200 {
		t.Errorf("Expected 200 chars, got %d", len(got))
	}
	if got := Snippet("  short  ", 200); got != "short" {
		t.Errorf("Expected trimmed text, got %q", got)
	}
}
