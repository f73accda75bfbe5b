package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Title string   `json:"title" yaml:"title"`
	Tags  []string `json:"tags" yaml:"tags"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{Title: "A", Tags: []string{"x"}}, "json", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"title\":\"A\",\"tags\":[\"x\"]}\n" {
		t.Fatalf("unexpected json: %q", got)
	}

	buf.Reset()
	if err := Write(&buf, sample{Title: "A"}, "", true); err != nil {
		t.Fatalf("write pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"title\": \"A\"") {
		t.Fatalf("expected indented json, got %q", buf.String())
	}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{Title: "Website Redesign", Tags: []string{"a", "b"}}, "YAML", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "title: Website Redesign\ntags:\n  - a\n  - b\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected yaml:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("edn") || !Valid("yml") {
		t.Fatalf("unexpected Valid results")
	}
}
