package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	want := []string{"keys", "overview", "timeline", "web"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Timeline ")
	if !ok || !strings.Contains(body, "inclusive") {
		t.Fatalf("expected timeline topic, got ok=%v", ok)
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("path traversal must not resolve")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unknown topic must not resolve")
	}
	if got := Title("keys"); got != "Keyboard reference" {
		t.Fatalf("unexpected title %q", got)
	}
}
