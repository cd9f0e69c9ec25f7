package entries

import (
	"reflect"
	"testing"
)

func TestParse_TopicsList(t *testing.T) {
	input := []byte("---\ntitle: Sorting Networks\ntopics:\n  - Algorithms/Sorting\n  - Computer Science / Automata\n---\n# Heading\nBody.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Title != "Sorting Networks" {
		t.Errorf("title = %q", r.Title)
	}
	want := []string{"Algorithms/Sorting", "Computer Science / Automata"}
	if !reflect.DeepEqual(r.Topics, want) {
		t.Errorf("topics = %q, want %q", r.Topics, want)
	}
	if r.Body != "# Heading\nBody.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_SingleTopicString(t *testing.T) {
	r, err := Parse([]byte("---\ntopic: Logic\n---\ntext\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(r.Topics, []string{"Logic"}) {
		t.Errorf("topics = %q", r.Topics)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	r, err := Parse([]byte("# Just a heading\nSome text.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Topics) != 0 {
		t.Errorf("topics = %q, want none", r.Topics)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q", r.Title)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("---\ntitle: [unclosed\n---\nBody\n")); err == nil {
		t.Fatal("expected error for invalid frontmatter")
	}
}

func TestExtractTopics_DropsBlankAndDuplicates(t *testing.T) {
	fm := map[string]any{
		"topics": []any{"A/B", " ", "A/B", 42, "C"},
	}
	got := extractTopics(fm)
	if !reflect.DeepEqual(got, []string{"A/B", "C"}) {
		t.Errorf("topics = %q", got)
	}
}

func TestExtractTopics_PluralWins(t *testing.T) {
	fm := map[string]any{"topics": "A", "topic": "B"}
	if got := extractTopics(fm); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("topics = %q", got)
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	if got := deriveTitle(nil, "intro\n# My Heading\nmore"); got != "My Heading" {
		t.Errorf("title = %q", got)
	}
}
