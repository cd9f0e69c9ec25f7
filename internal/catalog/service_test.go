package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/starford/topictree/internal/apperr"
	"github.com/starford/topictree/internal/testutil"
	"github.com/starford/topictree/internal/topics"
)

var testLayout = Layout{TopicsFile: testutil.TopicsFile, EntriesDir: testutil.EntriesDir}

func TestBuild_ClassifiesEntries(t *testing.T) {
	_, store := testutil.TestSite(t, testutil.ExampleTopics, map[string]string{
		"E1.md":        testutil.Entry("Merge Sort", "Algorithms/Sorting", "Data Structures"),
		"misc/E2.md":   testutil.Entry("Tries", "Data Structures / Trees"),
		"untopical.md": "# No frontmatter\n",
	})

	snap, err := Build(context.Background(), store, testLayout, testutil.Logger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap.ID == "" || snap.TopicsChecksum == "" {
		t.Errorf("missing build metadata: %+v", snap)
	}

	var ids []string
	for _, e := range snap.Entries {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"E1", "misc/E2", "untopical"}) {
		t.Errorf("entry ids = %v", ids)
	}

	sorting, _ := snap.Tree.Find([]string{"Algorithms", "Sorting"})
	if !reflect.DeepEqual(sorting.Entries(), []string{"E1"}) {
		t.Errorf("Sorting entries = %v", sorting.Entries())
	}
	ds, _ := snap.Tree.Find([]string{"Data Structures"})
	if !reflect.DeepEqual(ds.Entries(), []string{"E1"}) {
		t.Errorf("Data Structures entries = %v", ds.Entries())
	}

	if len(snap.Warnings) != 1 {
		t.Fatalf("warnings = %v", snap.Warnings)
	}
	if w := snap.Warnings[0]; w.Entry != "misc/E2" || w.Missing != "Trees" {
		t.Errorf("warning = %+v", w)
	}
}

func TestBuild_FormatErrorIsFatal(t *testing.T) {
	_, store := testutil.TestSite(t, "Algorithms\n   Sorting\n", nil)
	_, err := Build(context.Background(), store, testLayout, testutil.Logger())
	var fe *topics.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FormatError", err)
	}
	if fe.Line != 2 {
		t.Errorf("line = %d, want 2", fe.Line)
	}
}

func TestBuild_SkipsBrokenEntry(t *testing.T) {
	_, store := testutil.TestSite(t, testutil.ExampleTopics, map[string]string{
		"bad.md":  "---\ntitle: [unclosed\n---\nbody\n",
		"good.md": testutil.Entry("Good", "Algorithms"),
	})
	snap, err := Build(context.Background(), store, testLayout, testutil.Logger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].ID != "good" {
		t.Errorf("entries = %+v", snap.Entries)
	}
}

func TestBuild_MissingTopicsFile(t *testing.T) {
	_, store := testutil.TestSite(t, "", nil)
	layout := Layout{TopicsFile: "nope", EntriesDir: testutil.EntriesDir}
	if _, err := Build(context.Background(), store, layout, testutil.Logger()); err == nil {
		t.Fatal("expected error for missing topics file")
	}
}

func TestBuild_Cancelled(t *testing.T) {
	_, store := testutil.TestSite(t, testutil.ExampleTopics, map[string]string{
		"a.md": testutil.Entry("A", "Algorithms"),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, store, testLayout, testutil.Logger()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEntryID(t *testing.T) {
	cases := []struct {
		dir, path, want string
	}{
		{"entries", "entries/a.md", "a"},
		{"entries/", "entries/x/b.md", "x/b"},
		{"", "c.md", "c"},
		{".", "sub/d.md", "sub/d"},
		{"site/entries", "site/entries/e.md", "e"},
	}
	for _, c := range cases {
		if got := entryID(c.dir, c.path); got != c.want {
			t.Errorf("entryID(%q, %q) = %q, want %q", c.dir, c.path, got, c.want)
		}
	}
}

func TestService_NoSnapshotBeforeRebuild(t *testing.T) {
	_, store := testutil.TestSite(t, testutil.ExampleTopics, nil)
	svc := NewService(store, testutil.TestDB(t), testLayout, testutil.Logger())
	if _, err := svc.Current(); !errors.Is(err, apperr.ErrNoSnapshot) {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}

func TestService_RebuildPersists(t *testing.T) {
	_, store := testutil.TestSite(t, testutil.ExampleTopics, map[string]string{
		"E1.md": testutil.Entry("Merge Sort", "Algorithms/Sorting", "Data Structures"),
	})
	svc := NewService(store, testutil.TestDB(t), testLayout, testutil.Logger())
	ctx := context.Background()

	snap, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	cur, err := svc.Current()
	if err != nil || cur != snap {
		t.Fatalf("Current = %v, %v", cur, err)
	}

	b, err := svc.Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.ID != snap.ID || b.TopicCount != 3 || b.EntryCount != 1 {
		t.Errorf("build = %+v", b)
	}

	e, err := svc.Entry(ctx, "E1")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if !reflect.DeepEqual(e.Placements, []string{"Algorithms/Sorting", "Data Structures"}) {
		t.Errorf("placements = %v", e.Placements)
	}

	node, err := svc.Topic(ctx, []string{"Algorithms", "Sorting"})
	if err != nil {
		t.Fatalf("Topic: %v", err)
	}
	if !reflect.DeepEqual(node.Entries(), []string{"E1"}) {
		t.Errorf("Sorting entries = %v", node.Entries())
	}
	if _, err := svc.Topic(ctx, []string{"Algorithms", "Z"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_FailedRebuildKeepsPrevious(t *testing.T) {
	root, store := testutil.TestSite(t, testutil.ExampleTopics, nil)
	svc := NewService(store, testutil.TestDB(t), testLayout, testutil.Logger())
	ctx := context.Background()

	first, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	testutil.WriteFile(t, root, testutil.TopicsFile, "    Broken\n")
	if _, err := svc.Rebuild(ctx); err == nil {
		t.Fatal("expected rebuild to fail")
	}
	cur, _ := svc.Current()
	if cur != first {
		t.Error("failed rebuild must keep the previous snapshot")
	}
}
