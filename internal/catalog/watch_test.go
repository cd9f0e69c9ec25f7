package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/starford/topictree/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, svc *Service) (*sync.Mutex, *[]error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var mu sync.Mutex
	var results []error
	go svc.Watch(ctx, 50*time.Millisecond, func(_ *Snapshot, err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)
	return &mu, &results
}

func TestWatch_EntryChangeRebuilds(t *testing.T) {
	root, store := testutil.TestSite(t, testutil.ExampleTopics, nil)
	svc := NewService(store, testutil.TestDB(t), testLayout, testutil.Logger())
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	startWatcher(t, svc)

	testutil.WriteFile(t, root, "entries/new.md", testutil.Entry("New", "Algorithms/Sorting"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		snap, err := svc.Current()
		if err != nil {
			return false
		}
		_, ok := snap.Entry("new")
		return ok
	}, "new entry not picked up by watcher")
}

func TestWatch_NewDirectoryWatched(t *testing.T) {
	root, store := testutil.TestSite(t, testutil.ExampleTopics, nil)
	svc := NewService(store, testutil.TestDB(t), testLayout, testutil.Logger())
	startWatcher(t, svc)

	testutil.WriteFile(t, root, "entries/deep/nested.md", testutil.Entry("Nested", "Data Structures"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		snap, err := svc.Current()
		if err != nil {
			return false
		}
		_, ok := snap.Entry("deep/nested")
		return ok
	}, "entry in new directory not indexed")
}

func TestWatch_TopicFileErrorReported(t *testing.T) {
	root, store := testutil.TestSite(t, testutil.ExampleTopics, nil)
	svc := NewService(store, testutil.TestDB(t), testLayout, testutil.Logger())
	mu, results := startWatcher(t, svc)

	testutil.WriteFile(t, root, testutil.TopicsFile, " odd\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, err := range *results {
			if err != nil {
				return true
			}
		}
		return false
	}, "format error not reported to callback")
}

func TestRelevant(t *testing.T) {
	svc := &Service{layout: testLayout}
	cases := map[string]bool{
		"metadata/topics":   true,
		"entries/a.md":      true,
		"entries/sub/b.md":  true,
		"entries/notes.txt": false,
		"other/c.md":        false,
		"topictree.db":      false,
	}
	for rel, want := range cases {
		if got := svc.relevant(rel); got != want {
			t.Errorf("relevant(%q) = %v, want %v", rel, got, want)
		}
	}
}
