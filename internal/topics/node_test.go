package topics

import (
	"errors"
	"testing"
)

func TestAddTopic_CreatesPathOnce(t *testing.T) {
	root := NewRoot()
	leaf := root.AddTopic([]string{"A", "B", "C"})
	if leaf.Name() != "C" || leaf.Depth() != 3 {
		t.Fatalf("leaf = %s depth %d", leaf.Name(), leaf.Depth())
	}
	again := root.AddTopic([]string{"A", "B", "C"})
	if again != leaf {
		t.Error("AddTopic should reuse existing nodes")
	}
	if root.CountTopics() != 3 {
		t.Errorf("CountTopics = %d, want 3", root.CountTopics())
	}
}

func TestPath_ReturnsCopy(t *testing.T) {
	root := NewRoot()
	leaf := root.AddTopic([]string{"A", "B"})
	p := leaf.Path()
	p[0] = "mutated"
	if leaf.Path()[0] != "A" {
		t.Error("Path must not expose internal state")
	}
}

func TestLookup_PartialMatch(t *testing.T) {
	root := NewRoot()
	root.AddTopic([]string{"A", "B"})
	node, matched := root.Lookup([]string{"A", "X", "Y"})
	if matched != 1 || node.Name() != "A" {
		t.Errorf("Lookup = %s/%d, want A/1", node.Name(), matched)
	}
	if _, ok := root.Find([]string{"A", "X"}); ok {
		t.Error("Find should fail on a missing segment")
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	root := NewRoot()
	root.AddTopic([]string{"A"})
	root.AddTopic([]string{"B"})
	stop := errors.New("stop")
	var seen []string
	err := root.Walk(func(n *Node) error {
		seen = append(seen, n.Name())
		if n.Name() == "A" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("seen = %q, want root and A only", seen)
	}
}

func TestString_Dump(t *testing.T) {
	root := exampleTree(t)
	Classify(root, []Assignment{{Entry: "E1", Topics: []string{"Algorithms/Sorting"}}})
	want := "[]\n" +
		"Algorithms\n" +
		"  []\n" +
		"  Sorting\n" +
		"    [E1]\n" +
		"Data Structures\n" +
		"  []\n"
	if got := root.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
