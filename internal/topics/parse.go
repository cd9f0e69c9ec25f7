package topics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Indent is the number of spaces per nesting level.
const Indent = 2

// PathSeparator delimits segments in topic path strings.
const PathSeparator = "/"

var (
	ErrOddIndent       = errors.New("indentation must be a multiple of two spaces")
	ErrIndentJump      = errors.New("indentation deepens by more than one level")
	ErrSeparatorInName = errors.New("topic name contains the path separator")
)

// FormatError reports a malformed line in a topic definition.
type FormatError struct {
	Line int    // 1-based line number
	Text string // offending line without terminator
	Err  error  // one of the Err* sentinels
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("topics: line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ParseReader reads a topic definition from r. See Parse.
func ParseReader(r io.Reader) (*Node, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("topics: read: %w", err)
	}
	return Parse(lines)
}

// Parse builds a topic tree from lines, one topic per line, nested by two
// leading spaces per level. A line may go at most one level deeper than the
// line before it. Blank lines are ignored. No tree is returned on error.
func Parse(lines []string) (*Node, error) {
	root := NewRoot()
	var stack []string

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		count := len(line) - len(strings.TrimLeft(line, " "))
		if count%Indent != 0 {
			return nil, &FormatError{Line: i + 1, Text: line, Err: ErrOddIndent}
		}
		level := count / Indent
		if level > len(stack) {
			return nil, &FormatError{Line: i + 1, Text: line, Err: ErrIndentJump}
		}

		name := line[count:]
		if strings.Contains(name, PathSeparator) {
			return nil, &FormatError{Line: i + 1, Text: line, Err: ErrSeparatorInName}
		}

		stack = append(stack[:level], name)
		root.AddTopic(stack)
	}

	return root, nil
}
