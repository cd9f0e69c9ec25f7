package mcpserver

// TopicFormatContract describes the topic file and the entry frontmatter
// that LLM consumers should follow when editing a site.
const TopicFormatContract = `# Topic Format

A site has one topic file (default ` + "`" + `metadata/topics` + "`" + `) and a directory of
Markdown entries (default ` + "`" + `entries/` + "`" + `).

## Topic file

One topic per line. Nesting is expressed by indentation, two spaces per level.

` + "```" + `
Algorithms
  Sorting
  Graphs
    Shortest Paths
Data Structures
` + "```" + `

## Rules

1. **Indentation** is a multiple of two spaces. Tabs are not indentation.
2. A line may be nested at most **one level deeper** than the line above it.
   Returning to any shallower level is allowed.
3. The first topic line must not be indented.
4. Names are taken verbatim after the indentation. They must not contain ` + "`" + `/` + "`" + `.
5. Blank lines are ignored.
6. Declaring the same path twice keeps the first declaration and its position.

A file that breaks rules 1 to 4 is rejected as a whole; the previous catalog
stays in place and the error names the offending line.

## Entries

Entries declare topic paths in YAML frontmatter. Segments are joined by ` + "`" + `/` + "`" + `
and may be padded with spaces.

` + "```" + `markdown
---
title: Dijkstra's algorithm
topics:
  - Algorithms/Graphs/Shortest Paths
  - Data Structures
---

Body text in standard Markdown.
` + "```" + `

A single path may be given as ` + "`" + `topic: Algorithms/Sorting` + "`" + `.

An entry is placed in the topic each path names. If any segment of a path
is not declared, the entry is not placed for that path and a warning of the
form ` + "`" + `in entry <id>: unknown (sub)topic <path>` + "`" + ` is reported.

The entry id is its path under the entries directory without ` + "`" + `.md` + "`" + `
(e.g. ` + "`" + `graphs/dijkstra` + "`" + `).
`
