package hierarchy

import (
	"fmt"
	"os"
	"strings"
)

// Options controls tree compilation.
type Options struct {
	// MaxChildren caps the number of direct children a node may have.
	// Zero means unlimited.
	MaxChildren int
}

// parsedLine is a raw input line annotated with its indentation level.
// The synthetic root sits at level 0 and every real line is shifted by 4,
// so the first real nesting level is one step below the root.
type parsedLine struct {
	value  string
	indent int
	lineNo int // 1-based position in the original file, 0 for the root
}

// indentLevel measures the leading whitespace of a line. A tab weighs 4,
// a space weighs 1.
func indentLevel(line string) int {
	level := 0
	for _, r := range line {
		switch r {
		case '\t':
			level += 4
		case ' ':
			level++
		default:
			return level
		}
	}
	return level
}

// Compile builds a forest of nodes from indentation-structured lines.
// Blank lines are ignored. Each line becomes a node whose depth is given
// by its leading whitespace; a line indented one step further than its
// predecessor is that predecessor's child. Lines that skip more than one
// indentation step are unreachable by the descent and rejected.
func Compile(lines []string, opts Options) (Forest, error) {
	parsed := []parsedLine{{value: "root", indent: 0}}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parsed = append(parsed, parsedLine{
			value:  strings.TrimSpace(line),
			indent: indentLevel(line) + 4,
			lineNo: i + 1,
		})
	}

	consumed := make([]bool, len(parsed))
	root, err := build(parsed, 0, opts, consumed)
	if err != nil {
		return nil, err
	}

	for i, ok := range consumed {
		if !ok {
			return nil, fmt.Errorf("line %d: %q skips more than one indentation level", parsed[i].lineNo, parsed[i].value)
		}
	}

	return root.Children, nil
}

// CompileFile reads a whole text resource and compiles it.
func CompileFile(path string, opts Options) (Forest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read hierarchy file %s: %w", path, err)
	}
	forest, err := Compile(strings.Split(string(content), "\n"), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return forest, nil
}

// build recursively assembles the node at index from the flat line array.
// Lines exactly one step deeper are direct children and recursed into;
// a shallower line ends the scan (it belongs to an ancestor); deeper lines
// are skipped here because the recursion into a child consumes them.
func build(lines []parsedLine, index int, opts Options, consumed []bool) (*Node, error) {
	consumed[index] = true

	if index+1 >= len(lines) {
		return newNode(lines[index].value, nil, opts)
	}

	var children []*Node
	childLevel := lines[index].indent + 4
	for idx, line := range lines[index+1:] {
		if line.indent == childLevel {
			child, err := build(lines, index+1+idx, opts, consumed)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		} else if line.indent < childLevel {
			break
		}
	}

	return newNode(lines[index].value, children, opts)
}

func newNode(value string, children []*Node, opts Options) (*Node, error) {
	if opts.MaxChildren > 0 && len(children) > opts.MaxChildren {
		return nil, fmt.Errorf("too many entries under %q: %d exceeds the limit of %d", value, len(children), opts.MaxChildren)
	}
	return &Node{
		ID:          Normalize(value),
		DisplayName: value,
		Children:    children,
	}, nil
}
