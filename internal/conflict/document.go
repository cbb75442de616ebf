// Package conflict parses text carrying merge-conflict markers into blocks
// and renders resolutions back into plain lines.
package conflict

import "strings"

type SegmentKind int

const (
	Passthrough SegmentKind = iota
	Conflict
)

func (k SegmentKind) String() string {
	if k == Conflict {
		return "conflict"
	}
	return "passthrough"
}

// Block is one conflict region. Start and End are the 0-based offsets of the
// start and end marker lines in the source.
type Block struct {
	Ours        []string
	Base        []string
	Theirs      []string
	OursLabel   string
	TheirsLabel string
	Start       int
	End         int
}

// Segment is either a run of passthrough lines or a single conflict block,
// depending on Kind.
type Segment struct {
	Kind  SegmentKind
	Lines []string
	Block Block
}

type Document struct {
	Segments []Segment
}

// Conflicts returns the number of conflict segments.
func (d *Document) Conflicts() int {
	n := 0
	for _, seg := range d.Segments {
		if seg.Kind == Conflict {
			n++
		}
	}
	return n
}

// Blocks returns the conflict blocks in document order.
func (d *Document) Blocks() []Block {
	var blocks []Block
	for _, seg := range d.Segments {
		if seg.Kind == Conflict {
			blocks = append(blocks, seg.Block)
		}
	}
	return blocks
}

// Render reassembles the document, substituting each block with the lines
// returned by resolve. resolve is called once per block in document order.
func (d *Document) Render(resolve func(Block) []string) []string {
	var out []string
	for _, seg := range d.Segments {
		if seg.Kind == Conflict {
			out = append(out, resolve(seg.Block)...)
			continue
		}
		out = append(out, seg.Lines...)
	}
	return out
}

// Join concatenates lines that already carry their terminators.
func Join(lines []string) []byte {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
	}
	return []byte(b.String())
}
