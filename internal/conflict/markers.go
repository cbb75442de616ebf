package conflict

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	StartMarker = "<<<<<<<"
	BaseMarker  = "|||||||"
	MidMarker   = "======="
	EndMarker   = ">>>>>>>"
)

var ErrMalformedConflict = errors.New("malformed conflict")

// MalformedError reports where a marker sequence broke down. Line is 1-based.
type MalformedError struct {
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed conflict at line %d: %s", e.Line, e.Reason)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedConflict
}

type parseMode int

const (
	normalMode parseMode = iota
	collectingOurs
	collectingBase
	collectingTheirs
)

func (m parseMode) String() string {
	switch m {
	case collectingOurs:
		return "ours"
	case collectingBase:
		return "base"
	case collectingTheirs:
		return "theirs"
	default:
		return "normal"
	}
}

// Parse splits lines into passthrough spans and conflict blocks. Lines keep
// their terminators so the document can be reassembled byte for byte.
func Parse(lines []string) (*Document, error) {
	doc := &Document{}
	mode := normalMode

	var passthrough []string
	var block Block

	flush := func() {
		if len(passthrough) > 0 {
			doc.Segments = append(doc.Segments, Segment{Kind: Passthrough, Lines: passthrough})
			passthrough = nil
		}
	}

	for i, line := range lines {
		switch mode {
		case normalMode:
			if strings.HasPrefix(line, StartMarker) {
				flush()
				block = Block{Start: i, OursLabel: markerLabel(line, StartMarker)}
				mode = collectingOurs
				continue
			}
			passthrough = append(passthrough, line)

		case collectingOurs, collectingBase:
			switch {
			case strings.HasPrefix(line, StartMarker):
				return nil, &MalformedError{Line: i + 1, Reason: "nested start marker"}
			case strings.HasPrefix(line, EndMarker):
				return nil, &MalformedError{Line: i + 1, Reason: "end marker before separator"}
			case strings.HasPrefix(line, MidMarker):
				mode = collectingTheirs
			case strings.HasPrefix(line, BaseMarker):
				if mode == collectingBase {
					return nil, &MalformedError{Line: i + 1, Reason: "duplicate base marker"}
				}
				mode = collectingBase
			case mode == collectingBase:
				block.Base = append(block.Base, line)
			default:
				block.Ours = append(block.Ours, line)
			}

		case collectingTheirs:
			switch {
			case strings.HasPrefix(line, EndMarker):
				block.End = i
				block.TheirsLabel = markerLabel(line, EndMarker)
				doc.Segments = append(doc.Segments, Segment{Kind: Conflict, Block: block})
				block = Block{}
				mode = normalMode
			case strings.HasPrefix(line, StartMarker):
				return nil, &MalformedError{Line: i + 1, Reason: "nested start marker"}
			default:
				// A second separator here is content (rst underlines and the like).
				block.Theirs = append(block.Theirs, line)
			}
		}
	}

	if mode != normalMode {
		return nil, &MalformedError{
			Line:   len(lines),
			Reason: fmt.Sprintf("unterminated block opened at line %d (still collecting %s)", block.Start+1, mode),
		}
	}

	flush()
	return doc, nil
}

// ParseBytes is SplitLines followed by Parse.
func ParseBytes(content []byte) (*Document, error) {
	return Parse(SplitLines(content))
}

// SplitLines splits content after every '\n', so "\r\n" endings and a final
// unterminated line survive untouched.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	var lines []string
	for len(content) > 0 {
		idx := bytes.IndexByte(content, '\n')
		if idx < 0 {
			lines = append(lines, string(content))
			break
		}
		lines = append(lines, string(content[:idx+1]))
		content = content[idx+1:]
	}
	return lines
}

// HasMarkers reports whether any line of content starts with a start marker.
func HasMarkers(content []byte) bool {
	for _, line := range SplitLines(content) {
		if strings.HasPrefix(line, StartMarker) {
			return true
		}
	}
	return false
}

func markerLabel(line, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, marker))
}
