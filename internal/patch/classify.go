package patch

import "strings"

// Kind is the category of a single patch line.
type Kind int

const (
	KindOther Kind = iota
	KindHeaderMeta
	KindFileMarker
	KindHunkMarker
	KindAdded
	KindRemoved
	KindContext
)

func (k Kind) String() string {
	switch k {
	case KindHeaderMeta:
		return "header"
	case KindFileMarker:
		return "file"
	case KindHunkMarker:
		return "hunk"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindContext:
		return "context"
	default:
		return "other"
	}
}

// Line is a patch line together with its classification.
type Line struct {
	Number  int // 1-based
	Raw     string
	Kind    Kind
	Payload string // Raw without its diff prefix for added, removed and context lines
}

// Scannable reports whether the line is diff content inside a hunk.
func (l Line) Scannable() bool {
	return l.Kind == KindAdded || l.Kind == KindRemoved || l.Kind == KindContext
}

// Mail header and git metadata prefixes. These never count as diff content,
// even inside a hunk.
var headerPrefixes = []string{"From ", "Date:", "Subject:", "index ", "diff --git"}

var fileMarkerPrefixes = []string{"---", "+++"}

// Classify walks the lines of a patch in order. Lines before the first hunk
// marker are KindOther unless they are header or file marker lines; once a
// hunk marker is seen the remainder of the file is treated as diff content.
func Classify(lines []string) []Line {
	out := make([]Line, len(lines))
	inside := false
	for i, raw := range lines {
		out[i] = classifyLine(raw, i+1, inside)
		if out[i].Kind == KindHunkMarker {
			inside = true
		}
	}
	return out
}

func classifyLine(raw string, number int, inside bool) Line {
	l := Line{Number: number, Raw: raw}

	switch {
	case hasAnyPrefix(raw, fileMarkerPrefixes):
		l.Kind = KindFileMarker
	case hasAnyPrefix(raw, headerPrefixes):
		l.Kind = KindHeaderMeta
	case strings.HasPrefix(raw, "@@"):
		l.Kind = KindHunkMarker
	case !inside:
		l.Kind = KindOther
	case strings.HasPrefix(raw, "+"):
		l.Kind = KindAdded
		l.Payload = raw[1:]
	case strings.HasPrefix(raw, "-"):
		l.Kind = KindRemoved
		l.Payload = raw[1:]
	default:
		l.Kind = KindContext
		l.Payload = strings.TrimPrefix(raw, " ")
	}

	return l
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// OfKind returns the lines with the given kind, preserving order.
func OfKind(lines []Line, k Kind) []Line {
	var out []Line
	for _, l := range lines {
		if l.Kind == k {
			out = append(out, l)
		}
	}
	return out
}
