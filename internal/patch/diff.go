package patch

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/sprite-ai/patchlint/internal/model"
)

// File is a single target file touched by a patch.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	AddedLines   int
	DeletedLines int
}

// Name returns the display name for the file.
func (f *File) Name() string {
	if f.IsRenamed {
		return fmt.Sprintf("%s → %s", f.OldName, f.NewName)
	}
	if f.IsDeleted {
		return f.OldName
	}
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

// DiffSet holds the target files described by one patch.
type DiffSet struct {
	Files []*File
}

// Stats returns aggregate statistics.
func (ds *DiffSet) Stats() model.DiffStats {
	s := model.DiffStats{Files: len(ds.Files)}
	for _, f := range ds.Files {
		s.Added += f.AddedLines
		s.Deleted += f.DeletedLines
	}
	return s
}

// ParseFiles parses the patch text with go-gitdiff. A leading mail header
// ("From ...", "Subject: ...") is accepted as preamble.
func ParseFiles(text string) (*DiffSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	ds := &DiffSet{}
	for _, f := range parsed {
		df := &File{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					df.AddedLines++
				case gitdiff.OpDelete:
					df.DeletedLines++
				}
			}
		}

		ds.Files = append(ds.Files, df)
	}

	return ds, nil
}

// TargetFiles maps each line of a classified patch to the target file named
// by the most recent "+++" marker ("--- " when the new side is /dev/null).
// Lines before the first marker map to "".
func TargetFiles(lines []Line) []string {
	out := make([]string, len(lines))
	current := ""
	for i, l := range lines {
		if l.Kind == KindFileMarker {
			if name := markerPath(l.Raw); name != "" {
				if strings.HasPrefix(l.Raw, "+++") || current == "" {
					current = name
				}
			}
		}
		out[i] = current
	}
	return out
}

func markerPath(raw string) string {
	name := strings.TrimSpace(raw[3:])
	if i := strings.IndexByte(name, '\t'); i >= 0 {
		name = name[:i]
	}
	if name == "/dev/null" {
		return ""
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name
}
