package render

import "fmt"

type LineKind int

const (
	LineDirectory LineKind = iota
	LineFile
	LineBack
	LineTruncated
	LineUnavailable
)

var lineKindNames = map[LineKind]string{
	LineDirectory:   "directory",
	LineFile:        "file",
	LineBack:        "back",
	LineTruncated:   "truncated",
	LineUnavailable: "unavailable",
}

func (k LineKind) String() string {
	if s, ok := lineKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

func (k LineKind) MarshalText() ([]byte, error) {
	s, ok := lineKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown line kind %d", int(k))
	}
	return []byte(s), nil
}

func (k *LineKind) UnmarshalText(b []byte) error {
	for kind, s := range lineKindNames {
		if s == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown line kind %q", b)
}

// Line is one rendered row. Target is the path the row links to: a
// directory to list for directory, back, truncated and unavailable rows,
// a file to view for file rows.
type Line struct {
	Kind       LineKind `json:"kind"`
	Name       string   `json:"name,omitempty"`
	Target     string   `json:"target"`
	Caption    string   `json:"caption,omitempty"`
	HasCaption bool     `json:"has_caption,omitempty"`
	Depth      int      `json:"depth,omitempty"`
	Languages  []string `json:"languages,omitempty"`
}

type Listing struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
	Lines     []Line `json:"lines"`
}
