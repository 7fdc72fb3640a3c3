package markup

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tmplpatch/dom"
)

// Format of template markup.
type Format int

const (
	FormatHTML Format = iota
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatXML:
		return "xml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "html", "htm":
		return FormatHTML, nil
	case "xml", "xhtml", "svg":
		return FormatXML, nil
	default:
		return 0, fmt.Errorf("unsupported markup format %q", name)
	}
}

// DetectFormat returns format by file extension, fallback is used for
// unknown extensions.
func DetectFormat(path string, fallback Format) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return fallback
}

// ParseInto parses markup of given format into existing tree.
func (f Format) ParseInto(tree *dom.Tree, r io.Reader) (dom.NodeID, error) {
	switch f {
	case FormatXML:
		return ParseXMLInto(tree, r)
	default:
		return ParseHTMLInto(tree, r)
	}
}

// Parse parses markup of given format into new tree.
func (f Format) Parse(r io.Reader) (*dom.Tree, dom.NodeID, error) {
	tree := dom.NewTree()
	root, err := f.ParseInto(tree, r)
	if err != nil {
		return nil, dom.NoNode, err
	}
	return tree, root, nil
}

// Render writes children of root in given format, indent is only used for
// XML.
func (f Format) Render(w io.Writer, tree *dom.Tree, root dom.NodeID, indent int) error {
	switch f {
	case FormatXML:
		return RenderXML(w, tree, root, indent)
	default:
		return RenderHTML(w, tree, root)
	}
}
