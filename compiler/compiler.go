// Package compiler discovers template parts in parsed markup.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tmplpatch/dom"
	"tmplpatch/template"
)

// Markers defines how parts are spelled in template markup.
type Markers struct {
	// Comment prefix marking node part: <!--?name-->
	Comment string
	// Expression delimiters for attribute and text parts: {{name}}
	Open, Close string
}

func DefaultMarkers() Markers {
	return Markers{Comment: "?", Open: "{{", Close: "}}"}
}

var (
	errNoName   = errors.New("part without name")
	errMultiple = errors.New("part must hold exactly one expression")
)

// expression reports whether s (trimmed) is delimited as an expression and
// returns its name. Value holding more than one expression or an empty one
// is malformed.
func (m Markers) expression(s string) (name string, ok bool, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, m.Open) || !strings.HasSuffix(s, m.Close) || len(s) < len(m.Open)+len(m.Close) {
		return "", false, nil
	}
	name = strings.TrimSpace(s[len(m.Open) : len(s)-len(m.Close)])
	switch {
	case strings.Contains(name, m.Open) || strings.Contains(name, m.Close):
		return "", true, errMultiple
	case name == "":
		return "", true, errNoName
	}
	return name, true, nil
}

// Compile walks content once and produces template with parts sorted by
// traversal index. Template takes ownership of the tree. All malformed markers
// are reported together.
func Compile(tree *dom.Tree, content dom.NodeID, markers Markers, log *zap.Logger) (*template.Template, error) {
	var (
		parts []template.Part
		err   error
	)

	bad := func(index int, format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("node %d: %s", index, fmt.Sprintf(format, args...)))
	}

	for index, n := range tree.Walk(content) {
		node := tree.Node(n)
		switch node.Kind {
		case dom.KindComment:
			if markers.Comment == "" || !strings.HasPrefix(node.Data, markers.Comment) {
				continue
			}
			name := strings.TrimSpace(strings.TrimPrefix(node.Data, markers.Comment))
			if name == "" {
				bad(index, "node part without name")
				continue
			}
			parts = append(parts, template.Part{Index: index, Kind: template.PartNode, Name: name})
		case dom.KindElement:
			for _, a := range node.Attrs {
				name, ok, e := markers.expression(a.Value)
				if !ok {
					continue
				}
				if e != nil {
					bad(index, "attribute %q %v", a.Key, e)
					continue
				}
				parts = append(parts, template.Part{Index: index, Kind: template.PartAttribute, Name: name, Attr: a.Key})
			}
		case dom.KindText:
			name, ok, e := markers.expression(node.Data)
			if !ok {
				continue
			}
			if e != nil {
				bad(index, "text %v", e)
				continue
			}
			parts = append(parts, template.Part{Index: index, Kind: template.PartText, Name: name})
		}
	}
	if err != nil {
		return nil, fmt.Errorf("unable to compile template: %w", err)
	}

	t := template.New(tree, content, parts)
	log.Debug("Template compiled", zap.Stringer("id", t.ID), zap.Int("parts", len(parts)))
	return t, nil
}
