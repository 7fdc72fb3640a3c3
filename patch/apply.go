package patch

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tmplpatch/dom"
	"tmplpatch/markup"
	"tmplpatch/template"
)

// Select returns content nodes matching selector in traversal order.
func (s *Selector) Select(t *template.Template) []dom.NodeID {
	tree := t.Tree
	if s.Index != nil {
		if n := tree.At(t.Content, *s.Index); n != dom.NoNode {
			return []dom.NodeID{n}
		}
		return nil
	}

	var found []dom.NodeID
	for _, n := range tree.Walk(t.Content) {
		if tree.Kind(n) != dom.KindElement {
			continue
		}
		switch {
		case s.ID != "":
			if v, ok := tree.Attr(n, "id"); ok && v == s.ID {
				found = append(found, n)
			}
		case tree.Node(n).Data == s.Tag:
			found = append(found, n)
		}
	}
	return found
}

// Apply runs script steps in order. Inserted markup is parsed in format into
// template tree. Processing stops on first failed step, template keeps edits
// made by previous steps.
func Apply(t *template.Template, script Script, format markup.Format, log *zap.Logger) error {
	for i, step := range script {
		var err error
		switch {
		case step.Remove != nil:
			err = remove(t, step.Remove, log)
		case step.Insert != nil:
			err = insert(t, step.Insert, format, log)
		}
		if err != nil {
			return fmt.Errorf("unable to apply step %d: %w", i+1, err)
		}
	}
	log.Debug("Patch applied", zap.Stringer("id", t.ID), zap.Int("steps", len(script)))
	return nil
}

func remove(t *template.Template, sel *Selector, log *zap.Logger) error {
	nodes := sel.Select(t)
	if len(nodes) == 0 {
		log.Warn("Nothing to remove, skipping", zap.Stringer("selector", sel))
		return nil
	}
	template.RemoveNodes(t, dom.NewNodeSet(nodes...))
	log.Debug("Removed nodes", zap.Stringer("selector", sel), zap.Int("count", len(nodes)))
	return nil
}

func insert(t *template.Template, step *InsertStep, format markup.Format, log *zap.Logger) error {
	var ref dom.Ref
	if step.Before != nil {
		nodes := step.Before.Select(t)
		if len(nodes) != 1 {
			return fmt.Errorf("insert reference %s matched %d nodes, expected exactly one", step.Before, len(nodes))
		}
		ref = t.Tree.Ref(nodes[0])
	}

	node, err := format.ParseInto(t.Tree, strings.NewReader(step.Markup))
	if err != nil {
		return fmt.Errorf("unable to parse inserted markup: %w", err)
	}
	count := t.Tree.Count(node)
	if err := template.InsertNode(t, node, ref); err != nil {
		return err
	}
	log.Debug("Inserted nodes", zap.Stringer("format", format), zap.Int("count", count))
	return nil
}
