// Package patch applies edit scripts to compiled templates.
package patch

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"
)

type (
	// Selector picks template content nodes. Exactly one field must be set.
	Selector struct {
		// traversal index at the time step runs
		Index *int `yaml:"index,omitempty"`
		// value of element "id" attribute
		ID string `yaml:"id,omitempty"`
		// element tag, selects every matching element
		Tag string `yaml:"tag,omitempty"`
	}

	InsertStep struct {
		Markup string `yaml:"markup"`
		// nil means append to the end of template content
		Before *Selector `yaml:"before,omitempty"`
	}

	// Step is a single edit. Exactly one field must be set.
	Step struct {
		Remove *Selector   `yaml:"remove,omitempty"`
		Insert *InsertStep `yaml:"insert,omitempty"`
	}

	Script []Step
)

// LoadScript decodes and checks edit script. Unknown fields are errors.
func LoadScript(r io.Reader) (Script, error) {
	var script Script

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, nil
		}
		return nil, fmt.Errorf("failed to decode patch script: %w", err)
	}
	if err := script.Check(); err != nil {
		return nil, fmt.Errorf("malformed patch script: %w", err)
	}
	return script, nil
}

// Check reports all malformed steps at once.
func (s Script) Check() (err error) {
	for i, step := range s {
		if e := step.check(); e != nil {
			err = multierr.Append(err, fmt.Errorf("step %d: %w", i+1, e))
		}
	}
	return
}

func (s *Step) check() error {
	switch {
	case s.Remove != nil && s.Insert != nil:
		return errors.New("step must be either remove or insert, not both")
	case s.Remove != nil:
		return s.Remove.check()
	case s.Insert != nil:
		if s.Insert.Markup == "" {
			return errors.New("insert without markup")
		}
		if s.Insert.Before != nil {
			return s.Insert.Before.check()
		}
		return nil
	default:
		return errors.New("empty step")
	}
}

func (s *Selector) check() error {
	set := 0
	if s.Index != nil {
		if *s.Index < 0 {
			return fmt.Errorf("negative index %d", *s.Index)
		}
		set++
	}
	if s.ID != "" {
		set++
	}
	if s.Tag != "" {
		set++
	}
	if set != 1 {
		return errors.New("selector must have exactly one of index, id or tag")
	}
	return nil
}

func (s *Selector) String() string {
	switch {
	case s.Index != nil:
		return fmt.Sprintf("index=%d", *s.Index)
	case s.ID != "":
		return fmt.Sprintf("id=%q", s.ID)
	default:
		return fmt.Sprintf("tag=%q", s.Tag)
	}
}
