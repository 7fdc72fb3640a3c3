package patch

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	yaml "gopkg.in/yaml.v3"

	"tmplpatch/config"
	tmpl "tmplpatch/template"
)

// Values is a struct that holds variables we make available for output name
// template expansion.
type Values struct {
	Name string // source base name without extension
	Ext  string // source extension with leading dot
	Dir  string // source directory
}

// OutputName expands output name template for the source file. Result is a
// bare file name.
func OutputName(field, source string) (string, error) {
	t, err := template.New("name_template").Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse output name template: %w", err)
	}

	ext := filepath.Ext(source)
	values := Values{
		Name: strings.TrimSuffix(filepath.Base(source), ext),
		Ext:  ext,
		Dir:  filepath.Dir(source),
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand output name template: %w", err)
	}
	return config.CleanFileName(buf.String()), nil
}

type (
	partReport struct {
		Index  int    `yaml:"index"`
		Kind   string `yaml:"kind"`
		Name   string `yaml:"name"`
		Attr   string `yaml:"attr,omitempty"`
		Active bool   `yaml:"active"`
	}

	partsReport struct {
		Template string       `yaml:"template"`
		Parts    []partReport `yaml:"parts"`
	}
)

// WriteParts writes current part table of the template as YAML so binding
// layer outside of this program could pick it up together with patched
// markup.
func WriteParts(w io.Writer, t *tmpl.Template) error {
	report := partsReport{
		Template: t.ID.String(),
		Parts:    make([]partReport, 0, len(t.Parts)),
	}
	for _, p := range t.Parts {
		report.Parts = append(report.Parts, partReport{
			Index:  p.Index,
			Kind:   p.Kind.String(),
			Name:   p.Name,
			Attr:   p.Attr,
			Active: p.Active(),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("unable to write parts: %w", err)
	}
	return enc.Close()
}
