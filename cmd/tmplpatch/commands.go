package main

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tmplpatch/archive"
	"tmplpatch/compiler"
	"tmplpatch/markup"
	"tmplpatch/patch"
	"tmplpatch/state"
	"tmplpatch/template"
)

func setFormat(env *state.LocalEnv, cmd *cli.Command) error {
	name := cmd.String("format")
	if len(name) == 0 {
		return nil
	}
	f, err := markup.ParseFormat(name)
	if err != nil {
		return err
	}
	env.Format = &f
	return nil
}

// loadTemplate parses and compiles template, name is used to detect markup
// format and for reporting.
func loadTemplate(env *state.LocalEnv, name string, r io.Reader) (*template.Template, markup.Format, error) {
	format := env.SourceFormat(name)

	tree, root, err := format.Parse(r)
	if err != nil {
		return nil, format, fmt.Errorf("unable to parse source '%s': %w", name, err)
	}
	t, err := compiler.Compile(tree, root, env.Cfg.Template.CompilerMarkers(), env.Log)
	if err != nil {
		return nil, format, fmt.Errorf("source '%s': %w", name, err)
	}
	env.Log.Info("Template loaded", zap.String("file", name), zap.Stringer("format", format), zap.Int("parts", len(t.Parts)))
	return t, format, nil
}

func loadTemplateFile(env *state.LocalEnv, src string) (*template.Template, markup.Format, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, env.SourceFormat(src), fmt.Errorf("unable to open source '%s': %w", src, err)
	}
	defer f.Close()
	return loadTemplate(env, src, f)
}

func inspectTemplate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no source has been specified")
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	if err := setFormat(env, cmd); err != nil {
		return err
	}

	t, _, err := loadTemplateFile(env, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(os.Stdout, template.Dump(t)); err != nil {
		return fmt.Errorf("unable to print template: %w", err)
	}
	return template.Validate(t)
}

func patchTemplate(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no source has been specified")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	if err := setFormat(env, cmd); err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	src := cmd.Args().Get(0)
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}

	script, err := loadScript(cmd.String("script"))
	if err != nil {
		return err
	}

	if !archive.IsArchive(src) {
		t, format, err := loadTemplateFile(env, src)
		if err != nil {
			return err
		}
		return patchOne(env, t, format, script, src, dst)
	}

	count := 0
	err = archive.Walk(src, "", func(_ string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("unable to open '%s' in archive: %w", file.Name, err)
		}
		defer rc.Close()

		t, format, err := loadTemplate(env, file.Name, rc)
		if err != nil {
			return err
		}
		count++
		// keep archive directory structure
		return patchOne(env, t, format, script, file.Name, filepath.Join(dst, filepath.FromSlash(path.Dir(file.Name))))
	})
	if err != nil {
		return fmt.Errorf("unable to process archive '%s': %w", src, err)
	}
	if count == 0 {
		env.Log.Warn("No templates found in archive", zap.String("archive", src))
	}
	return nil
}

// patchOne applies script to compiled template and writes results into dst
// directory.
func patchOne(env *state.LocalEnv, t *template.Template, format markup.Format, script patch.Script, src, dst string) error {
	if err := patch.Apply(t, script, format, env.Log); err != nil {
		return fmt.Errorf("source '%s': %w", src, err)
	}
	if err := template.Validate(t); err != nil {
		return fmt.Errorf("patched template '%s' is inconsistent: %w", src, err)
	}

	name, err := patch.OutputName(env.Cfg.Output.NameTemplate, src)
	if err != nil {
		return err
	}
	out := filepath.Join(dst, name)
	if err := writeFile(env, out, func(f *os.File) error {
		return format.Render(f, t.Tree, t.Content, env.Cfg.Output.Indent)
	}); err != nil {
		return err
	}
	env.Log.Info("Template patched", zap.String("file", out), zap.Int("steps", len(script)))

	if !env.Cfg.Output.Parts {
		return nil
	}
	return writeFile(env, out+".parts.yaml", func(f *os.File) error {
		return patch.WriteParts(f, t)
	})
}

func loadScript(fname string) (patch.Script, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to open script '%s': %w", fname, err)
	}
	defer f.Close()
	return patch.LoadScript(f)
}

func writeFile(env *state.LocalEnv, fname string, write func(*os.File) error) (err error) {
	if _, er := os.Stat(fname); er == nil && !env.Overwrite {
		return fmt.Errorf("output file already exists: %s", fname)
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create output file '%s': %w", fname, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return write(f)
}
