// Package scaffold writes the starter files for a new weft project.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Settings describes the project metadata used for scaffolding.
type Settings struct {
	AppName    string
	ModulePath string
}

const goModTemplate = `module {{.ModulePath}}

go 1.24
`

const weftYamlTemplate = `app:
  name: {{.AppName}}
log:
  level: info
`

const mainTemplate = `package main

import (
	"fmt"

	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/loop"
	"github.com/go-weft/weft/pkg/render"
)

// printAdapter writes every backing-tree mutation to stdout. Replace it
// with your host's adapter.
type printAdapter struct{}

func (printAdapter) Attach(handle, before render.Handle) { fmt.Println("attach", handle) }
func (printAdapter) Detach(handle render.Handle)         { fmt.Println("detach", handle) }
func (printAdapter) Move(handle, before render.Handle)   { fmt.Println("move", handle) }

type app struct {
	core.StatelessBase
}

func (app) Build(ctx core.BuildContext) core.Widget {
	return core.Stateful(
		func() int { return 0 },
		func(count int, ctx core.BuildContext, setState func(func(int) int)) core.Widget {
			return label{text: fmt.Sprintf("count: %d", count)}
		},
	)
}

type label struct {
	core.RenderBase
	text string
}

func (w label) CreateHandle(ctx core.BuildContext) render.Handle     { return w.text }
func (w label) UpdateHandle(ctx core.BuildContext, h render.Handle)  {}

func main() {
	l := loop.New()
	owner := core.NewBuildOwner(printAdapter{}, l)

	l.Post(func() {
		owner.MountRoot(app{})
		l.Stop()
	})
	l.Run()
}
`

type fileSpec struct {
	name     string
	template string
}

var projectFiles = []fileSpec{
	{"go.mod", goModTemplate},
	{"weft.yaml", weftYamlTemplate},
	{"main.go", mainTemplate},
}

// CreateProject writes the starter project into dir. The directory must not
// already contain a go.mod.
func CreateProject(dir string, settings Settings) error {
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		return fmt.Errorf("%s already contains a go.mod", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	for _, f := range projectFiles {
		if err := writeTemplate(filepath.Join(dir, f.name), f.template, settings); err != nil {
			return err
		}
	}
	return nil
}

func writeTemplate(path, text string, settings Settings) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template for %s: %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()
	if err := tmpl.Execute(out, settings); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
