package framegraph

import (
	"fmt"

	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/driver"
)

// PassNode is a depgraph.Node representing one pass. renderPassNode and
// presentPassNode are its two concrete variants.
type PassNode interface {
	depgraph.Node
	execute(r *Resources, d driver.Driver) error
	renderTargets() []*renderTargetDecl
	isPresent() bool
}

// renderPassNode carries a user-supplied execute callback and any
// render-target declarations made against it during setup.
type renderPassNode struct {
	depgraph.Base

	name    string
	exec    func(r *Resources, d driver.Driver) error
	targets []*renderTargetDecl
}

func (p *renderPassNode) Name() string { return p.name }

func (p *renderPassNode) Graphvizify() string {
	color := "darkorange"
	if p.IsCulled() {
		color = "darkorange4"
	}
	return fmt.Sprintf(`[label="%s" style=filled fontcolor=white fillcolor=%s]`, p.name, color)
}

func (p *renderPassNode) execute(r *Resources, d driver.Driver) error {
	if p.exec == nil {
		return nil
	}
	return p.exec(r, d)
}

func (p *renderPassNode) renderTargets() []*renderTargetDecl { return p.targets }
func (p *renderPassNode) isPresent() bool                    { return false }

// presentPassNode is a sink with no client execute body, used to anchor
// present() requests as graph targets.
type presentPassNode struct {
	depgraph.Base
	name string
}

func (p *presentPassNode) Name() string { return p.name }

func (p *presentPassNode) Graphvizify() string {
	return fmt.Sprintf(`[label="%s" style=filled fontcolor=white fillcolor=red3]`, p.name)
}

func (p *presentPassNode) execute(*Resources, driver.Driver) error { return nil }
func (p *presentPassNode) renderTargets() []*renderTargetDecl      { return nil }
func (p *presentPassNode) isPresent() bool                         { return true }
