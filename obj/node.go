package obj

import "github.com/hajimehoshi/ebiten/v2"

// Node is a drawable member of the display tree.
type Node interface {
	Name() string
	Update()
	Draw(screen *ebiten.Image, camX, camY, zoom float64)
}

// Group is a named container of nodes, drawn in insertion order.
type Group struct {
	name     string
	children []Node
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

func (g *Group) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Add appends a child.
func (g *Group) Add(n Node) {
	if g == nil || n == nil {
		return
	}
	g.children = append(g.children, n)
}

// Remove drops the first child equal to n.
func (g *Group) Remove(n Node) {
	if g == nil {
		return
	}
	for i, c := range g.children {
		if c == n {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

// Len returns the number of direct children.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.children)
}

// Child returns the first direct child with the given name, or nil.
func (g *Group) Child(name string) Node {
	if g == nil {
		return nil
	}
	for _, c := range g.children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Update runs all children once.
func (g *Group) Update() {
	if g == nil {
		return
	}
	for _, c := range g.children {
		c.Update()
	}
}

// Draw renders children bottom-up.
func (g *Group) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if g == nil {
		return
	}
	for _, c := range g.children {
		c.Draw(screen, camX, camY, zoom)
	}
}
