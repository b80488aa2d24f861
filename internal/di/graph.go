package di

import (
	"github.com/xraph/inject/internal/errors"
	"github.com/xraph/inject/internal/logger"
)

// DependencyGraph orders keys by their eager dependencies.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // Preserve registration order
}

type node struct {
	name         string
	label        string
	dependencies []string
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with its dependencies. label is used in cycle errors
// and defaults to name.
// Nodes are processed in the order they are added (FIFO) when no dependencies exist.
func (g *DependencyGraph) AddNode(name, label string, dependencies []string) {
	if label == "" {
		label = name
	}
	if _, ok := g.nodes[name]; !ok {
		g.order = append(g.order, name)
	}
	g.nodes[name] = &node{
		name:         name,
		label:        label,
		dependencies: dependencies,
	}
}

// TopologicalSort returns nodes in dependency order.
// Nodes without dependencies maintain their registration order (FIFO).
// Returns a CYCLIC_DEPENDENCY error naming the cycle when one is found.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	var stack []string
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, visited, &stack, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS traversal. stack holds the nodes currently being visited.
func (g *DependencyGraph) visit(name string, visited map[string]bool, stack, result *[]string) error {
	if visited[name] {
		return nil
	}

	for i, onStack := range *stack {
		if onStack == name {
			cycle := make([]string, 0, len(*stack)-i+1)
			for _, n := range (*stack)[i:] {
				cycle = append(cycle, g.nodes[n].label)
			}
			cycle = append(cycle, g.nodes[name].label)
			return errors.ErrCyclicDependency(cycle)
		}
	}

	node := g.nodes[name]
	if node == nil {
		// Not in graph: absent dependencies are reported separately.
		return nil
	}

	*stack = append(*stack, name)
	for _, dep := range node.dependencies {
		if err := g.visit(dep, visited, stack, result); err != nil {
			return err
		}
	}
	*stack = (*stack)[:len(*stack)-1]

	visited[name] = true
	*result = append(*result, name)

	return nil
}

// edge is a key referenced by a dependency tree.
type edge struct {
	key *keyInfo
	// eager edges are resolved while the owning binding is produced.
	eager bool
	// optional edges tolerate an absent binding.
	optional bool
}

// collectEdges walks tree and reports every key it references.
func collectEdges(tree any, eager, optional bool, out *[]edge) {
	switch d := tree.(type) {
	case nil:
	case Keyed:
		if ki := d.info(); ki != nil && ki != ContainerKey.ki {
			*out = append(*out, edge{key: ki, eager: eager, optional: optional})
		}
	case *LazyKey:
		collectEdges(d.inner, false, optional, out)
	case *ProviderKey:
		collectEdges(d.inner, false, optional, out)
	case *OptionalKey:
		collectEdges(d.inner, eager, true, out)
	case *BuildKey:
		collectEdges(d.inner, eager, optional, out)
	case *AsyncKey:
		collectEdges(d.inner, eager, optional, out)
	case []any:
		for _, v := range d {
			collectEdges(v, eager, optional, out)
		}
	case map[string]any:
		for _, v := range d {
			collectEdges(v, eager, optional, out)
		}
	default:
		if seq, m, ok := normalize(tree); ok {
			if seq != nil {
				collectEdges(seq, eager, optional, out)
			} else {
				collectEdges(m, eager, optional, out)
			}
		}
	}
}

// Validate statically checks every binding visible from c, plus the defaults
// of keys they reference: non-optional dependencies must have a binding and
// eager dependencies must not form a cycle. Edges through Lazy and Provider
// do not count toward cycles.
func (c *Container) Validate() error {
	var roots []*keyInfo
	seen := make(map[*keyInfo]bool)
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for ki := range cur.bindings {
			if !seen[ki] {
				seen[ki] = true
				roots = append(roots, ki)
			}
		}
		cur.mu.RUnlock()
	}

	g := NewDependencyGraph()
	var errs []error
	missing := make(map[*keyInfo]bool)
	queue := roots
	for len(queue) > 0 {
		ki := queue[0]
		queue = queue[1:]

		b, _ := c.lookup(ki)
		if b == nil {
			continue
		}
		var edges []edge
		collectEdges(b.deps, true, false, &edges)

		var deps []string
		for _, e := range edges {
			dep, _ := c.lookup(e.key)
			if dep == nil {
				if !e.optional && !missing[e.key] {
					missing[e.key] = true
					errs = append(errs, errors.ErrMissingBinding([]string{ki.String(), e.key.String()}))
				}
				continue
			}
			if e.eager {
				deps = append(deps, e.key.id.String())
			}
			if !seen[e.key] {
				seen[e.key] = true
				queue = append(queue, e.key)
			}
		}
		g.AddNode(ki.id.String(), ki.String(), deps)
	}

	if _, err := g.TopologicalSort(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		c.obs.log.Warn("validation failed", logger.String("container", c.name), logger.Int("errors", len(errs)))
	}
	return errors.Join(errs...)
}
