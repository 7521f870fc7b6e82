package screening

import (
	"context"
	"errors"
	"fmt"
)

const defaultStepLimit = 64

// ErrStepLimit is returned when a run visits more stages than the graph allows.
var ErrStepLimit = errors.New("workflow step limit exceeded")

// StageFunc computes a partial update from the current state.
type StageFunc func(ctx context.Context, s State) (Update, error)

// StepObserver is called after every stage with the stage that ran and the
// stage selected next.
type StepObserver func(stage, next string, s State)

// StageError wraps a failure returned by a stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type branch struct {
	route   Router
	targets map[string]string
}

// GraphBuilder assembles a Graph. Errors are collected and reported by Compile.
type GraphBuilder struct {
	nodes     map[string]StageFunc
	edges     map[string]string
	branches  map[string]branch
	entry     string
	stepLimit int
	errs      []error
}

// NewGraphBuilder returns an empty builder with the default step limit.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		nodes:     make(map[string]StageFunc),
		edges:     make(map[string]string),
		branches:  make(map[string]branch),
		stepLimit: defaultStepLimit,
	}
}

// AddNode registers a stage under name.
func (b *GraphBuilder) AddNode(name string, fn StageFunc) *GraphBuilder {
	switch {
	case name == "" || name == End:
		b.errs = append(b.errs, fmt.Errorf("invalid node name %q", name))
	case fn == nil:
		b.errs = append(b.errs, fmt.Errorf("node %s has no stage function", name))
	case b.nodes[name] != nil:
		b.errs = append(b.errs, fmt.Errorf("node %s already added", name))
	default:
		b.nodes[name] = fn
	}
	return b
}

// SetEntryPoint names the first stage of a run.
func (b *GraphBuilder) SetEntryPoint(name string) *GraphBuilder {
	b.entry = name
	return b
}

// SetStepLimit bounds the number of stage executions in one run.
func (b *GraphBuilder) SetStepLimit(n int) *GraphBuilder {
	if n > 0 {
		b.stepLimit = n
	}
	return b
}

// AddEdge adds an unconditional transition.
func (b *GraphBuilder) AddEdge(from, to string) *GraphBuilder {
	if b.hasOutgoing(from) {
		b.errs = append(b.errs, fmt.Errorf("node %s already has an outgoing edge", from))
		return b
	}
	b.edges[from] = to
	return b
}

// AddConditionalEdges routes from a node through route. targets maps every
// value route may return onto a node name or End.
func (b *GraphBuilder) AddConditionalEdges(from string, route Router, targets map[string]string) *GraphBuilder {
	if b.hasOutgoing(from) {
		b.errs = append(b.errs, fmt.Errorf("node %s already has an outgoing edge", from))
		return b
	}
	if route == nil {
		b.errs = append(b.errs, fmt.Errorf("node %s has a nil router", from))
		return b
	}
	b.branches[from] = branch{route: route, targets: targets}
	return b
}

func (b *GraphBuilder) hasOutgoing(name string) bool {
	_, hasEdge := b.edges[name]
	_, hasBranch := b.branches[name]
	return hasEdge || hasBranch
}

// Compile validates the topology and freezes it into a Graph.
func (b *GraphBuilder) Compile() (*Graph, error) {
	errs := append([]error(nil), b.errs...)

	if _, ok := b.nodes[b.entry]; !ok {
		errs = append(errs, fmt.Errorf("entry point %q is not a node", b.entry))
	}

	known := func(name string) bool {
		_, ok := b.nodes[name]
		return ok || name == End
	}

	for name := range b.nodes {
		if !b.hasOutgoing(name) {
			errs = append(errs, fmt.Errorf("node %s has no outgoing edge", name))
		}
	}
	for from, to := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("edge from unknown node %s", from))
		}
		if !known(to) {
			errs = append(errs, fmt.Errorf("edge %s -> unknown node %s", from, to))
		}
	}
	for from, br := range b.branches {
		if _, ok := b.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("conditional edge from unknown node %s", from))
		}
		if len(br.targets) == 0 {
			errs = append(errs, fmt.Errorf("conditional edge from %s has no targets", from))
		}
		for key, to := range br.targets {
			if !known(to) {
				errs = append(errs, fmt.Errorf("conditional edge %s[%s] -> unknown node %s", from, key, to))
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("compile graph: %w", errors.Join(errs...))
	}

	g := &Graph{
		nodes:     make(map[string]StageFunc, len(b.nodes)),
		edges:     make(map[string]string, len(b.edges)),
		branches:  make(map[string]branch, len(b.branches)),
		entry:     b.entry,
		stepLimit: b.stepLimit,
	}
	for k, v := range b.nodes {
		g.nodes[k] = v
	}
	for k, v := range b.edges {
		g.edges[k] = v
	}
	for k, v := range b.branches {
		targets := make(map[string]string, len(v.targets))
		for tk, tv := range v.targets {
			targets[tk] = tv
		}
		g.branches[k] = branch{route: v.route, targets: targets}
	}
	return g, nil
}

// Graph is a compiled, immutable stage graph. It is safe for concurrent use;
// every Run works on its own copy of the state.
type Graph struct {
	nodes     map[string]StageFunc
	edges     map[string]string
	branches  map[string]branch
	entry     string
	stepLimit int
}

// Run executes stages from the entry point until a router returns End.
// On failure the state reached so far is returned with the error.
func (g *Graph) Run(ctx context.Context, initial State, observe StepObserver) (State, error) {
	state := initial.clone()
	current := g.entry

	for steps := 0; current != End; steps++ {
		if steps >= g.stepLimit {
			return state, fmt.Errorf("%w after %d steps at %s", ErrStepLimit, steps, current)
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		update, err := g.nodes[current](ctx, state)
		if err != nil {
			return state, &StageError{Stage: current, Err: err}
		}
		state.Path = append(state.Path, current)
		state.Merge(update)

		next, err := g.next(current, state)
		if err != nil {
			return state, err
		}
		if observe != nil {
			observe(current, next, state)
		}
		current = next
	}

	return state, nil
}

func (g *Graph) next(current string, s State) (string, error) {
	if to, ok := g.edges[current]; ok {
		return to, nil
	}
	br := g.branches[current]
	key := br.route(s)
	to, ok := br.targets[key]
	if !ok {
		return "", fmt.Errorf("router of %s returned unmapped target %q", current, key)
	}
	return to, nil
}
