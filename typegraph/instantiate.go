// Package typegraph: instantiation.
//
// Instantiate materializes a concrete instance tree from a declared type:
// create the node, attach its type link, recurse into every effective
// field (own declaration order, then inherited nearest-first), then
// resolve the dependent links against the fresh subtree. The walker keeps
// a journal of everything it created, so any failure unwinds to exactly
// the pre-call state, and a visiting set of the types on its stack, so a
// self-composing type fails fast instead of recursing forever.

package typegraph

import (
	"fmt"

	"github.com/netlith/netlith/core"
)

// Binding exposes the freshly materialized instance.
type Binding struct {
	// Root is the instance root node in the target graph.
	Root core.NodeID

	g *core.Graph
}

// Graph returns the graph holding the instance.
func (b *Binding) Graph() *core.Graph { return b.g }

// Child returns the named direct child of the root.
func (b *Binding) Child(name string) (core.NodeID, bool) {
	return b.g.ChildByName(b.Root, name)
}

// At resolves a relative path from the root.
// Returns ErrUnresolvedPath when a step names a missing child.
func (b *Binding) At(p Path) (core.NodeID, error) {
	return resolvePath(b.g, b.Root, p)
}

// Instantiate materializes an instance of t in target and returns a
// binding on its root. attrs are stamped onto the root node (literal
// overrides). target may be another store than the type store: the type
// nodes an instance links to are spliced over first, identity preserved.
//
// Two instantiations of one type yield structurally isomorphic trees with
// disjoint node identities. On any failure (ErrUnresolvedPath,
// ErrTypeCycle, a trait rejection) every node created by this call is
// removed again.
// Complexity: O(instance nodes + links).
func (tg *TypeGraph) Instantiate(t *TypeNode, target *core.Graph, attrs map[string]any) (*Binding, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if target == nil {
		target = tg.g
	}
	w := &instantiator{
		tg:       tg,
		target:   target,
		visiting: make(map[core.NodeID]bool),
		spliced:  make(map[core.NodeID]bool),
	}
	root, err := w.instantiate(t, attrs)
	if err != nil {
		w.rollback()

		return nil, err
	}

	return &Binding{Root: root, g: target}, nil
}

// instantiator is the recursive walker for one Instantiate call.
type instantiator struct {
	tg     *TypeGraph
	target *core.Graph

	// visiting holds the types on the current recursion stack (gray set);
	// revisiting one means a composition cycle in the declarations.
	visiting map[core.NodeID]bool

	// journal records created instance nodes in creation order; rollback
	// removes them in reverse, leaves first.
	journal []core.NodeID

	// spliced caches which type nodes were already copied into the target.
	spliced map[core.NodeID]bool
}

func (w *instantiator) instantiate(t *TypeNode, attrs map[string]any) (core.NodeID, error) {
	// 1) Cycle guard: a type on its own composition stack never terminates.
	if w.visiting[t.id] {
		return "", fmt.Errorf("%w: %q composes itself", ErrTypeCycle, t.name)
	}
	w.visiting[t.id] = true
	defer delete(w.visiting, t.id)

	// 2) The instance's type link needs the type node present in the target.
	if err := w.ensureType(t); err != nil {
		return "", err
	}

	// 3) Create the instance node with its literal attribute overrides.
	node := w.target.CreateNode(core.WithNodeAttrs(attrs))
	w.journal = append(w.journal, node)
	if _, err := w.target.AddEdge(core.ImplementsType, node, t.id); err != nil {
		return "", err
	}

	// 4) Materialize every effective field: own declaration order first,
	//    then inherited nearest-first, shadowed names skipped.
	fields := t.EffectiveFields()
	for _, f := range fields {
		child, err := w.instantiate(f.Type(), f.Defaults())
		if err != nil {
			return "", err
		}
		if _, err := w.target.AddEdge(core.Composition, node, child, core.WithName(f.name)); err != nil {
			return "", err
		}
		if f.IsTrait() {
			// The capability is announced under the trait's type name and
			// deduplicated by its declared policy.
			traitName := f.Type().Name()
			w.target.SetTraitPolicy(traitName, f.Policy())
			if _, err := w.target.AddEdge(core.Trait, node, child, core.WithName(traitName)); err != nil {
				return "", err
			}
		}
	}

	// 5) With the whole subtree in place, resolve the dependent links.
	for _, f := range fields {
		if err := w.resolveLinks(node, t, f); err != nil {
			return "", err
		}
	}

	return node, nil
}

// resolveLinks re-resolves one field's dependent rules against the
// instance subtree rooted at owner and creates the declared edges.
func (w *instantiator) resolveLinks(owner core.NodeID, t *TypeNode, f *FieldRule) error {
	for _, link := range f.Links() {
		from, err := resolvePath(w.target, owner, link.From)
		if err != nil {
			return fmt.Errorf("%w (field %q of %q)", err, f.name, t.name)
		}
		to, err := resolvePath(w.target, owner, link.To)
		if err != nil {
			return fmt.Errorf("%w (field %q of %q)", err, f.name, t.name)
		}

		opts := make([]core.EdgeOption, 0, 4)
		if link.Name != "" {
			opts = append(opts, core.WithName(link.Name))
		}
		if len(link.Attrs) > 0 {
			opts = append(opts, core.WithEdgeAttrs(link.Attrs))
		}
		if link.Shallow {
			opts = append(opts, core.WithShallow())
		}
		if link.Pending {
			opts = append(opts, core.WithPending())
		}
		if _, err := w.target.AddEdge(link.Kind, from, to, opts...); err != nil {
			return fmt.Errorf("typegraph: link %s->%s of field %q: %w", link.From, link.To, f.name, err)
		}
	}

	return nil
}

// ensureType splices the type node (and its supertype chain) into the
// target store, identity preserved. A no-op when instantiating into the
// type store itself or when already spliced.
func (w *instantiator) ensureType(t *TypeNode) error {
	if w.target == w.tg.g || w.spliced[t.id] {
		return nil
	}
	var chain []core.NodeID
	for cur, ok := t, true; ok; cur, ok = cur.Super() {
		chain = append(chain, cur.id)
		w.spliced[cur.id] = true
	}
	view, err := core.InducedView(w.tg.g, chain)
	if err != nil {
		return err
	}

	return w.target.Merge(view)
}

// rollback removes every journaled node, newest first, detaching their
// edges; the target graph returns to its pre-call state (spliced type
// nodes stay, they are shared and harmless).
func (w *instantiator) rollback() {
	for i := len(w.journal) - 1; i >= 0; i-- {
		_ = w.target.RemoveNode(w.journal[i])
	}
}

// resolvePath walks a relative path from base over composition children.
// Returns ErrUnresolvedPath naming the failing step.
func resolvePath(g *core.Graph, base core.NodeID, p Path) (core.NodeID, error) {
	cur := base
	for _, step := range p {
		if step.Indexed {
			children := g.ChildrenOf(cur)
			if step.Index < 0 || step.Index >= len(children) {
				return "", fmt.Errorf("%w: index %d of %d children (path %s)",
					ErrUnresolvedPath, step.Index, len(children), p)
			}
			cur = children[step.Index].To
			continue
		}
		next, ok := g.ChildByName(cur, step.Name)
		if !ok {
			return "", fmt.Errorf("%w: no child %q (path %s)", ErrUnresolvedPath, step.Name, p)
		}
		cur = next
	}

	return cur, nil
}

// Specialize narrows an instance in place to a subtype of its current
// type: the type link is swapped and the subtype's additional fields are
// materialized and linked. Children whose names the instance already has
// are kept as built. Specializing to the instance's current type is a
// no-op.
//
// Returns ErrNotSubtype when sub is not in the instance's subtype chain,
// core.ErrNodeNotFound for an unknown instance, and the usual
// instantiation failures (rolled back, original instance intact).
// Complexity: O(new fields' subtrees).
func (tg *TypeGraph) Specialize(target *core.Graph, instance core.NodeID, sub *TypeNode) error {
	if sub == nil {
		return ErrNilType
	}
	if target == nil {
		target = tg.g
	}
	if !target.HasNode(instance) {
		return fmt.Errorf("%w: %s", core.ErrNodeNotFound, instance)
	}
	curID, ok := target.TypeOf(instance)
	if !ok {
		return fmt.Errorf("%w: instance %s has no type", ErrNotSubtype, instance)
	}
	if curID == sub.id {
		return nil
	}
	curName, _ := tg.g.Attr(curID, attrName)
	cur := &TypeNode{tg: tg, id: curID, name: fmt.Sprint(curName)}
	if !sub.IsSubtypeOf(cur) {
		return fmt.Errorf("%w: %q does not extend %q", ErrNotSubtype, sub.name, cur.name)
	}

	w := &instantiator{
		tg:       tg,
		target:   target,
		visiting: map[core.NodeID]bool{sub.id: true}, // the subtree may not re-compose sub
		spliced:  make(map[core.NodeID]bool),
	}
	if err := w.ensureType(sub); err != nil {
		return err
	}

	// 1) Materialize the fields the current type did not provide.
	existing := make(map[string]bool)
	for _, e := range target.ChildrenOf(instance) {
		existing[e.Name] = true
	}
	var fresh []*FieldRule
	for _, f := range sub.EffectiveFields() {
		if existing[f.name] {
			continue
		}
		child, err := w.instantiate(f.Type(), f.Defaults())
		if err != nil {
			w.rollback()

			return err
		}
		if _, err := target.AddEdge(core.Composition, instance, child, core.WithName(f.name)); err != nil {
			w.rollback()

			return err
		}
		if f.IsTrait() {
			traitName := f.Type().Name()
			target.SetTraitPolicy(traitName, f.Policy())
			if _, err := target.AddEdge(core.Trait, instance, child, core.WithName(traitName)); err != nil {
				w.rollback()

				return err
			}
		}
		fresh = append(fresh, f)
	}
	// 2) Resolve the new fields' links against the widened instance.
	for _, f := range fresh {
		if err := w.resolveLinks(instance, sub, f); err != nil {
			w.rollback()

			return err
		}
	}

	// 3) Commit: swap the type link last, after everything that can fail.
	var oldLink core.EdgeID
	for e := range target.EdgesOf(instance, core.ImplementsType, core.Outgoing) {
		oldLink = e.ID
		break
	}
	if err := target.RemoveEdge(oldLink); err != nil {
		w.rollback()

		return err
	}
	if _, err := target.AddEdge(core.ImplementsType, instance, sub.id); err != nil {
		w.rollback()

		return err
	}

	return nil
}
