package menu

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/logging"
)

// Engine runs a menu tree: it owns the navigation stack and at most one edit
// session, and routes every input to one of them.
//
// An Engine is driven from a single goroutine and is not safe for
// concurrent use.
type Engine struct {
	root     *Node
	binding  Binding
	renderer Renderer

	stack   *Stack
	session *EditSession

	message string
	err     error
}

// New creates an engine positioned on the first entry of root.
// renderer may be nil.
func New(root *Node, binding Binding, renderer Renderer) (*Engine, error) {
	if root == nil || root.Kind != KindLevel {
		return nil, NewSchemaError("", "menu root must be a level")
	}
	if binding == nil {
		return nil, fmt.Errorf("menu binding is required")
	}
	return &Engine{
		root:     root,
		binding:  binding,
		renderer: renderer,
		stack:    NewStack(root),
	}, nil
}

// Root returns the menu tree.
func (e *Engine) Root() *Node {
	return e.root
}

// Stack returns the navigation stack.
func (e *Engine) Stack() *Stack {
	return e.stack
}

// Session returns the active edit session, or nil while browsing.
func (e *Engine) Session() *EditSession {
	return e.session
}

// Editing reports whether an edit session is active.
func (e *Engine) Editing() bool {
	return e.session != nil
}

// Selected returns the node under the cursor, or nil for an empty level.
func (e *Engine) Selected() *Node {
	return e.stack.Selected()
}

// Err returns the error reported by the last dispatched input, if any.
func (e *Engine) Err() error {
	return e.err
}

// Dispatch applies one input and re-renders if the view changed.
func (e *Engine) Dispatch(a Action) Outcome {
	hadMessage := e.message != ""
	e.message = ""
	e.err = nil

	var out Outcome
	if e.session != nil {
		out = e.dispatchEdit(a)
	} else {
		out = e.dispatchNav(a)
	}
	if out == Unchanged && (hadMessage || e.message != "") {
		out = Changed
	}

	logging.LogInput(a.String(), out.String(), e.session != nil)
	if out != Unchanged {
		e.Render()
	}
	return out
}

func (e *Engine) dispatchNav(a Action) Outcome {
	switch a {
	case Up:
		if e.stack.Up() {
			return Changed
		}
	case Down:
		if e.stack.Down() {
			return Changed
		}
	case Left:
		if e.stack.Pop() {
			return Changed
		}
		return Exit
	case Right:
		return e.enter()
	case Fire:
	}
	return Unchanged
}

func (e *Engine) enter() Outcome {
	n := e.stack.Selected()
	if n == nil {
		return Unchanged
	}

	switch n.Kind {
	case KindLabel:
		return Unchanged
	case KindLevel:
		if len(n.Children) == 0 {
			return Unchanged
		}
		e.stack.Push(n)
		return Changed
	case KindAction:
		return e.invoke(n)
	case KindBool:
		return e.toggle(n)
	case KindInt, KindFloat, KindIP, KindList:
		if err := n.load(e.binding); err != nil {
			n.unavailable = err
			e.fail(err)
			return Changed
		}
		e.session = newEditSession(n)
		return Changed
	}
	return Unchanged
}

func (e *Engine) invoke(n *Node) Outcome {
	err := n.Action()
	if errors.Is(err, ErrExit) {
		logging.Debug("Menu action requested exit", zap.String("action", n.Label))
		return Exit
	}
	if err != nil {
		logging.Warn("Menu action failed", zap.String("action", n.Label), zap.Error(err))
		e.fail(NewActionCallbackError(n.Label, err))
		return Changed
	}
	logging.Debug("Menu action completed", zap.String("action", n.Label))
	return Changed
}

// toggle flips a Bool field and commits it straight away; bools have no
// edit session.
func (e *Engine) toggle(n *Node) Outcome {
	if err := n.load(e.binding); err != nil {
		n.unavailable = err
		e.fail(err)
		return Changed
	}

	next := n.boolVal.Toggle()
	err := e.binding.Set(n.Path, bool(next))
	logging.LogCommit(n.Path, bool(next), err)
	if err != nil {
		e.fail(NewCommitError(n.Path, err))
		return Changed
	}
	n.boolVal = next
	return Changed
}

func (e *Engine) dispatchEdit(a Action) Outcome {
	switch e.session.handle(a) {
	case editChanged:
		return Changed
	case editCommit:
		return e.commit()
	case editAbandon:
		logging.Debug("Edit abandoned", zap.String("path", e.session.node.Path))
		e.session = nil
		return Changed
	}
	return Unchanged
}

// commit writes the working value. On failure the session stays open with
// the attempted value so the user can adjust it or abandon.
func (e *Engine) commit() Outcome {
	s := e.session
	value := s.stored()

	err := e.binding.Set(s.node.Path, value)
	logging.LogCommit(s.node.Path, value, err)
	if err != nil {
		e.fail(NewCommitError(s.node.Path, err))
		return Changed
	}

	s.apply()
	e.session = nil
	return Changed
}

func (e *Engine) fail(err error) {
	e.err = err
	e.message = displayMessage(err)
}

// Report shows err as a transient message the way a failed commit is
// shown. The stack and any edit session are left as they are.
func (e *Engine) Report(err error) {
	e.fail(err)
	e.Render()
}

// Refresh re-reads every field from the binding. Fields whose path can no
// longer be read are marked unavailable. An active edit session is
// abandoned since its working value may be stale.
func (e *Engine) Refresh() error {
	e.session = nil

	var errs []error
	e.root.walk(func(n *Node) {
		if !n.Kind.IsField() {
			return
		}
		if err := n.load(e.binding); err != nil {
			n.unavailable = err
			errs = append(errs, err)
		}
	})

	if len(errs) > 0 {
		logging.Warn("Menu fields unavailable after refresh", zap.Int("count", len(errs)))
	}
	e.Render()
	return errors.Join(errs...)
}

// Reload discards unsaved changes in the binding and refreshes every field.
func (e *Engine) Reload() error {
	if err := e.binding.Reload(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return e.Refresh()
}

// Reset returns to the root with no edit session.
func (e *Engine) Reset() {
	e.stack = NewStack(e.root)
	e.session = nil
	e.message = ""
	e.err = nil
}

// Render sends the current view to the renderer.
func (e *Engine) Render() {
	if e.renderer != nil {
		e.renderer.Render(e.View())
	}
}

// View returns a snapshot of the current state.
func (e *Engine) View() View {
	top := e.stack.Top()
	v := View{
		Title:   top.Level.Label,
		Path:    e.stack.Labels(),
		Items:   make([]Item, 0, len(top.Level.Children)),
		Cursor:  top.Cursor,
		Message: e.message,
	}
	for _, c := range top.Level.Children {
		v.Items = append(v.Items, itemFor(c))
	}
	if s := e.session; s != nil {
		v.Editing = &EditView{
			Label:   s.node.Label,
			Kind:    s.node.Kind,
			Working: s.Working(),
			Octet:   s.octet,
		}
	}
	return v
}
