package menu

// Item is one row of the current level as the renderer sees it.
type Item struct {
	Label string
	Kind  Kind
	// Value is the cached field value (see Node.Value); nil for labels,
	// levels, actions and unavailable fields.
	Value       interface{}
	Unavailable bool
}

// EditView describes the active edit session.
type EditView struct {
	Label   string
	Kind    Kind
	Working interface{}
	// Octet is the active octet of an IP edit.
	Octet int
}

// View is a snapshot of everything a display needs to draw the menu.
type View struct {
	Title   string
	Path    []string
	Items   []Item
	Cursor  int
	Editing *EditView
	// Message is the error from the last input, if any.
	Message string
}

// Renderer draws views. The engine calls it after every input that changed
// the view and once more when the menu exits.
type Renderer interface {
	Render(View)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(View)

// Render calls f(v).
func (f RenderFunc) Render(v View) {
	f(v)
}

func itemFor(n *Node) Item {
	return Item{
		Label:       n.Label,
		Kind:        n.Kind,
		Value:       n.Value(),
		Unavailable: n.Unavailable(),
	}
}
