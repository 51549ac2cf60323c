// Package menu renders the node table into the line protocol read by
// menu-bar hosts (xbar, SwiftBar, Argos).
//
// Each output line is "--" repeated once per nesting level, the label, and
// optionally " | " followed by key=value attributes. Renderers build Lines;
// Write turns them into text for one host Flavor.
package menu

// Line is one menu entry.
type Line struct {
	Depth int
	Text  string
	Attrs []Attr
	// Separator renders a divider ("---") at Depth instead of Text.
	Separator bool
}

// Attr is a display attribute. Exactly one of Value or Action is used.
type Attr struct {
	Key    string
	Value  string
	Action *Action
}

// Action describes a command the host runs when the entry is clicked. The
// flavor decides how it is spelled (shell=/paramN= or a single bash=).
type Action struct {
	Command  string
	Args     []string
	Terminal bool
	// Tee, when set, pipes the command's output into this file.
	Tee string
}

// Item returns a labelled line.
func Item(depth int, text string, attrs ...Attr) Line {
	return Line{Depth: depth, Text: text, Attrs: attrs}
}

// Sep returns a divider at depth.
func Sep(depth int) Line {
	return Line{Depth: depth, Separator: true}
}

// Href opens url when the entry is clicked.
func Href(url string) Attr { return Attr{Key: "href", Value: url} }

// Font sets the display font.
func Font(name string) Attr { return Attr{Key: "font", Value: name} }

// Refresh re-runs the plugin when clicked.
func Refresh() Attr { return Attr{Key: "refresh", Value: "true"} }

// TemplateImage sets the menu-bar icon from base64 image data.
func TemplateImage(data string) Attr { return Attr{Key: "templateImage", Value: data} }

// Run attaches an action.
func Run(a Action) Attr { return Attr{Action: &a} }
