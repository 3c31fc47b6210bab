package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Element creates an element node with the given tag.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string.
func Element(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	v.Props[a.Key] = a.Value
}

// Create creates a component element. The props map is used as given;
// children are delivered to the instance under ChildrenKey.
func Create(c Component, props Props, children ...*VNode) *VNode {
	if props == nil {
		props = Props{}
	}
	node := &VNode{
		Kind:  KindComponent,
		Type:  c,
		Props: props,
	}
	for _, child := range children {
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	if k, ok := props["key"].(string); ok {
		node.Key = k
	}
	return node
}

// WithRef returns a copy of a component element with ref attached.
func WithRef(node *VNode, ref *Ref) *VNode {
	if node == nil {
		return nil
	}
	cp := *node
	cp.Ref = ref
	return &cp
}

func Div(args ...any) *VNode    { return createElement("div", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func P(args ...any) *VNode      { return createElement("p", args) }
func H1(args ...any) *VNode     { return createElement("h1", args) }
func H2(args ...any) *VNode     { return createElement("h2", args) }
func Ul(args ...any) *VNode     { return createElement("ul", args) }
func Li(args ...any) *VNode     { return createElement("li", args) }
func Button(args ...any) *VNode { return createElement("button", args) }
func Pre(args ...any) *VNode    { return createElement("pre", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }
