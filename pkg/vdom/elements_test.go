package vdom

import "testing"

func TestElementArguments(t *testing.T) {
	child := Span("inner")
	node := Div(
		ID("main"),
		[]Attr{Class("card"), {}},
		Key("k1"),
		nil,
		"text",
		child,
		[]*VNode{P(), nil},
	)

	if node.Tag != "div" {
		t.Errorf("Expected div, got %s", node.Tag)
	}
	if node.Props["id"] != "main" {
		t.Errorf("Expected id=main, got %v", node.Props["id"])
	}
	if node.Props["class"] != "card" {
		t.Errorf("Expected class=card, got %v", node.Props["class"])
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key must not be stored as a prop")
	}
	if node.Key != "k1" {
		t.Errorf("Expected key k1, got %q", node.Key)
	}
	if len(node.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "text" {
		t.Errorf("Expected text child, got %+v", node.Children[0])
	}
	if node.Children[1] != child {
		t.Error("Expected span child to be kept by pointer")
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") {
		t.Error("br should be void")
	}
	if IsVoidElement("div") {
		t.Error("div should not be void")
	}
}
