package vtest_test

import (
	"context"
	"testing"

	"github.com/vango-dev/connect/pkg/provider"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/vdom"
	"github.com/vango-dev/connect/pkg/vtest"
)

func label(props vdom.Props) *vdom.VNode {
	text, _ := props["text"].(string)
	return vdom.P(vdom.Class("label"), text)
}

func TestRecorder_RecordsRenders(t *testing.T) {
	rec := vtest.NewRecorder("Label", label)
	props := vdom.Props{"text": "hello"}
	elem := vdom.Create(rec, props)

	tree := vtest.NewTree().Mount(t, elem)

	if rec.Renders() != 1 {
		t.Fatalf("expected 1 render, got %d", rec.Renders())
	}
	vtest.ExpectContains(t, tree.Node(), "hello")
	vtest.ExpectAttribute(t, tree.Node(), "class", "label")

	// Same element: the host bails out.
	if err := tree.Update(elem); err != nil {
		t.Fatal(err)
	}
	if rec.Renders() != 1 {
		t.Errorf("expected bailout, got %d renders", rec.Renders())
	}

	if err := tree.Update(vdom.Create(rec, vdom.Props{"text": "bye"})); err != nil {
		t.Fatal(err)
	}
	if rec.Renders() != 2 {
		t.Errorf("expected 2 renders, got %d", rec.Renders())
	}
	if rec.LastProps()["text"] != "bye" {
		t.Errorf("unexpected last props %v", rec.LastProps())
	}
	vtest.ExpectNotContains(t, tree.Node(), "hello")
	if got := len(rec.History()); got != 2 {
		t.Errorf("expected 2 history entries, got %d", got)
	}
}

func TestRecorder_Invalidate(t *testing.T) {
	rec := vtest.NewRecorder("Label", nil)
	vtest.NewTree().Mount(t, vdom.Create(rec, nil))

	rec.Instance().Invalidate()
	if rec.Renders() != 2 {
		t.Errorf("expected 2 renders, got %d", rec.Renders())
	}

	rec.Reset()
	if rec.Renders() != 0 || rec.LastProps() != nil {
		t.Error("expected Reset to clear history")
	}
}

func TestTreeBuilder_WithStore(t *testing.T) {
	s := store.New(func(state any, action store.Action) any { return state }, 7)
	rec := vtest.NewRecorder("Probe", nil)

	vtest.NewTree().WithStore(s).Mount(t, vdom.Create(rec, nil))

	got, ok := provider.StoreFromContext(rec.Instance().Context())
	if !ok || got != store.Store(s) {
		t.Fatal("expected the store in the instance context")
	}
}

type ctxKey struct{}

func TestTreeBuilder_WithContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	rec := vtest.NewRecorder("Probe", nil)

	vtest.NewTree().WithContext(ctx).Mount(t, vdom.Create(rec, nil))

	if rec.Instance().Context().Value(ctxKey{}) != "v" {
		t.Error("expected context value to reach the instance")
	}
}

func TestTryMount_Error(t *testing.T) {
	// A Provider without a store fails to mount.
	_, err := vtest.NewTree().TryMount(vdom.Create(provider.Provider, nil, vdom.Span()))
	if err == nil {
		t.Fatal("expected mount error")
	}
}
