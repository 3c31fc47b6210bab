package connect

import (
	"github.com/vango-dev/connect/internal/shallow"
	"github.com/vango-dev/connect/pkg/vdom"
)

// pipeline memoizes one derived props group for an instance.
type pipeline[A any] struct {
	name   string
	source *Mapper[A]
	final  *Mapper[A]
	props  vdom.Props
}

// compute runs the final mapper, resolving it on first use.
func (p *pipeline[A]) compute(arg A, own vdom.Props, fail func(name string) error) (vdom.Props, error) {
	if p.final == nil {
		return p.configure(arg, own, fail)
	}
	if p.final.factory != nil {
		return nil, fail(p.name)
	}
	return p.check(p.final.call(arg, own), fail)
}

func (p *pipeline[A]) configure(arg A, own vdom.Props, fail func(name string) error) (vdom.Props, error) {
	if p.source.factory == nil {
		p.final = p.source
		return p.check(p.source.fn(arg, own), fail)
	}

	m := p.source.factory(arg, own)
	if m == nil {
		return nil, fail(p.name)
	}
	p.final = m
	return p.compute(arg, own, fail)
}

func (p *pipeline[A]) check(props vdom.Props, fail func(name string) error) (vdom.Props, error) {
	if props == nil {
		return nil, fail(p.name)
	}
	return props, nil
}

// update recomputes the group and reports whether it changed. A result
// shallow-equal to the cached group keeps the cached reference.
func (p *pipeline[A]) update(arg A, own vdom.Props, fail func(name string) error) (bool, error) {
	next, err := p.compute(arg, own, fail)
	if err != nil {
		return false, err
	}
	if p.props != nil && shallow.Equal(next, p.props) {
		return false, nil
	}
	p.props = next
	return true, nil
}

func (p *pipeline[A]) dependsOnOwnProps() bool {
	return p.final != nil && p.final.usesOwn
}

func (p *pipeline[A]) reset(source *Mapper[A]) {
	p.source = source
	p.final = nil
	p.props = nil
}
