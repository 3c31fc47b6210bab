package connect

import (
	"github.com/vango-dev/connect/internal/errors"
)

var (
	// ErrStoreNotFound is returned when neither a "store" prop nor an
	// enclosing Provider supplies a store.
	ErrStoreNotFound = errors.New("E101")

	// ErrInvalidProps is returned when a mapper or merge function returns
	// nil props.
	ErrInvalidProps = errors.New("E104")

	// ErrRefDisabled is returned by Instance.WrappedInstance on connectors
	// created without WithRef.
	ErrRefDisabled = errors.New("E105")
)

const (
	providerExample = `root := vdom.Create(provider.Provider, vdom.Props{"store": s},
    vdom.Create(counter, nil))`

	withRefExample = `conn := connect.Connect(mapState, nil, nil, connect.WithRef())`
)

// callSite is where Connect was called; errors point there.
type callSite struct {
	file string
	line int
}

func (c callSite) attach(err *errors.Error) *errors.Error {
	if c.file == "" {
		return err
	}
	return err.WithLocation(c.file, c.line, 0)
}
