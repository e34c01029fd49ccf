package view

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/kakapo-ui/kakapo/internal/errors"
)

// borrowMut marks an exclusive borrow in Cell.state.
const borrowMut = -1

// Cell owns a type-erased application state root and tracks borrows of it.
// Any number of shared borrows may be live at once, or exactly one
// exclusive borrow.
type Cell struct {
	root  ViewModel
	state atomic.Int64
}

// NewCell wraps an application state root.
func NewCell(root ViewModel) *Cell {
	return &Cell{root: root}
}

// ViewRefs returns the root's invalidation signal. It does not borrow.
func (c *Cell) ViewRefs() *ViewRefs {
	return c.root.ViewRefs()
}

// Borrow returns a read-only capsule. It panics with K002 if an exclusive
// borrow is live.
func (c *Cell) Borrow() *UserData {
	for {
		s := c.state.Load()
		if s == borrowMut {
			panic(errors.New("K002").
				WithTypes("no mutable borrow", describeBorrow(s)).
				WithSuggestion("Do not render from inside a delegate"))
		}
		if c.state.CompareAndSwap(s, s+1) {
			return &UserData{cell: c}
		}
	}
}

// BorrowMut returns a mutable capsule. It panics with K002 if any borrow
// is live.
func (c *Cell) BorrowMut() *UserDataMut {
	if !c.state.CompareAndSwap(0, borrowMut) {
		panic(errors.New("K002").
			WithTypes("no live borrow", describeBorrow(c.state.Load())).
			WithSuggestion("Delegates must not trigger other delegates synchronously; raise the ViewRefs instead"))
	}
	return &UserDataMut{cell: c}
}

// BorrowState describes the live borrows, for diagnostics.
func (c *Cell) BorrowState() string {
	return describeBorrow(c.state.Load())
}

func describeBorrow(s int64) string {
	switch {
	case s == borrowMut:
		return "1 mutable borrow"
	case s == 0:
		return "no live borrow"
	case s == 1:
		return "1 shared borrow"
	default:
		return fmt.Sprintf("%d shared borrows", s)
	}
}

// UserData is a transient, read-only capsule around the application state
// root. It is only valid for the duration of the view call that received it.
type UserData struct {
	cell     *Cell
	released atomic.Bool
}

// Value returns the type-erased state root.
func (d *UserData) Value() any {
	if d == nil || d.released.Load() {
		panic(errors.New("K003"))
	}
	return d.cell.root
}

// Release ends the borrow. Calling it more than once is a no-op.
func (d *UserData) Release() {
	if d.released.Swap(true) {
		return
	}
	d.cell.state.Add(-1)
}

// UserDataMut is a transient, mutable capsule around the application state
// root. At most one is live per Cell.
type UserDataMut struct {
	cell     *Cell
	released atomic.Bool
}

// Value returns the type-erased state root.
func (d *UserDataMut) Value() any {
	if d == nil || d.released.Load() {
		panic(errors.New("K003"))
	}
	return d.cell.root
}

// Release ends the borrow. Calling it more than once is a no-op.
func (d *UserDataMut) Release() {
	if d.released.Swap(true) {
		return
	}
	d.cell.state.Store(0)
}

// Downcast returns the state root as T. It panics with K001 if the root is
// not a T.
func Downcast[T any](d *UserData) T {
	return cast[T](d.Value())
}

// DowncastMut returns the state root as T for mutation. It panics with K001
// if the root is not a T.
func DowncastMut[T any](d *UserDataMut) T {
	return cast[T](d.Value())
}

func cast[T any](v any) T {
	t, ok := v.(T)
	if !ok {
		panic(errors.New("K001").
			WithTypes(reflect.TypeFor[T]().String(), fmt.Sprintf("%T", v)).
			WithSuggestion("Register the view or delegate against the state root it expects"))
	}
	return t
}
