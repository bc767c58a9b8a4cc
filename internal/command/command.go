// Package command implements every document mutation as a reversible Command
// and the History stack that applies them.
//
// Commands fall into a few families that share their undo strategy:
// parametric transforms undo with the algebraic inverse, value overwrites
// write back captured values, and structural edits capture the faces or
// objects they replace and restore them by index.
package command

import (
	"slices"

	"github.com/Faultbox/tileforge/internal/document"
)

// Command is one reversible edit. Apply and Undo alternate: Apply, Undo,
// Apply, ... always starting from the state the command was built against.
type Command interface {
	Apply(scene *document.Scene)
	Undo(scene *document.Scene)
	Description() string
}

// batch applies several commands as one history entry.
type batch struct {
	desc string
	cmds []Command
}

// Batch groups cmds into one entry that applies them in order and undoes them
// in reverse. Nil commands are dropped; Batch returns nil when none remain.
func Batch(desc string, cmds ...Command) Command {
	cmds = slices.DeleteFunc(slices.Clone(cmds), func(c Command) bool { return c == nil })
	if len(cmds) == 0 {
		return nil
	}
	return &batch{desc: desc, cmds: cmds}
}

func (b *batch) Apply(scene *document.Scene) {
	for _, c := range b.cmds {
		c.Apply(scene)
	}
}

func (b *batch) Undo(scene *document.Scene) {
	for i := len(b.cmds) - 1; i >= 0; i-- {
		b.cmds[i].Undo(scene)
	}
}

func (b *batch) Description() string { return b.desc }

// uniqueElements returns refs without duplicates, sorted by address.
func uniqueElements(refs []document.ElementRef) []document.ElementRef {
	out := slices.Clone(refs)
	slices.SortFunc(out, document.CompareElements)
	return slices.Compact(out)
}

// uniqueFaces returns refs without duplicates, sorted by address.
func uniqueFaces(refs []document.FaceRef) []document.FaceRef {
	out := slices.Clone(refs)
	slices.SortFunc(out, document.CompareFaces)
	return slices.Compact(out)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
