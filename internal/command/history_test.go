package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tileforge/internal/document"
)

func steps() []func() Command {
	return []func() Command{
		func() Command { return Translate(corners(face(0, 0, 0)), v3(1, 0, 0)) },
		func() Command { return Extrude([]document.FaceRef{face(0, 0, 1)}, 1) },
		func() Command { return Flip([]document.FaceRef{face(0, 1, 0)}) },
		func() Command { return Place(document.ObjectRef{Layer: 1, Object: 0}, "", flatQuad(5, 5, 6, 6, 0)) },
		func() Command { return Delete([]document.ObjectRef{{Layer: 0, Object: 1}}, nil) },
	}
}

func TestHistoryStackLaws(t *testing.T) {
	scene := fixture()
	initial := scene.Clone()
	h := NewHistory(50)

	for _, step := range steps() {
		h.Push(scene, step())
	}
	final := scene.Clone()
	require.Equal(t, 5, h.UndoLen())

	for range 5 {
		require.True(t, h.Undo(scene))
	}
	assert.False(t, h.Undo(scene))
	assert.True(t, document.Equal(initial, scene))
	assert.Equal(t, 5, h.RedoLen())

	for range 5 {
		require.True(t, h.Redo(scene))
	}
	assert.False(t, h.Redo(scene))
	assert.True(t, document.Equal(final, scene))

	h.Undo(scene)
	h.Undo(scene)
	require.Equal(t, 2, h.RedoLen())
	h.Push(scene, SetHidden([]document.FaceRef{face(0, 0, 0)}, true))
	assert.Zero(t, h.RedoLen())
	assert.Equal(t, 4, h.UndoLen())
}

func TestHistoryDepthCap(t *testing.T) {
	scene := fixture()
	h := NewHistory(3)

	var afterTwo *document.Scene
	for i, step := range steps() {
		h.Push(scene, step())
		if i == 1 {
			afterTwo = scene.Clone()
		}
	}
	assert.Equal(t, 3, h.UndoLen())

	for h.Undo(scene) {
	}
	assert.True(t, document.Equal(afterTwo, scene), "oldest entries were dropped, not undone")
}

func TestHistoryDirty(t *testing.T) {
	scene := fixture()
	h := NewHistory(0)
	assert.Equal(t, DefaultDepth, h.Depth())
	assert.False(t, h.Dirty())

	h.Push(scene, nil)
	assert.False(t, h.Dirty(), "nil push is ignored")
	assert.Zero(t, h.UndoLen())

	h.Push(scene, Flip([]document.FaceRef{face(0, 0, 0)}))
	assert.True(t, h.Dirty())
	h.MarkSaved()
	assert.False(t, h.Dirty())
	h.Undo(scene)
	assert.True(t, h.Dirty())
	h.MarkSaved()
	h.Redo(scene)
	assert.True(t, h.Dirty())
}

func TestHistoryDescriptions(t *testing.T) {
	scene := fixture()
	h := NewHistory(10)
	_, ok := h.NextUndo()
	assert.False(t, ok)

	h.Push(scene, Extrude([]document.FaceRef{face(0, 0, 0)}, 1))
	desc, ok := h.NextUndo()
	assert.True(t, ok)
	assert.Equal(t, "Extrude 1 face", desc)

	h.Undo(scene)
	desc, ok = h.NextRedo()
	assert.True(t, ok)
	assert.Equal(t, "Extrude 1 face", desc)

	h.Clear()
	assert.Zero(t, h.UndoLen()+h.RedoLen())
}
