package command

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/logger"
)

// DefaultDepth is the undo depth used when none is configured.
const DefaultDepth = 100

// History owns the undo and redo stacks. It is the only path through which
// committed edits reach the document.
type History struct {
	undo  []Command
	redo  []Command
	depth int
	dirty bool
	log   *zap.Logger
}

// NewHistory creates a history keeping at most depth undo entries.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &History{depth: depth, log: logger.Named("history")}
}

// Push applies cmd and records it. The redo stack is discarded, and the
// oldest entry is dropped once the depth cap is exceeded. A nil cmd is a no-op.
func (h *History) Push(scene *document.Scene, cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Apply(scene)
	h.undo = append(h.undo, cmd)
	clear(h.redo)
	h.redo = h.redo[:0]
	if over := len(h.undo) - h.depth; over > 0 {
		clear(h.undo[:over])
		h.undo = h.undo[over:]
		h.log.Debug("dropped oldest undo entries", zap.Int("count", over))
	}
	h.dirty = true
	h.log.Debug("push", zap.String("command", cmd.Description()), zap.Int("undo", len(h.undo)))
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo.
func (h *History) Undo(scene *document.Scene) bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	cmd.Undo(scene)
	h.redo = append(h.redo, cmd)
	h.dirty = true
	h.log.Debug("undo", zap.String("command", cmd.Description()))
	return true
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(scene *document.Scene) bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	cmd.Apply(scene)
	h.undo = append(h.undo, cmd)
	h.dirty = true
	h.log.Debug("redo", zap.String("command", cmd.Description()))
	return true
}

// UndoLen returns the number of undoable entries.
func (h *History) UndoLen() int { return len(h.undo) }

// RedoLen returns the number of redoable entries.
func (h *History) RedoLen() int { return len(h.redo) }

// Depth returns the undo cap.
func (h *History) Depth() int { return h.depth }

// Dirty reports whether the document changed since the last MarkSaved.
func (h *History) Dirty() bool { return h.dirty }

// MarkSaved clears the dirty flag. Called by the save workflow.
func (h *History) MarkSaved() { h.dirty = false }

// Clear drops both stacks, e.g. after loading a new document.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.dirty = false
}

// NextUndo describes the entry Undo would revert.
func (h *History) NextUndo() (string, bool) {
	if len(h.undo) == 0 {
		return "", false
	}
	return h.undo[len(h.undo)-1].Description(), true
}

// NextRedo describes the entry Redo would re-apply.
func (h *History) NextRedo() (string, bool) {
	if len(h.redo) == 0 {
		return "", false
	}
	return h.redo[len(h.redo)-1].Description(), true
}
