package editor

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/pagecraft/internal/tree"
)

// Command is one editing instruction received over the command channel.
type Command struct {
	Type          string         `json:"type"`
	ComponentType string         `json:"component_type,omitempty"`
	TargetID      string         `json:"target_id,omitempty"`
	Position      string         `json:"position,omitempty"`
	ID            string         `json:"id,omitempty"`
	Props         map[string]any `json:"props,omitempty"`
	PageID        string         `json:"page_id,omitempty"`
	Name          string         `json:"name,omitempty"`
	Slug          string         `json:"slug,omitempty"`
}

// Apply runs cmd against the session.
func (s *Session) Apply(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case "state":
		return nil
	case "insert":
		_, err := s.Insert(ctx, cmd.ComponentType, cmd.TargetID, tree.ParsePosition(cmd.Position))
		return err
	case "update":
		_, err := s.Update(ctx, cmd.ID, cmd.Props)
		return err
	case "remove":
		return s.Remove(ctx, cmd.ID)
	case "duplicate":
		_, err := s.Duplicate(ctx, cmd.ID)
		return err
	case "rename":
		s.Rename(ctx, cmd.Name)
		return nil
	case "add_page":
		s.AddPage(ctx, cmd.Name, cmd.Slug)
		return nil
	case "update_page":
		return s.UpdatePage(ctx, cmd.PageID, cmd.Name, cmd.Slug)
	case "delete_page":
		return s.DeletePage(ctx, cmd.PageID)
	case "select_page":
		return s.SelectPage(cmd.PageID)
	case "undo":
		s.Undo(ctx)
		return nil
	case "redo":
		s.Redo(ctx)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}
