package review

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/schema"
)

// DefaultEditor is used when neither VISUAL nor EDITOR is set.
const DefaultEditor = "vi"

// EditFunc opens path for editing and returns once the edit is finished.
type EditFunc func(ctx context.Context, path string) error

// FileSurface writes the rows as a decision document, hands the file to an
// editor and reads the edited rows back.
type FileSurface struct {
	Source      schema.TableID
	Target      schema.TableID
	MaxDistance int

	// Dir holds the decision file; a temporary directory is used when empty.
	Dir string

	// Edit replaces the editor launch. Defaults to OpenEditor.
	Edit EditFunc
}

// Review implements Surface.
func (f *FileSurface) Review(ctx context.Context, rows []decision.Row) ([]decision.Row, error) {
	dir := f.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "colsync-review-")
		if err != nil {
			return nil, errors.WrapIO("create", "review directory", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		dir = tmp
	}
	path := filepath.Join(dir, "decisions.yaml")

	doc := decision.NewDocument(f.Source, f.Target, f.MaxDistance, rows)
	if err := doc.Save(path); err != nil {
		return nil, err
	}

	edit := f.Edit
	if edit == nil {
		edit = OpenEditor
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Msg("Opening decision file for review")

	if err := edit(ctx, path); err != nil {
		return nil, errors.WrapIO("edit", path, err)
	}

	edited, err := decision.Load(path)
	if err != nil {
		return nil, err
	}
	if edited.Target != f.Target {
		return nil, errors.NewValidationError("target", edited.Target, "decision file target was changed during review")
	}

	return edited.Rows, nil
}

// Editor returns the user's preferred editor command.
func Editor() string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return DefaultEditor
}

// OpenEditor runs the user's editor on path attached to the terminal.
func OpenEditor(ctx context.Context, path string) error {
	//nolint:gosec // editor command comes from the user's own environment
	cmd := exec.CommandContext(ctx, "sh", "-c", Editor()+` "$1"`, "editor", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
