// Package script renders column description updates as SQL statements
// instead of executing them, so they can be reviewed or run by another tool.
package script

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/agentstation/colsync/internal/catalogs/postgres"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Dialect selects the SQL flavor of the rendered statements.
type Dialect string

const (
	// Databricks renders ALTER TABLE ... ALTER COLUMN ... COMMENT statements.
	Databricks Dialect = "databricks"
	// Postgres renders COMMENT ON COLUMN statements.
	Postgres Dialect = "postgres"
)

// Dialects lists the supported dialects.
var Dialects = []Dialect{Databricks, Postgres}

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	for _, d := range Dialects {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", errors.NewValidationError("dialect", s,
		fmt.Sprintf("unsupported dialect (supported: %s, %s)", Databricks, Postgres))
}

// Writer implements schema.Writer by writing one statement per update.
type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	dialect Dialect
	count   int
}

// Compile-time interface check.
var _ schema.Writer = (*Writer)(nil)

// NewWriter creates a Writer emitting statements to out.
func NewWriter(out io.Writer, dialect Dialect) (*Writer, error) {
	if _, err := ParseDialect(string(dialect)); err != nil {
		return nil, err
	}
	return &Writer{out: out, dialect: dialect}, nil
}

// SetColumnDescription implements schema.Writer.
func (w *Writer) SetColumnDescription(ctx context.Context, table schema.TableID, column, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stmt, err := Statement(w.dialect, table, column, description)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, stmt+";\n"); err != nil {
		return errors.WrapIO("write", "", err)
	}
	w.count++
	return nil
}

// Count returns how many statements were written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Statement renders one update without a trailing semicolon.
func Statement(dialect Dialect, table schema.TableID, column, description string) (string, error) {
	name, err := table.Parse()
	if err != nil {
		return "", err
	}
	switch dialect {
	case Databricks:
		return fmt.Sprintf("ALTER TABLE %s.%s.%s ALTER COLUMN %s COMMENT %s",
			backtick(name.Catalog), backtick(name.Schema), backtick(name.Table),
			backtick(column), sparkLiteral(description)), nil
	case Postgres:
		return postgres.CommentStatement(name, column, description), nil
	default:
		return "", errors.NewValidationError("dialect", string(dialect), "unsupported dialect")
	}
}

func backtick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// sparkLiteral quotes a Spark SQL string literal, where backslash escapes.
func sparkLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
