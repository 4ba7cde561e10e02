// Package postgres reads and writes column comments in a PostgreSQL database.
//
// A TableID maps to database.schema.table. The database part must name the
// database the connection is attached to; PostgreSQL cannot comment on
// objects in another database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/schema"
)

const columnsQuery = `
	SELECT c.column_name,
	       COALESCE(col_description(
	           format('%I.%I', c.table_schema, c.table_name)::regclass::oid,
	           c.ordinal_position::int), '')
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

const tablesQuery = `
	SELECT table_schema, table_name
	FROM information_schema.tables
	WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
	  AND table_type IN ('BASE TABLE', 'VIEW')
	ORDER BY table_schema, table_name`

// Catalog is a PostgreSQL-backed catalog.
type Catalog struct {
	db       *sql.DB
	database string
}

// Compile-time interface checks.
var (
	_ schema.Catalog = (*Catalog)(nil)
	_ schema.Lister  = (*Catalog)(nil)
)

// Open connects to the database described by dsn and checks connectivity.
func Open(ctx context.Context, dsn string) (*Catalog, error) {
	if dsn == "" {
		return nil, errors.NewConfigError("catalog", "dsn cannot be empty", nil)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewConfigError("catalog", "invalid postgres dsn", err)
	}
	db.SetMaxOpenConns(constants.MaxOpenConns)
	db.SetMaxIdleConns(constants.MaxIdleConns)
	db.SetConnMaxLifetime(constants.ConnMaxLifetime)

	c, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an open database handle.
func New(ctx context.Context, db *sql.DB) (*Catalog, error) {
	pingCtx, cancel := context.WithTimeout(ctx, constants.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, errors.WrapIO("connect", "", err)
	}

	var database string
	if err := db.QueryRowContext(ctx, "SELECT current_database()").Scan(&database); err != nil {
		return nil, errors.WrapIO("query", "current_database", err)
	}

	logging.FromContext(ctx).Debug().Str("database", database).Msg("connected to postgres catalog")
	return &Catalog{db: db, database: database}, nil
}

// Database returns the name of the connected database.
func (c *Catalog) Database() string { return c.database }

// Close releases the connection pool.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) resolve(table schema.TableID) (schema.TableName, error) {
	name, err := table.Parse()
	if err != nil {
		return schema.TableName{}, err
	}
	if name.Catalog != c.database {
		return schema.TableName{}, errors.NewValidationError("table", table.String(),
			fmt.Sprintf("catalog %q is not the connected database %q", name.Catalog, c.database))
	}
	return name, nil
}

// ReadSnapshot implements schema.Reader. A table without columns is reported
// as not found, which is what information_schema returns for a missing table
// or one the user cannot see.
func (c *Catalog) ReadSnapshot(ctx context.Context, table schema.TableID) (schema.Snapshot, error) {
	name, err := c.resolve(table)
	if err != nil {
		return schema.Snapshot{}, errors.NewSchemaNotFoundError(table.String(), err)
	}

	rows, err := c.db.QueryContext(ctx, columnsQuery, name.Schema, name.Table)
	if err != nil {
		return schema.Snapshot{}, errors.NewSchemaNotFoundError(table.String(), err)
	}
	defer rows.Close()

	snap := schema.Snapshot{Table: table}
	for rows.Next() {
		var col schema.ColumnDescriptor
		if err := rows.Scan(&col.Name, &col.Description); err != nil {
			return schema.Snapshot{}, errors.WrapIO("scan", table.String(), err)
		}
		snap.Columns = append(snap.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return schema.Snapshot{}, errors.WrapIO("query", table.String(), err)
	}
	if len(snap.Columns) == 0 {
		return schema.Snapshot{}, errors.NewSchemaNotFoundError(table.String(), nil)
	}
	return snap, nil
}

// SetColumnDescription implements schema.Writer with COMMENT ON COLUMN.
// An empty description removes the comment.
func (c *Catalog) SetColumnDescription(ctx context.Context, table schema.TableID, column, description string) error {
	name, err := c.resolve(table)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, CommentStatement(name, column, description))
	return err
}

// ListTables implements schema.Lister.
func (c *Catalog) ListTables(ctx context.Context) ([]schema.TableID, error) {
	rows, err := c.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, errors.WrapIO("query", "information_schema.tables", err)
	}
	defer rows.Close()

	var ids []schema.TableID
	for rows.Next() {
		var schemaName, tableName string
		if err := rows.Scan(&schemaName, &tableName); err != nil {
			return nil, errors.WrapIO("scan", "information_schema.tables", err)
		}
		ids = append(ids, schema.NewTableID(c.database, schemaName, tableName))
	}
	return ids, rows.Err()
}

// CommentStatement renders the COMMENT ON COLUMN statement for one update.
func CommentStatement(name schema.TableName, column, description string) string {
	target := pq.QuoteIdentifier(name.Schema) + "." +
		pq.QuoteIdentifier(name.Table) + "." +
		pq.QuoteIdentifier(column)
	if description == "" {
		return "COMMENT ON COLUMN " + target + " IS NULL"
	}
	return "COMMENT ON COLUMN " + target + " IS " + pq.QuoteLiteral(description)
}
