package baskerville

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/jaynewey/baskerville/profile"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

type tableData struct {
	Schema    string
	TempTable string
	Table     string
	Columns   string
}

// Client loads records into tables of a database.
type Client struct {
	db   *sql.DB
	d    *Dialect
	opts profile.Options
	log  logrus.FieldLogger
}

// New returns a client for the database in the dialect. The profile options
// decide which values are loaded as nulls.
func New(db *sql.DB, d *Dialect, opts profile.Options) *Client {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Client{
		db:   db,
		d:    d,
		opts: opts,
		log:  log.WithField("dialect", d.Name),
	}
}

// execTx calls a function within a transaction.
func (c *Client) execTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// render executes the named query template. It returns an empty string if
// the dialect has no such query.
func (c *Client) render(name string, data *tableData) (string, error) {
	if c.d.tmpl.Lookup(name) == nil {
		return "", nil
	}

	var b bytes.Buffer
	if err := c.d.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}

	return b.String(), nil
}

// exec runs the named queries in one transaction.
func (c *Client) exec(ctx context.Context, data *tableData, names ...string) error {
	return c.execTx(ctx, func(tx *sql.Tx) error {
		for _, name := range names {
			q, err := c.render(name, data)
			if err != nil {
				return err
			}

			if q == "" {
				continue
			}

			c.log.WithField("query", name).Debug(q)

			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("%s: %w\n%s", name, err, q)
			}
		}

		return nil
	})
}

// Replace loads the records into a new table which then replaces the
// table of the same name, if any.
func (c *Client) Replace(ctx context.Context, schemaName, tableName string, tableSchema *Schema, rows profile.RecordSource) (int64, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return 0, err
	}

	tempTableName := id.String()

	if err := c.createSchema(ctx, schemaName); err != nil {
		return 0, err
	}

	if err := c.createTable(ctx, schemaName, tempTableName, tableSchema); err != nil {
		return 0, err
	}

	n, err := c.copyData(ctx, schemaName, tempTableName, tableSchema, rows)
	if err != nil {
		c.dropTable(ctx, schemaName, tempTableName)
		return 0, err
	}

	if err := c.renameTable(ctx, schemaName, tempTableName, tableName); err != nil {
		return n, err
	}

	return n, c.analyzeTable(ctx, schemaName, tableName)
}

// Append loads the records into a table, creating it if it does not exist.
func (c *Client) Append(ctx context.Context, schemaName, tableName string, tableSchema *Schema, rows profile.RecordSource) (int64, error) {
	if err := c.createSchema(ctx, schemaName); err != nil {
		return 0, err
	}

	if err := c.createTable(ctx, schemaName, tableName, tableSchema); err != nil {
		return 0, err
	}

	n, err := c.copyData(ctx, schemaName, tableName, tableSchema, rows)
	if err != nil {
		return 0, err
	}

	return n, c.analyzeTable(ctx, schemaName, tableName)
}

func (c *Client) createSchema(ctx context.Context, schemaName string) error {
	return c.exec(ctx, &tableData{Schema: schemaName}, "createSchema")
}

func (c *Client) createTable(ctx context.Context, schemaName, tableName string, tableSchema *Schema) error {
	columns := make([]string, len(tableSchema.Columns))
	for i, col := range tableSchema.Columns {
		columns[i] = c.d.column(c.d, col)
	}

	data := &tableData{
		Schema:  schemaName,
		Table:   tableName,
		Columns: strings.Join(columns, ", "),
	}

	name := "createTable"
	if tableSchema.Cstore {
		if c.d.tmpl.Lookup("createCstoreTable") == nil {
			return fmt.Errorf("cstore tables are not supported by %s", c.d.Name)
		}
		name = "createCstoreTable"
	}

	return c.exec(ctx, data, name)
}

func (c *Client) dropTable(ctx context.Context, schemaName, tableName string) error {
	return c.exec(ctx, &tableData{Schema: schemaName, Table: tableName}, "dropTable")
}

func (c *Client) renameTable(ctx context.Context, schemaName, tempTableName, tableName string) error {
	data := &tableData{
		Schema:    schemaName,
		TempTable: tempTableName,
		Table:     tableName,
	}

	return c.exec(ctx, data, "dropTable", "renameTable")
}

func (c *Client) analyzeTable(ctx context.Context, schemaName, tableName string) error {
	return c.exec(ctx, &tableData{Schema: schemaName, Table: tableName}, "analyzeTable")
}

// copyData converts and loads every record. Null values and missing
// trailing values are loaded as nulls, extra values are ignored.
func (c *Client) copyData(ctx context.Context, schemaName, tableName string, tableSchema *Schema, rows profile.RecordSource) (int64, error) {
	var n int64

	err := c.execTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, c.d.copyIn(c.d, schemaName, tableName, tableSchema.Names()))
		if err != nil {
			return fmt.Errorf("error preparing copy: %w", err)
		}
		defer stmt.Close()

		cargs := make([]interface{}, len(tableSchema.Columns))

		for {
			row, err := rows.Read()
			if err == io.EOF {
				break
			}

			if err != nil {
				return fmt.Errorf("error reading record: %w", err)
			}

			for i, col := range tableSchema.Columns {
				if i >= len(row) || c.opts.IsNull(row[i]) {
					cargs[i] = nil
					continue
				}

				v, err := col.value(c.d, row[i])
				if err != nil {
					return fmt.Errorf("record %d, column %s: %w", n, col.Name, err)
				}
				cargs[i] = v
			}

			if _, err := stmt.ExecContext(ctx, cargs...); err != nil {
				return fmt.Errorf("error sending row: %w", err)
			}

			n++
		}

		if c.d.flush {
			if _, err := stmt.ExecContext(ctx); err != nil {
				return fmt.Errorf("error executing copy: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	c.log.WithFields(logrus.Fields{
		"table":   tableName,
		"records": n,
	}).Debug("copied records")

	return n, nil
}
