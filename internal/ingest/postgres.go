package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// Queryer is the subset of pgx the ingest statements need, extracted so
// tests run against a fake. *pgx.Conn satisfies it.
type Queryer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// insertChunk caps how many rows one INSERT carries.
const insertChunk = 500

// maxInsertParams is the extended-protocol bind limit: the parameter
// count is a uint16 on the wire, so one statement cannot carry more.
const maxInsertParams = 65535

// chunkRows returns how many rows fit in one INSERT for the given
// column count without blowing the parameter limit.
func chunkRows(columns int) int {
	rows := insertChunk
	if columns > 0 && maxInsertParams/columns < rows {
		rows = maxInsertParams / columns
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ensureDatabase creates the database unless pg_database already lists
// it. Must run on a connection to the admin database, since CREATE
// DATABASE cannot run inside a transaction on the target.
func ensureDatabase(ctx context.Context, admin Queryer, name string) error {
	var one int
	err := admin.QueryRow(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", name).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for database %s: %w", name, err)
	}

	if _, err := admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

func ensureSchema(ctx context.Context, q Queryer, schema string) error {
	if _, err := q.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}
	return nil
}

// createTable creates the destination table with the inferred column
// types. An existing table keeps its definition.
func createTable(ctx context.Context, q Queryer, ref TableRef, columns, types []string) error {
	if err := ensureSchema(ctx, q, ref.Schema); err != nil {
		return err
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = pgx.Identifier{col}.Sanitize() + " " + types[i]
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{ref.Schema, ref.Table}.Sanitize(), strings.Join(defs, ", "))
	if _, err := q.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s.%s: %w", ref.Schema, ref.Table, err)
	}
	return nil
}

// insertRows bulk-inserts the table contents in chunks, ignoring rows
// that conflict with existing ones. Empty cells insert as NULL.
func insertRows(ctx context.Context, q Queryer, ref TableRef, table *Table) error {
	if len(table.Rows) == 0 {
		return nil
	}

	cols := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		cols[i] = pgx.Identifier{col}.Sanitize()
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		pgx.Identifier{ref.Schema, ref.Table}.Sanitize(), strings.Join(cols, ", "))

	perChunk := chunkRows(len(table.Columns))
	for start := 0; start < len(table.Rows); start += perChunk {
		end := start + perChunk
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		chunk := table.Rows[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*len(table.Columns))
		for _, row := range chunk {
			ph := make([]string, len(row))
			for i, val := range row {
				ph[i] = fmt.Sprintf("$%d", len(args)+1)
				if val == "" {
					args = append(args, nil)
				} else {
					args = append(args, val)
				}
			}
			placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		}

		stmt := prefix + strings.Join(placeholders, ", ") + " ON CONFLICT DO NOTHING"
		if _, err := q.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("failed to insert into %s.%s: %w", ref.Schema, ref.Table, err)
		}
	}
	return nil
}

// insertImageMetadata records image objects in the table's metadata
// table, creating it on first use.
func insertImageMetadata(ctx context.Context, q Queryer, ref TableRef, images []ImageObject) error {
	if err := ensureSchema(ctx, q, ref.Schema); err != nil {
		return err
	}

	ident := pgx.Identifier{ref.Schema, ref.Table}.Sanitize()
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		file_name TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE
	)`, ident)
	if _, err := q.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create metadata table %s.%s: %w", ref.Schema, ref.Table, err)
	}

	placeholders := make([]string, 0, len(images))
	args := make([]interface{}, 0, len(images)*2)
	for _, img := range images {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", len(args)+1, len(args)+2))
		args = append(args, img.FileName, img.URL)
	}

	insert := fmt.Sprintf("INSERT INTO %s (file_name, url) VALUES %s ON CONFLICT DO NOTHING",
		ident, strings.Join(placeholders, ", "))
	if _, err := q.Exec(ctx, insert, args...); err != nil {
		return fmt.Errorf("failed to insert metadata into %s.%s: %w", ref.Schema, ref.Table, err)
	}
	return nil
}
