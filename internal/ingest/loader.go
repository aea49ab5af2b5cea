package ingest

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"

	"github.com/sarth-shah20/ferry/internal/bucket"
	"github.com/sarth-shah20/ferry/internal/config"
)

// adminDatabase is where CREATE DATABASE statements run.
const adminDatabase = "postgres"

// Conn is a per-database connection. *pgx.Conn satisfies it.
type Conn interface {
	Queryer
	Close(ctx context.Context) error
}

// ConnectFunc opens a connection to the named database.
type ConnectFunc func(ctx context.Context, database string) (Conn, error)

// Loader walks the bucket and syncs its contents into Postgres.
type Loader struct {
	store   bucket.Store
	connect ConnectFunc
	log     *logrus.Logger
}

// New builds a loader connecting with the credentials from env.
func New(env *config.LoaderEnv, store bucket.Store) *Loader {
	connect := func(ctx context.Context, database string) (Conn, error) {
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(env.DBUser, env.DBPassword),
			Host:   fmt.Sprintf("%s:%s", env.DBHost, env.DBPort),
			Path:   "/" + database,
		}
		conn, err := pgx.Connect(ctx, u.String())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database %s: %w", database, err)
		}
		return conn, nil
	}
	return NewWithConnect(store, connect)
}

// NewWithConnect wires a loader to an arbitrary connector. Used by tests.
func NewWithConnect(store bucket.Store, connect ConnectFunc) *Loader {
	return &Loader{store: store, connect: connect, log: logrus.StandardLogger()}
}

// Run lists the bucket, groups objects by destination table, and loads
// CSV data and image metadata. One connection per target database is
// opened on first use and reused for every table in that database.
func (l *Loader) Run(ctx context.Context) error {
	objects, err := l.store.List(ctx)
	if err != nil {
		return err
	}
	layout := BuildLayout(objects)

	conns := map[string]Conn{}
	defer func() {
		for _, conn := range conns {
			_ = conn.Close(context.WithoutCancel(ctx))
		}
	}()

	// target returns the cached connection for a database, creating the
	// database first if this is the first time we see it.
	target := func(name string) (Conn, error) {
		if conn, ok := conns[name]; ok {
			return conn, nil
		}

		admin, ok := conns[adminDatabase]
		if !ok {
			var err error
			if admin, err = l.connect(ctx, adminDatabase); err != nil {
				return nil, err
			}
			conns[adminDatabase] = admin
		}
		if err := ensureDatabase(ctx, admin, name); err != nil {
			return nil, err
		}

		conn, err := l.connect(ctx, name)
		if err != nil {
			return nil, err
		}
		conns[name] = conn
		return conn, nil
	}

	for _, ref := range sortedRefs(layout.CSV) {
		conn, err := target(ref.Database)
		if err != nil {
			return err
		}
		if err := l.loadCSV(ctx, conn, ref, layout.CSV[ref]); err != nil {
			return err
		}
		l.log.WithFields(logrus.Fields{
			"database": ref.Database, "schema": ref.Schema, "table": ref.Table,
		}).Info("data inserted")
	}

	for _, ref := range sortedRefs(layout.Images) {
		conn, err := target(ref.Database)
		if err != nil {
			return err
		}
		if err := insertImageMetadata(ctx, conn, ref, layout.Images[ref]); err != nil {
			return err
		}
		l.log.WithFields(logrus.Fields{
			"database": ref.Database, "schema": ref.Schema, "table": ref.Table,
		}).Info("image metadata inserted")
	}

	return nil
}

func (l *Loader) loadCSV(ctx context.Context, conn Conn, ref TableRef, keys []string) error {
	sort.Strings(keys)

	files := make([][]byte, 0, len(keys))
	for _, key := range keys {
		data, err := l.store.Download(ctx, key)
		if err != nil {
			return err
		}
		files = append(files, data)
	}

	table, err := MergeCSV(files)
	if err != nil {
		return fmt.Errorf("table %s.%s.%s: %w", ref.Database, ref.Schema, ref.Table, err)
	}
	if len(table.Columns) == 0 {
		return nil
	}

	if err := createTable(ctx, conn, ref, table.Columns, table.ColumnTypes()); err != nil {
		return err
	}
	return insertRows(ctx, conn, ref, table)
}

// sortedRefs returns map keys ordered by database, schema, table so
// runs are deterministic.
func sortedRefs[V any](m map[TableRef]V) []TableRef {
	refs := make([]TableRef, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Database != b.Database {
			return a.Database < b.Database
		}
		if a.Schema != b.Schema {
			return a.Schema < b.Schema
		}
		return a.Table < b.Table
	})
	return refs
}
