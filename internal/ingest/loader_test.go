package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarth-shah20/ferry/internal/bucket"
)

type fakeStore struct {
	objects []bucket.Object
	files   map[string][]byte
}

func (f *fakeStore) List(ctx context.Context) ([]bucket.Object, error) {
	return f.objects, nil
}

func (f *fakeStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s", key)
	}
	return data, nil
}

type fakeConn struct {
	fakeQueryer
	closed bool
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func TestLoaderRun(t *testing.T) {
	store := &fakeStore{
		objects: []bucket.Object{
			{Key: "exports/sales/public/orders/part1.csv"},
			{Key: "exports/sales/public/orders/part2.csv"},
			{Key: "exports/sales/public/products/a.png", PublicURL: "https://cdn.example.com/a.png"},
		},
		files: map[string][]byte{
			"exports/sales/public/orders/part1.csv": []byte("id,total\n1,9.5\n"),
			"exports/sales/public/orders/part2.csv": []byte("id,total\n2,1\n"),
		},
	}

	conns := map[string]*fakeConn{}
	connect := func(ctx context.Context, database string) (Conn, error) {
		c := &fakeConn{fakeQueryer: fakeQueryer{databases: map[string]bool{}}}
		conns[database] = c
		return c, nil
	}

	loader := NewWithConnect(store, connect)
	require.NoError(t, loader.Run(context.Background()))

	// One admin connection (created the database) and one to sales
	require.Contains(t, conns, "postgres")
	require.Contains(t, conns, "sales")
	admin := conns["postgres"]
	require.Len(t, admin.execs, 1)
	assert.Equal(t, `CREATE DATABASE "sales"`, admin.execs[0].sql)

	sales := conns["sales"]
	var statements []string
	for _, call := range sales.execs {
		statements = append(statements, call.sql)
	}

	joined := strings.Join(statements, "\n")
	assert.Contains(t, joined, `CREATE TABLE IF NOT EXISTS "public"."orders" ("id" INTEGER, "total" REAL)`)
	assert.Contains(t, joined, `INSERT INTO "public"."orders"`)
	assert.Contains(t, joined, `CREATE TABLE IF NOT EXISTS "public"."products"`)
	assert.Contains(t, joined, `INSERT INTO "public"."products" (file_name, url)`)

	// Rows from both CSV files made it into one insert
	for _, call := range sales.execs {
		if strings.HasPrefix(call.sql, `INSERT INTO "public"."orders"`) {
			assert.Equal(t, []interface{}{"1", "9.5", "2", "1"}, call.args)
		}
	}

	// Connections are closed when the run ends
	for name, conn := range conns {
		assert.True(t, conn.closed, "connection %s not closed", name)
	}
}

func TestLoaderReusesDatabaseConnection(t *testing.T) {
	store := &fakeStore{
		objects: []bucket.Object{
			{Key: "exports/sales/public/orders/a.csv"},
			{Key: "exports/sales/archive/history/b.csv"},
		},
		files: map[string][]byte{
			"exports/sales/public/orders/a.csv":   []byte("id\n1\n"),
			"exports/sales/archive/history/b.csv": []byte("id\n2\n"),
		},
	}

	var opened []string
	connect := func(ctx context.Context, database string) (Conn, error) {
		opened = append(opened, database)
		return &fakeConn{fakeQueryer: fakeQueryer{databases: map[string]bool{}}}, nil
	}

	loader := NewWithConnect(store, connect)
	require.NoError(t, loader.Run(context.Background()))

	// Two tables in the same database share one connection
	assert.Equal(t, []string{"postgres", "sales"}, opened)
}
