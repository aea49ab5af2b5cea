package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarth-shah20/ferry/internal/bucket"
)

func TestBuildLayout(t *testing.T) {
	objects := []bucket.Object{
		{Key: "exports/sales/public/orders/2024-01.csv"},
		{Key: "exports/sales/public/orders/2024-02.csv"},
		{Key: "exports/sales/public/products/catalog.png", PublicURL: "https://cdn.example.com/catalog.png"},
		{Key: "exports/sales/public/products/photo.JPG", PublicURL: "https://cdn.example.com/photo.JPG"},
		{Key: "readme.txt"},                          // too few segments
		{Key: "exports/sales/public/orders/log.txt"}, // unknown extension
	}

	layout := BuildLayout(objects)

	orders := TableRef{Database: "sales", Schema: "public", Table: "orders"}
	require.Contains(t, layout.CSV, orders)
	assert.Equal(t, []string{
		"exports/sales/public/orders/2024-01.csv",
		"exports/sales/public/orders/2024-02.csv",
	}, layout.CSV[orders])

	products := TableRef{Database: "sales", Schema: "public", Table: "products"}
	require.Contains(t, layout.Images, products)
	assert.Equal(t, []ImageObject{
		{FileName: "catalog.png", URL: "https://cdn.example.com/catalog.png"},
		{FileName: "photo.JPG", URL: "https://cdn.example.com/photo.JPG"},
	}, layout.Images[products])

	// Only the two recognized groups survive
	assert.Len(t, layout.CSV, 1)
	assert.Len(t, layout.Images, 1)
}
