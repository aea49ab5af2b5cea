package cmd

import (
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRows(t *testing.T) {
	containers := []types.Container{
		{
			Names:  []string{"/ferry-demo-postgres"},
			Image:  "postgres:14",
			Status: "Up 5 minutes",
			Labels: map[string]string{"ferry.service": "postgres"},
			Ports: []types.Port{
				{PrivatePort: 5432, PublicPort: 5432},
				{PrivatePort: 9999}, // unpublished ports are omitted
			},
		},
		{
			// No label: fall back to the daemon-style name
			Names:  []string{"/ferry-demo-app"},
			Image:  "demo-app:latest",
			Status: "Exited (0)",
		},
	}

	rows := statusRows(containers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"postgres", "postgres:14", "Up 5 minutes", "5432->5432/tcp"}, rows[0])
	assert.Equal(t, []string{"ferry-demo-app", "demo-app:latest", "Exited (0)", ""}, rows[1])
}
