package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOrder(t *testing.T) {
	cfg := &Config{
		Name: "demo",
		Services: map[string]Service{
			"postgres": {Image: "postgres:14"},
			"app":      {Build: "app:latest", DependsOn: []string{"postgres"}},
		},
	}

	order, err := cfg.StartOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"postgres", "app"}, order)
}

func TestStartOrderChain(t *testing.T) {
	cfg := &Config{
		Name: "demo",
		Services: map[string]Service{
			"worker":  {Image: "w", DependsOn: []string{"queue", "db"}},
			"queue":   {Image: "q", DependsOn: []string{"db"}},
			"db":      {Image: "d"},
			"metrics": {Image: "m"},
		},
	}

	order, err := cfg.StartOrder()
	require.NoError(t, err)
	// Independents sort alphabetically, dependents follow their deps
	assert.Equal(t, []string{"db", "metrics", "queue", "worker"}, order)
}

func TestStartOrderCycle(t *testing.T) {
	cfg := &Config{
		Name: "demo",
		Services: map[string]Service{
			"a": {Image: "a", DependsOn: []string{"b"}},
			"b": {Image: "b", DependsOn: []string{"a"}},
		},
	}

	_, err := cfg.StartOrder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
