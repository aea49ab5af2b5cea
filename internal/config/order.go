package config

import (
	"fmt"
	"sort"
)

// StartOrder returns service names sorted so every service comes after
// everything it depends_on. Ties break alphabetically so the order is
// stable across runs. Teardown should walk the result in reverse.
func (c *Config) StartOrder() ([]string, error) {
	// Count unmet dependencies per service
	pending := make(map[string]int, len(c.Services))
	dependents := make(map[string][]string)

	for name, svc := range c.Services {
		pending[name] = len(svc.DependsOn)
		for _, dep := range svc.DependsOn {
			if _, ok := c.Services[dep]; !ok {
				return nil, fmt.Errorf("service %s depends on undeclared service %s", name, dep)
			}
			dependents[dep] = append(dependents[dep], name)
		}
	}

	// Kahn's algorithm with a sorted ready list
	ready := make([]string, 0, len(pending))
	for name, n := range pending {
		if n == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(pending))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		released := false
		for _, next := range dependents[name] {
			pending[next]--
			if pending[next] == 0 {
				ready = append(ready, next)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(order) != len(c.Services) {
		return nil, fmt.Errorf("dependency cycle in services")
	}
	return order, nil
}
