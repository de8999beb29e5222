package contour

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSource is the name NewSource resolves the empty string to.
const DefaultSource = "tracer"

// sources maps a configuration name to a Source constructor. Optional
// back ends add themselves from init.
var sources = map[string]func() Source{
	DefaultSource: func() Source { return NewTracer() },
}

func register(name string, factory func() Source) {
	sources[name] = factory
}

// NewSource returns the Source registered under name.
func NewSource(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultSource
	}
	factory, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown contour source %q (available: %s)", name, strings.Join(SourceNames(), ", "))
	}
	return factory(), nil
}

// SourceNames lists the registered sources in sorted order.
func SourceNames() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
