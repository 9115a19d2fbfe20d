// Package toml loads CLI flag defaults from TOML configuration files.
package toml

import (
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docqa"
	"github.com/pelletier/go-toml/v2"
)

// Ensure Loader satisfies kong.ConfigurationLoader at compile time.
var _ kong.ConfigurationLoader = Loader

// Loader is a kong.ConfigurationLoader reading TOML. Top-level keys set
// flags by name; a table named after a command sets that command's flags:
//
//	collection = "docs"
//	[serve]
//	addr = ":9000"
//
// Keys may use dashes or underscores.
func Loader(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, docqa.Errorf(docqa.EINVALID, "parse config: %v", err)
	}
	return &resolver{values: flatten(raw, "")}, nil
}

type resolver struct {
	values map[string]any
}

// Validate rejects keys that name no flag of app.
func (r *resolver) Validate(app *kong.Application) error {
	known := make(map[string]bool)
	collectKeys(app.Node, "", known)

	var unknown []string
	for key := range r.values {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return docqa.Errorf(docqa.EINVALID, "unknown configuration keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Resolve looks up flag under its command table first, then at the top level.
func (r *resolver) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	if prefix := commandPath(parent.Node()); prefix != "" {
		if v, ok := r.values[prefix+"."+normalize(flag.Name)]; ok {
			return v, nil
		}
	}
	if v, ok := r.values[normalize(flag.Name)]; ok {
		return v, nil
	}
	return nil, nil
}

func normalize(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// flatten converts nested tables to dot-separated keys.
func flatten(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for key, value := range m {
		full := normalize(key)
		if prefix != "" {
			full = prefix + "." + full
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flatten(nested, full) {
				out[k] = v
			}
			continue
		}
		out[full] = value
	}
	return out
}

// commandPath returns the dot-joined command names from the root to node.
func commandPath(node *kong.Node) string {
	var names []string
	for n := node; n != nil && n.Type == kong.CommandNode; n = n.Parent {
		names = append(names, n.Name)
	}
	slices.Reverse(names)
	return strings.Join(names, ".")
}

func collectKeys(node *kong.Node, prefix string, known map[string]bool) {
	for _, f := range node.Flags {
		if f.Name == "help" {
			continue
		}
		known[f.Name] = true
		if prefix != "" {
			known[prefix+"."+f.Name] = true
		}
	}
	for _, child := range node.Children {
		p := child.Name
		if prefix != "" {
			p = prefix + "." + p
		}
		collectKeys(child, p, known)
	}
}
