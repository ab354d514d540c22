package guide

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/pcbuild/internal/errors"
)

// DefaultName is the guide used when none is configured.
const DefaultName = "pc-assembly"

//go:embed guides/*.yaml
var builtinFS embed.FS

// BuiltinNames returns the names of the embedded guides, sorted.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("guides")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// BuiltinSource returns the raw YAML of an embedded guide.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile(path.Join("guides", name+".yaml"))
	if err != nil {
		return nil, errors.NewGuideError("no built-in guide", errors.ErrGuideNotFound).WithGuide(name)
	}
	return data, nil
}

// Builtin parses the named embedded guide.
func Builtin(name string) (*Guide, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Match returns the built-in guide names matching a glob pattern such as
// "pc-*" or "{ram,cpu}-*". An empty pattern matches everything.
func Match(pattern string) ([]string, error) {
	names := BuiltinNames()
	if pattern == "" {
		return names, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid guide pattern").
			WithField("pattern").
			WithValue(pattern).
			WithCause(err)
	}
	var out []string
	for _, n := range names {
		if g.Match(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Resolve loads a guide from file when set, otherwise the named built-in.
func Resolve(name, file string) (*Guide, error) {
	if file != "" {
		return Load(file)
	}
	if name == "" {
		name = DefaultName
	}
	return Builtin(name)
}
