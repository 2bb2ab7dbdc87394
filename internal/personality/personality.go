// Package personality maps a database engine flavor name to the concrete
// administrative command names and config filename used to manage it, and
// persists the chosen flavor into the instance directory so later invocations
// target the same engine without being told which one.
package personality

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/giantswarm/dbenv/internal/fileutil"
	"github.com/giantswarm/dbenv/internal/sentinel"
)

// ErrUnknown is returned by Resolve for a name outside the fixed set.
const ErrUnknown = sentinel.Error("unknown personality")

// Default is the personality used when neither a flag nor a persisted
// marker selects one.
const Default = "postgres"

// MarkerName is the file inside the instance directory holding the
// persisted personality name as a single line.
const MarkerName = "personality"

// Personality is an immutable record of the external command names and the
// config filename for one engine flavor. Resolved once per invocation and
// never mutated afterwards.
type Personality struct {
	// Name is the flavor name as given to Resolve (e.g. "postgres").
	Name string
	// ControlCommand starts/stops/polls the server (e.g. "pg_ctl").
	ControlCommand string
	// ShellCommand is the interactive client (e.g. "psql").
	ShellCommand string
	// InitCommand creates the on-disk cluster (e.g. "initdb").
	InitCommand string
	// ConfigFile is the config filename inside the cluster directory.
	ConfigFile string
}

// known is the fixed set of supported flavors. Effectively immutable:
// initialized at package level and never modified afterwards.
var known = map[string]Personality{
	"postgres": {
		Name:           "postgres",
		ControlCommand: "pg_ctl",
		ShellCommand:   "psql",
		InitCommand:    "initdb",
		ConfigFile:     "postgresql.conf",
	},
	"pipeline": {
		Name:           "pipeline",
		ControlCommand: "pipeline-ctl",
		ShellCommand:   "pipeline",
		InitCommand:    "pipeline-init",
		ConfigFile:     "pipelinedb.conf",
	},
}

// Names returns the supported flavor names in sorted order, for diagnostics.
func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve performs an exact-match lookup of name against the fixed flavor
// set. Unknown names fail with an error naming the valid choices; no state
// is touched on failure.
func Resolve(name string) (Personality, error) {
	p, ok := known[name]
	if !ok {
		return Personality{}, fmt.Errorf("%w %q (valid choices: %s)",
			ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Persist writes the personality name to the marker file. Called exactly
// once per instance, during initialization.
func Persist(markerPath string, p Personality) error {
	if err := fileutil.WriteFileAtomic(markerPath, []byte(p.Name+"\n"), 0o644); err != nil {
		return fmt.Errorf("persist personality: %w", err)
	}
	return nil
}

// LoadPersisted reads the marker file and resolves its contents. A missing
// marker (instance not yet created, or one predating the marker feature)
// returns ok=false and no error; the caller falls back to the flag or the
// default. A present but unresolvable marker is an error: the instance
// claims a flavor this build does not know.
func LoadPersisted(markerPath string) (Personality, bool, error) {
	data, err := os.ReadFile(markerPath)
	if errors.Is(err, os.ErrNotExist) {
		return Personality{}, false, nil
	}
	if err != nil {
		return Personality{}, false, fmt.Errorf("read personality marker: %w", err)
	}
	p, err := Resolve(strings.TrimSpace(string(data)))
	if err != nil {
		return Personality{}, false, fmt.Errorf("persisted personality: %w", err)
	}
	return p, true, nil
}
