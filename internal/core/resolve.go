package core

import (
	"path/filepath"

	"github.com/giantswarm/dbenv/internal/personality"
)

// ResolvePersonality picks the engine personality for an invocation rooted
// at workDir, applying the precedence every entry point shares: an explicit
// name wins, then the marker persisted in the instance directory, then the
// default. Resolution happens exactly once per invocation; the result is
// immutable for the process.
//
// A missing marker is not an error: the instance may not exist yet, or may
// predate the marker feature. An explicit or persisted name outside the
// supported set is fatal.
func ResolvePersonality(workDir, explicit string) (personality.Personality, error) {
	if explicit != "" {
		return personality.Resolve(explicit)
	}

	marker := filepath.Join(workDir, InstanceDirName, personality.MarkerName)
	if p, ok, err := personality.LoadPersisted(marker); err != nil {
		return personality.Personality{}, err
	} else if ok {
		return p, nil
	}

	return personality.Resolve(personality.Default)
}
