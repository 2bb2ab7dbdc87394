// Package pgconf rewrites the handful of server config directives that bind
// an instance to a filesystem socket instead of a network address.
//
// This is deliberately not a config parser. The engine's init utility writes
// a config file full of commented-out defaults; we substitute the enumerated
// directive lines in place and leave everything else byte-for-byte intact.
// A line that does not match its expected default form (for example, one the
// user already customized) is silently left alone.
package pgconf

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/giantswarm/dbenv/internal/fileutil"
)

// rule substitutes the matched portion of the first matching line.
type rule struct {
	pattern *regexp.Regexp
	replace string
}

// rules returns the directive substitutions for a cluster bound to
// socketDir. The patterns anchor on the default forms the init utility
// emits: commented-out directives keep their trailing inline comments,
// and the two directives the init utility uncomments with environment-
// dependent values (datestyle, timezone) are matched value-agnostically.
func rules(socketDir string) []rule {
	return []rule{
		{regexp.MustCompile(regexp.QuoteMeta(`#unix_socket_directories = '/tmp'`)),
			`unix_socket_directories = '` + socketDir + `'`},
		// Older engines (and some flavors) use the singular directive.
		{regexp.MustCompile(regexp.QuoteMeta(`#unix_socket_directory = ''`)),
			`unix_socket_directory = '` + socketDir + `'`},
		{regexp.MustCompile(regexp.QuoteMeta(`#listen_addresses = 'localhost'`)),
			`listen_addresses = ''`},
		{regexp.MustCompile(`^#?datestyle = '[^']*'`),
			`datestyle = 'iso, ymd'`},
		{regexp.MustCompile(regexp.QuoteMeta(`#intervalstyle = 'postgres'`)),
			`intervalstyle = 'iso_8601'`},
		{regexp.MustCompile(`^#?timezone = '[^']*'`),
			`timezone = 'UTC'`},
	}
}

// Rewrite patches the socket and formatting directives of the config file at
// confPath so the server listens only on a UNIX socket in socketDir. The
// patched content is written through a scratch file in the same directory
// and renamed over the original, so a failure mid-write leaves the config
// untouched and no scratch file behind.
//
// Returns the number of directive lines that were actually changed. Lines
// not matching their expected default form are skipped without error.
func Rewrite(confPath, socketDir string) (int, error) {
	data, err := os.ReadFile(confPath)
	if err != nil {
		return 0, fmt.Errorf("read config %s: %w", confPath, err)
	}

	mode := os.FileMode(0o600)
	if info, statErr := os.Stat(confPath); statErr == nil {
		mode = info.Mode().Perm()
	}

	lines := strings.Split(string(data), "\n")
	changed := 0
	for _, r := range rules(socketDir) {
		for i, line := range lines {
			if !r.pattern.MatchString(line) {
				continue
			}
			lines[i] = r.pattern.ReplaceAllLiteralString(line, r.replace)
			if lines[i] != line {
				changed++
			}
			break
		}
	}

	if changed == 0 {
		return 0, nil
	}
	if err := fileutil.WriteFileAtomic(confPath, []byte(strings.Join(lines, "\n")), mode); err != nil {
		return 0, fmt.Errorf("write config %s: %w", confPath, err)
	}
	return changed, nil
}
