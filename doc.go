// Package dbenv manages ephemeral, filesystem-scoped PostgreSQL instances
// using the database binaries already installed on the host.
//
// dbenv gives applications and tests a throwaway database they can bring up
// and tear down without a system-wide installation or any network
// configuration: the server binds a UNIX socket inside the instance
// directory and trusts whoever can reach it through filesystem permissions.
//
// # Basic Usage
//
//	import "github.com/giantswarm/dbenv"
//
//	ctx := context.Background()
//
//	env, err := dbenv.New(dbenv.WithWorkDir(dir))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := env.Setup(ctx); err != nil { // idempotent
//	    log.Fatal(err)
//	}
//	if err := env.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer env.Stop(ctx) //nolint:errcheck
//
//	db, err := sql.Open("pgx", env.URL())
//	// Use db...
//
// # Instance Layout
//
// One instance lives in a single directory (./var by default) holding the
// cluster data (db/), the server log (log), and a marker recording which
// engine flavor manages the instance (personality). The directory's
// existence is the sole signal that setup has run; removing it returns the
// instance to the absent state.
//
// # Engine Flavors
//
// Two interchangeable personalities are supported: "postgres" (the default)
// and "pipeline". The personality chosen at setup is persisted into the
// instance directory, so later invocations pick it up without being told.
//
// # CLI
//
// cmd/dbenv exposes the same operations as a command line tool; invoking it
// with no arguments runs setup followed by an interactive client session.
package dbenv
