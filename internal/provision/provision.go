// Package provision creates the dedicated role and database inside a
// freshly initialized cluster. It connects over the instance's UNIX socket
// as the cluster-owning OS user, which the cluster trusts by construction
// (trust authentication, filesystem-permission gated).
package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// DSN returns the keyword/value connection string for the maintenance
// database of the cluster listening on socketDir. No user is specified:
// the cluster's bootstrap superuser is the invoking OS user.
func DSN(socketDir string) string {
	return fmt.Sprintf("host=%s dbname=postgres sslmode=disable", socketDir)
}

// Statements returns the fatal-on-error SQL batch creating the given role
// with superuser/login/replication privileges and a same-named database
// owned by it.
func Statements(name string) []string {
	ident := pgx.Identifier{name}.Sanitize()
	return []string{
		fmt.Sprintf("CREATE ROLE %s WITH SUPERUSER LOGIN REPLICATION", ident),
		fmt.Sprintf("CREATE DATABASE %s OWNER %s", ident, ident),
	}
}

// CreateRoleAndDatabase runs the provisioning batch against the cluster on
// socketDir. Any statement failure aborts the batch; the role and database
// are created exactly once during initialization and never reconciled on
// later runs. If logger is nil, slog.Default() is used.
func CreateRoleAndDatabase(ctx context.Context, socketDir, name string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := pgx.Connect(ctx, DSN(socketDir))
	if err != nil {
		return fmt.Errorf("connect to cluster on %s: %w", socketDir, err)
	}
	defer func() {
		if closeErr := conn.Close(ctx); closeErr != nil {
			logger.Debug("close provisioning connection", "error", closeErr)
		}
	}()

	// CREATE DATABASE cannot run inside a transaction block, so the batch
	// executes statement by statement on the plain connection.
	for _, stmt := range Statements(name) {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("provision %q: %s: %w", name, stmt, err)
		}
		logger.Debug("provisioning statement applied", "sql", stmt)
	}
	return nil
}
