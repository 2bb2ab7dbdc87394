package core

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giantswarm/dbenv/internal/personality"
)

// stubConf is the config content the stub init utility writes, mimicking
// the default directive forms the real one emits.
const stubConf = `#listen_addresses = 'localhost'
#unix_socket_directories = '/tmp'
datestyle = 'iso, mdy'
#intervalstyle = 'postgres'
timezone = 'GMT'
`

// stubs installs fake initdb and pg_ctl binaries at the front of PATH.
// Every invocation is appended to the record file; the server's
// running/stopped state is a marker file the start/stop verbs toggle.
type stubs struct {
	record string
	state  string
}

func installStubs(t *testing.T) *stubs {
	t.Helper()
	dir := t.TempDir()
	s := &stubs{
		record: filepath.Join(dir, "record"),
		state:  filepath.Join(dir, "state"),
	}

	initdb := fmt.Sprintf(`#!/bin/sh
echo "initdb $@" >> %q
prev=""
dest=""
for a in "$@"; do
  if [ "$prev" = "-D" ]; then dest="$a"; fi
  prev="$a"
done
mkdir -p "$dest"
cat > "$dest/postgresql.conf" <<'CONF'
%sCONF
`, s.record, stubConf)

	pgctl := fmt.Sprintf(`#!/bin/sh
echo "pg_ctl $@" >> %q
case "$1" in
  start) touch %q ;;
  stop) rm -f %q ;;
  status)
    if [ -e %q ]; then
      echo "pg_ctl: server is running (PID: 1234)"
    else
      echo "pg_ctl: no server running"
      exit 3
    fi ;;
esac
`, s.record, s.state, s.state, s.state)

	for name, content := range map[string]string{"initdb": initdb, "pg_ctl": pgctl} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return s
}

// invocations returns the recorded stub invocations, one per line.
func (s *stubs) invocations(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(s.record)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func (s *stubs) reset(t *testing.T) {
	t.Helper()
	if err := os.Remove(s.record); err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
}

// serverRunning reports the stub server state.
func (s *stubs) serverRunning() bool {
	_, err := os.Stat(s.state)
	return err == nil
}

// serveSocket accepts connections on the instance socket as soon as its
// parent directory exists, standing in for the listening server during
// readiness polling.
func serveSocket(t *testing.T, sock string) {
	t.Helper()
	var (
		mu sync.Mutex
		ln net.Listener
	)
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		if ln != nil {
			_ = ln.Close()
		}
	})
	go func() {
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			if _, err := os.Stat(filepath.Dir(sock)); err == nil {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		l, err := net.Listen("unix", sock)
		if err != nil {
			return
		}
		mu.Lock()
		ln = l
		mu.Unlock()
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
}

// newTestInstance builds an Instance rooted in a fresh temp dir with a
// recording provision stub. provisionErr, when non-nil, makes the
// provisioning step fail.
func newTestInstance(t *testing.T, provisionErr error) (*Instance, *[]string) {
	t.Helper()
	pers, err := personality.Resolve("postgres")
	if err != nil {
		t.Fatal(err)
	}

	var provisioned []string
	inst, err := New(Config{
		WorkDir:     t.TempDir(),
		Personality: pers,
		Provision: func(_ context.Context, socketDir, name string, _ *slog.Logger) error {
			provisioned = append(provisioned, socketDir+" "+name)
			return provisionErr
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return inst, &provisioned
}

func TestSetup_CreatesReadyInstance(t *testing.T) {
	s := installStubs(t)
	inst, provisioned := newTestInstance(t, nil)
	serveSocket(t, filepath.Join(inst.Root(), fmt.Sprintf(".s.PGSQL.%d", Port)))

	if err := inst.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	// Instance directory, log file and personality marker all exist.
	if !inst.Exists() {
		t.Error("instance directory missing after Setup")
	}
	if _, err := os.Stat(inst.LogPath()); err != nil {
		t.Errorf("log file: %v", err)
	}
	marker, err := os.ReadFile(inst.MarkerPath())
	if err != nil {
		t.Fatalf("personality marker: %v", err)
	}
	if got := strings.TrimSpace(string(marker)); got != "postgres" {
		t.Errorf("marker = %q, want postgres", got)
	}

	// Config is rebound to the instance socket directory.
	conf, err := os.ReadFile(inst.ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(conf), "unix_socket_directories = '"+inst.Root()+"'") {
		t.Errorf("config not rebound to socket dir:\n%s", conf)
	}

	// Role and database were provisioned against the socket directory.
	if len(*provisioned) != 1 || (*provisioned)[0] != inst.Root()+" "+RoleName {
		t.Errorf("provisioned = %v", *provisioned)
	}

	// The cluster was initialized, started with wait, and stopped again.
	rec := s.invocations(t)
	for _, want := range []string{
		"initdb -D " + inst.ClusterDir() + " --auth=trust",
		"start -D " + inst.ClusterDir() + " -l " + inst.LogPath() + " -w",
		"stop -D " + inst.ClusterDir() + " -l " + inst.LogPath(),
	} {
		if !strings.Contains(rec, want) {
			t.Errorf("invocations missing %q:\n%s", want, rec)
		}
	}

	// The server is left stopped.
	if s.serverRunning() {
		t.Error("server still running after Setup")
	}
	if inst.IsRunning(context.Background()) {
		t.Error("IsRunning = true after Setup")
	}
}

func TestSetup_Idempotent(t *testing.T) {
	s := installStubs(t)
	inst, _ := newTestInstance(t, nil)
	serveSocket(t, filepath.Join(inst.Root(), fmt.Sprintf(".s.PGSQL.%d", Port)))

	if err := inst.Setup(context.Background()); err != nil {
		t.Fatalf("first Setup: %v", err)
	}
	s.reset(t)

	if err := inst.Setup(context.Background()); err != nil {
		t.Fatalf("second Setup: %v", err)
	}
	if rec := s.invocations(t); rec != "" {
		t.Errorf("second Setup invoked external commands:\n%s", rec)
	}
}

func TestSetup_ProvisionFailureStopsEverything(t *testing.T) {
	s := installStubs(t)
	inst, _ := newTestInstance(t, fmt.Errorf("role already exists"))
	serveSocket(t, filepath.Join(inst.Root(), fmt.Sprintf(".s.PGSQL.%d", Port)))

	err := inst.Setup(context.Background())
	if err == nil {
		t.Fatal("expected Setup to fail when provisioning fails")
	}
	if !strings.Contains(err.Error(), "role already exists") {
		t.Errorf("error = %v, want provisioning cause", err)
	}

	// The teardown path still ran: fast-mode stop, no orphaned server.
	rec := s.invocations(t)
	if !strings.Contains(rec, "stop -D "+inst.ClusterDir()+" -m fast") {
		t.Errorf("fast-mode cleanup stop missing:\n%s", rec)
	}
	if s.serverRunning() {
		t.Error("server left running after failed Setup")
	}
}

func TestClean_RemovesInstanceDirectory(t *testing.T) {
	inst, _ := newTestInstance(t, nil)
	if err := os.MkdirAll(inst.ClusterDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := inst.Clean(context.Background()); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if inst.Exists() {
		t.Error("instance directory still exists after Clean")
	}
}

func TestClean_NoopWhenAbsent(t *testing.T) {
	inst, _ := newTestInstance(t, nil)
	if err := inst.Clean(context.Background()); err != nil {
		t.Fatalf("Clean on absent instance: %v", err)
	}
}
