package main

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	calls   []string
	err     error
	version uint
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, false, f.err
}

func (f *fakeMigrator) Force(int) error { f.calls = append(f.calls, "force"); return f.err }
func (f *fakeMigrator) Up() error       { f.calls = append(f.calls, "up"); return f.err }
func (f *fakeMigrator) Down() error     { f.calls = append(f.calls, "down"); return f.err }
func (f *fakeMigrator) Steps(int) error { f.calls = append(f.calls, "steps"); return f.err }

func TestResolveDSN(t *testing.T) {
	env := func(v string) func(string) string {
		return func(string) string { return v }
	}

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag wins", "postgres://flag", "postgres://env", "postgres://flag"},
		{"environment", "", "postgres://env", "postgres://env"},
		{"default", "", "", defaultDSN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDSN(tt.flag, env(tt.env)); got != tt.want {
				t.Errorf("resolveDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		err     error
		call    string
		wantMsg string
		wantErr bool
	}{
		{"up", options{up: true}, nil, "up", "migrations applied successfully", false},
		{"up no change", options{up: true}, migrate.ErrNoChange, "up", "migrations applied successfully", false},
		{"down failure", options{down: true}, errors.New("locked"), "down", "", true},
		{"steps", options{steps: -1}, nil, "steps", "applied -1 migration steps", false},
		{"force", options{forced: true, force: 1}, nil, "force", "forced to version 1", false},
		{"version", options{version: true}, nil, "version", "version: 2, dirty: false", false},
		{"version unset", options{version: true}, migrate.ErrNilVersion, "version", "version: none", false},
		{"no command", options{}, nil, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMigrator{err: tt.err, version: 2}
			msg, err := run(m, tt.opts)

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
			if tt.call == "" && len(m.calls) != 0 || tt.call != "" && (len(m.calls) != 1 || m.calls[0] != tt.call) {
				t.Errorf("calls = %v, want [%s]", m.calls, tt.call)
			}
		})
	}
}

func TestEmbeddedMigrationsPaired(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("%s has no down migration", name)
		}
	}
}
