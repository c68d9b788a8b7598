package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDebugDBPathCmd(t *testing.T) {
	env := newTestEnv(t)

	var got map[string]string
	if err := json.Unmarshal([]byte(env.run(t, &DebugDBPathCmd{})), &got); err != nil {
		t.Fatal(err)
	}
	if got["path"] != env.ctx.Config {
		t.Errorf("path = %q, want %q", got["path"], env.ctx.Config)
	}
	if got["backend"] != "*sqlite.Store" {
		t.Errorf("backend = %q", got["backend"])
	}
}

func TestDebugDumpDatesCmd(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, &BlockCmd{Ranges: []string{"2024-06-01:2024-06-02", "2024-06-09"}})

	var got dateDump
	out := env.run(t, &DebugDumpDatesCmd{})
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if got.Product != "42" || len(got.Dates) != 3 || len(got.Ranges) != 2 {
		t.Errorf("dump = %+v", got)
	}
	if !strings.Contains(out, `"2024-06-09"`) {
		t.Errorf("dates not ISO encoded:\n%s", out)
	}
}

func TestDebugDumpDatesUninitialized(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.Close()
	env.ctx.store = nil
	env.ctx.Config = env.ctx.Config + ".missing"

	if err := (&DebugDumpDatesCmd{}).Run(env.ctx); err == nil || !strings.Contains(err.Error(), "init") {
		t.Errorf("err = %v", err)
	}
}
