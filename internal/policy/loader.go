package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a policy file. A missing file is not an error; the built-in
// policy applies. A present but malformed file is fatal rather than
// silently falling back to weaker rules.
func Load(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPolicy(), nil
		}
		return nil, err
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	if len(p.Denylist) == 0 {
		p.Denylist = DefaultPolicy().Denylist
	}
	if len(p.AllowedImports) == 0 {
		p.AllowedImports = DefaultPolicy().AllowedImports
	}
	return &p, nil
}

// DefaultPolicy is the built-in ruleset. Scripts are Go source run inside
// the interpreter, so the denylist targets the escape hatches: process
// spawning, network access, raw syscalls, and filesystem mutation outside
// the operation library.
func DefaultPolicy() *Policy {
	return &Policy{
		Version: "1",
		Denylist: []Pattern{
			{Text: "os/exec", Reason: "scripts must not spawn processes"},
			{Text: "exec.Command", Reason: "scripts must not spawn processes"},
			{Text: "syscall", Reason: "raw system calls are not allowed"},
			{Text: "unsafe", Reason: "unsafe memory access is not allowed"},
			{Text: "net/http", Reason: "scripts must not reach the network"},
			{Text: "net.Dial", Reason: "scripts must not reach the network"},
			{Text: "os.Remove", Reason: "scripts must not delete files"},
			{Text: "os.Rename", Reason: "scripts must not move files"},
			{Text: "os.Chmod", Reason: "scripts must not change permissions"},
			{Text: "os.Setenv", Reason: "scripts must not alter the environment"},
			{Text: "os.Exit", Reason: "scripts must not terminate the runner"},
			{Text: "os.OpenFile", Reason: "direct file writes bypass the operation library"},
			{Text: "os.Create", Reason: "direct file writes bypass the operation library"},
			{Text: "os.WriteFile", Reason: "direct file writes bypass the operation library"},
			{Text: "ioutil.WriteFile", Reason: "direct file writes bypass the operation library"},
			{Text: "ops.Save(", Reason: "direct save calls bypass the write-target check"},
			{Text: "runtime/debug", Reason: "runtime introspection is not allowed"},
			{Text: "plugin.Open", Reason: "loading code at runtime is not allowed"},
		},
		AllowedImports: []string{
			"fmt",
			"strings",
			"strconv",
			"sort",
			"math",
			"errors",
			"github.com/haozl/sheetwright/pkg/ops",
		},
	}
}
