package sandbox

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/haozl/sheetwright/internal/policy"
	"github.com/haozl/sheetwright/pkg/ops"
)

// Interpret runs one persisted script inside the interpreter. This is the
// child-process side of the runner; the validator already cleared the
// script, but imports are checked again here so a script file swapped on
// disk between validation and execution still cannot escape.
func Interpret(scriptPath string, allowedImports []string, stdout, stderr io.Writer) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	if err := checkImports(string(src), allowedImports); err != nil {
		return err
	}
	targets, err := policy.WriteTargets(string(src))
	if err != nil {
		return err
	}
	if inputDir := os.Getenv(ops.InputDirEnv); inputDir != "" {
		for _, target := range targets {
			if policy.InsideDir(target, inputDir) {
				return fmt.Errorf("write target %q is inside the read-only input directory", target)
			}
		}
	}

	i := interp.New(interp.Options{Stdout: stdout, Stderr: stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("load interpreter stdlib: %w", err)
	}
	if err := i.Use(ops.Symbols); err != nil {
		return fmt.Errorf("load operation library: %w", err)
	}

	if _, err := i.Eval(string(src)); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}

	// Eval only declares; the entrypoint is invoked explicitly.
	v, err := i.Eval("main.main")
	if err != nil {
		return fmt.Errorf("script has no main function: %w", err)
	}
	mainFn, ok := v.Interface().(func())
	if !ok {
		return fmt.Errorf("main has an unexpected signature")
	}
	mainFn()
	return nil
}

func checkImports(src string, allowed []string) error {
	file, err := parser.ParseFile(token.NewFileSet(), "script.go", src, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("script is not valid Go: %w", err)
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, path := range allowed {
		allowedSet[path] = true
	}
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !allowedSet[path] {
			return fmt.Errorf("import %s is outside the allowed set", imp.Path.Value)
		}
	}
	return nil
}
