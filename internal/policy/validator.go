package policy

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/haozl/sheetwright/pkg/ops"
)

// Validator applies one policy to generated scripts. It is cheap to build
// and safe for concurrent use.
type Validator struct {
	policy   *Policy
	inputDir string
	saveOps  map[string]bool
}

func NewValidator(p *Policy, inputDir string) *Validator {
	saveOps := make(map[string]bool)
	for _, name := range ops.SaveCapable() {
		saveOps[name] = true
	}
	return &Validator{policy: p, inputDir: inputDir, saveOps: saveOps}
}

// Validate runs the full check in a fixed order: denylist containment,
// parseability, import allowlist, then write targets. The first failure
// wins and nothing downstream runs.
func (v *Validator) Validate(script string) Verdict {
	if strings.TrimSpace(script) == "" {
		return reject("", "script is empty")
	}

	// Textual containment against the raw script, comments and string
	// literals included. Ordered, case-sensitive, first match wins.
	for _, p := range v.policy.Denylist {
		if strings.Contains(script, p.Text) {
			return reject(p.Text, p.Reason)
		}
	}

	file, err := parser.ParseFile(token.NewFileSet(), "script.go", script, 0)
	if err != nil {
		// Fail closed: an unparseable script cannot be inspected, so it
		// cannot be cleared.
		return reject("", fmt.Sprintf("script is not valid Go: %v", err))
	}

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return reject(imp.Path.Value, "malformed import path")
		}
		if !v.importAllowed(path) {
			return reject(path, "import is outside the allowed set")
		}
	}

	for _, target := range literalWriteTargets(file, v.saveOps) {
		if InsideDir(target, v.inputDir) {
			return reject(target, "write target resolves inside the read-only input directory")
		}
	}

	return pass()
}

func (v *Validator) importAllowed(path string) bool {
	for _, allowed := range v.policy.AllowedImports {
		if path == allowed {
			return true
		}
	}
	return false
}

// InsideDir reports whether target resolves inside dir.
func InsideDir(target, dir string) bool {
	if target == "" {
		return false
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dirAbs, abs)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}

// WriteTargets extracts the literal write targets of a script: the final
// argument of every call to a save-capable operation, where that argument
// is a string literal. The validator and the executor both apply this;
// dynamic save paths are caught at runtime by the operation library.
func WriteTargets(script string) ([]string, error) {
	file, err := parser.ParseFile(token.NewFileSet(), "script.go", script, 0)
	if err != nil {
		return nil, fmt.Errorf("script is not valid Go: %w", err)
	}
	saveOps := make(map[string]bool)
	for _, name := range ops.SaveCapable() {
		saveOps[name] = true
	}
	return literalWriteTargets(file, saveOps), nil
}

func literalWriteTargets(file *ast.File, saveOps map[string]bool) []string {
	var targets []string
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !saveOps[sel.Sel.Name] {
			return true
		}
		lit, ok := call.Args[len(call.Args)-1].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		if target, err := strconv.Unquote(lit.Value); err == nil {
			targets = append(targets, target)
		}
		return true
	})
	return targets
}
