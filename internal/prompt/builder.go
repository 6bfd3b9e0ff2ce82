// Package prompt assembles the generation prompt. Section order is fixed:
// available data first, then the operation library, then the instruction.
// The instruction text is passed through verbatim, never paraphrased.
package prompt

import (
	"fmt"
	"strings"

	"github.com/haozl/sheetwright/internal/catalog"
	"github.com/haozl/sheetwright/pkg/ops"
)

// Builder renders prompts for one session. The output directory is baked
// in so generated scripts derive result paths with OutputPath.
type Builder struct {
	outputDir string
}

func NewBuilder(outputDir string) *Builder {
	return &Builder{outputDir: outputDir}
}

// Build renders the prompt for one turn.
func (b *Builder) Build(cat *catalog.Catalog, target catalog.Target, instruction string) string {
	var sb strings.Builder

	sb.WriteString("## Available data\n\n")
	sb.WriteString("Input files (read-only, never write into this directory):\n")
	sb.WriteString(cat.Describe())
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "The instruction targets file %q", target.Artifact.Path)
	if target.Sheet != "" {
		fmt.Fprintf(&sb, ", sheet %q", target.Sheet)
	}
	sb.WriteString(".\n")
	fmt.Fprintf(&sb, "Write results only via ops.OutputPath with output directory %q.\n\n", b.outputDir)

	sb.WriteString("## Available operations\n\n")
	fmt.Fprintf(&sb, "Import %q as ops. These are the only operations; do not touch files any other way.\n\n", ops.ImportPath)
	for _, sig := range ops.Signatures() {
		fmt.Fprintf(&sb, "ops.%s(%s) %s\n    %s\n", sig.Name, sig.Params, sig.Returns, sig.Doc)
	}
	sb.WriteString("\n")

	sb.WriteString("## Instruction\n\n")
	sb.WriteString(instruction)
	sb.WriteString("\n")

	return sb.String()
}
