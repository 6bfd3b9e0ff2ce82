package catalog

import (
	"fmt"
	"strings"
)

// ResolutionError means the instruction could not be tied to exactly one
// input artifact. The turn ends before any prompt is built; the user is
// asked to name the file.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return "cannot resolve target file: " + e.Reason
}

// Target is the artifact and sheet an instruction operates on.
type Target struct {
	Artifact Artifact
	Sheet    string
}

// Resolve ties an instruction to one readable artifact. A filename
// mentioned in the instruction wins (matched with or without extension,
// case-insensitive); otherwise a single-artifact catalog resolves to that
// artifact. Anything else is a ResolutionError.
func (c *Catalog) Resolve(instruction string) (Target, error) {
	readable := make([]Artifact, 0, len(c.Artifacts))
	for _, artifact := range c.Artifacts {
		if artifact.Err == nil {
			readable = append(readable, artifact)
		}
	}
	if len(readable) == 0 {
		return Target{}, &ResolutionError{Reason: "the input directory has no readable spreadsheet files"}
	}

	lower := strings.ToLower(instruction)

	var mentioned []Artifact
	for _, artifact := range readable {
		name := strings.ToLower(artifact.Name)
		stem := strings.TrimSuffix(name, strings.ToLower(extOf(name)))
		if strings.Contains(lower, name) || (stem != "" && strings.Contains(lower, stem)) {
			mentioned = append(mentioned, artifact)
		}
	}

	var chosen Artifact
	switch {
	case len(mentioned) == 1:
		chosen = mentioned[0]
	case len(mentioned) > 1:
		return Target{}, &ResolutionError{
			Reason: fmt.Sprintf("the instruction names %d files; name exactly one", len(mentioned)),
		}
	case len(readable) == 1:
		chosen = readable[0]
	default:
		return Target{}, &ResolutionError{
			Reason: fmt.Sprintf("%d input files are available; name the one to work on", len(readable)),
		}
	}

	return Target{Artifact: chosen, Sheet: resolveSheet(chosen, lower)}, nil
}

// resolveSheet picks a sheet mentioned by name, defaulting to the first.
func resolveSheet(artifact Artifact, lowerInstruction string) string {
	if len(artifact.Sheets) == 0 {
		return ""
	}
	for _, sheet := range artifact.Sheets {
		if sheet.Name == CSVSheetName {
			continue
		}
		if strings.Contains(lowerInstruction, strings.ToLower(sheet.Name)) {
			return sheet.Name
		}
	}
	return artifact.Sheets[0].Name
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
