package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const outputStamp = "20060102150405"

// OutputPath derives a result filename from a source artifact:
// {base}_{label}_{timestamp}{ext} inside outDir, keeping the source
// extension. When the derived name already exists a numeric suffix is
// appended, so two outputs from the same source in the same second never
// collide and no existing file is overwritten.
func OutputPath(sourcePath, label, outDir string) string {
	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), ext)
	label = sanitizeLabel(label)
	stamp := time.Now().Format(outputStamp)

	name := fmt.Sprintf("%s_%s_%s%s", base, label, stamp, ext)
	candidate := filepath.Join(outDir, name)
	for n := 2; exists(candidate); n++ {
		name = fmt.Sprintf("%s_%s_%s_%d%s", base, label, stamp, n, ext)
		candidate = filepath.Join(outDir, name)
	}
	return candidate
}

// sanitizeLabel keeps the operation label filesystem-safe.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "result"
	}
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "result"
	}
	return b.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
