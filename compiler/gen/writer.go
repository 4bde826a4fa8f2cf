package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

// writeFile renders a file, formats it with goimports and writes it to the
// target directory.
func (g *Generator) writeFile(t fileTask) error {
	var buf bytes.Buffer
	if err := t.file.Render(&buf); err != nil {
		return NewGenerationError(t.name, "render", err)
	}
	path := filepath.Join(g.cfg.Target, t.name)
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		// Keep the unformatted source next to the target for debugging.
		debugPath := path + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return NewGenerationError(t.name, "format (unformatted source written to "+debugPath+")", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError(t.name, "write", err)
	}
	g.cfg.Logger.Debug("generated file", "path", path, "bytes", len(formatted))
	return nil
}
