package document

import (
	"fmt"
	"os"
)

// Load reads the file at path into a new Document.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return New(path, string(content)), nil
}

// Save writes the text back to the document's path, keeping the file mode of
// an existing file.
func (d *Document) Save() error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(d.path, []byte(d.text), mode); err != nil {
		return fmt.Errorf("save %s: %w", d.path, err)
	}
	return nil
}
