package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/metamodel"
)

// Document is the content of a single class descriptor file.
type Document struct {
	Classes  []*ClassDetails `json:"classes,omitempty" yaml:"classes,omitempty"`
	Mappings *Mappings       `json:"mappings,omitempty" yaml:"mappings,omitempty"`
}

// Extensions lists the file extensions Load reads.
var Extensions = []string{".yaml", ".yml", ".json"}

// Parse decodes a descriptor document. JSON input is detected by its
// leading brace, anything else is decoded as YAML.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
		return doc, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml document: %w", err)
	}
	return doc, nil
}

// MarshalDocument encodes a document as YAML.
func MarshalDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadFile reads a single descriptor file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, metamodel.NewModelError("", "", path, err)
	}
	for _, c := range doc.Classes {
		c.Pos = path
	}
	if doc.Mappings != nil {
		doc.Mappings.Source = path
	}
	return doc, nil
}

// Load reads the given files and directories into a new registry.
// Directories are walked recursively in lexical order and only files with
// one of the Extensions are read.
func Load(paths ...string) (*Registry, error) {
	r := NewRegistry()
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := r.addFile(root); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasExtension(path) {
				return nil
			}
			return r.addFile(path)
		})
		if err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) addFile(path string) error {
	doc, err := LoadFile(path)
	if err != nil {
		return err
	}
	if err := r.Add(doc.Classes...); err != nil {
		return err
	}
	r.AddMappings(doc.Mappings)
	return nil
}

func hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
