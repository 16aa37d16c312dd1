package docs

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/erraggy/oasgen/oas"
)

// Manifest maps qualified Go names to their doc comments.
//
// Keys use the import path followed by the name, the same form the reflect
// and runtime packages produce:
//
//	Types:  github.com/org/api/pets.Pet
//	Fields: github.com/org/api/pets.Pet.Name
//	Funcs:  github.com/org/api/pets.ListPets
//	        github.com/org/api/pets.(*Store).Get
//	        github.com/org/api/pets.Store.Count
type Manifest struct {
	Types  map[string]string `json:"types,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Funcs  map[string]string `json:"funcs,omitempty"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{
		Types:  make(map[string]string),
		Fields: make(map[string]string),
		Funcs:  make(map[string]string),
	}
}

// Len returns the number of documented names.
func (m *Manifest) Len() int {
	return len(m.Types) + len(m.Fields) + len(m.Funcs)
}

// Describe returns the doc comment of a type or field. Its signature matches
// schema.DescribeFunc, so m.Describe can be passed to builder.WithDescriber.
func (m *Manifest) Describe(name string) string {
	if d, ok := m.Types[name]; ok {
		return d
	}
	return m.Fields[name]
}

// FuncDoc returns the doc comment of a function or method.
func (m *Manifest) FuncDoc(name string) string {
	return m.Funcs[name]
}

// Merge copies every entry of other into m, replacing existing ones.
func (m *Manifest) Merge(other *Manifest) {
	if other == nil {
		return
	}
	m.ensure()
	maps.Copy(m.Types, other.Types)
	maps.Copy(m.Fields, other.Fields)
	maps.Copy(m.Funcs, other.Funcs)
}

func (m *Manifest) ensure() {
	if m.Types == nil {
		m.Types = make(map[string]string)
	}
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	if m.Funcs == nil {
		m.Funcs = make(map[string]string)
	}
}

// Write encodes the manifest as indented JSON with sorted keys.
func (m *Manifest) Write(w io.Writer) error {
	data, err := oas.EncodeJSON(m)
	if err != nil {
		return fmt.Errorf("docs: encoding manifest: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the manifest to path.
func (m *Manifest) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	if err := m.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Parse decodes a manifest written by Write, typically embedded with go:embed.
func Parse(data []byte) (*Manifest, error) {
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("docs: decoding manifest: %w", err)
	}
	m.ensure()
	return m, nil
}

// ReadFile reads a manifest from path.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docs: %w", err)
	}
	return Parse(data)
}

// Summary returns the first sentence of a doc comment, or its first line when
// no sentence ends on it.
func Summary(doc string) string {
	doc = strings.TrimSpace(doc)
	line, _, _ := strings.Cut(doc, "\n")
	for i, r := range line {
		if r != '.' {
			continue
		}
		next := i + 1
		if next == len(line) || unicode.IsSpace(rune(line[next])) {
			return line[:next]
		}
	}
	return line
}
