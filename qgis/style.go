// Package qgis builds QGIS style documents: layered symbol definitions
// collected into the fixed container layout the application's style manager
// imports. Property schemas, attribute orders and the document envelope
// reproduce what the application itself writes on export, since its importer
// is strict about sections it expects to find.
package qgis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// auxiliarySections must all be present in the output, even empty, or the
// consuming application refuses to import the style.
var auxiliarySections = []string{
	"colorramps",
	"textformats",
	"labelsettings",
	"legendpatchshapes",
	"symbols3d",
}

// Style is a style document under construction. Symbols are unique by name
// with the first added winning; the auxiliary sections are in place from the
// start so an empty style still serializes into an importable document.
type Style struct {
	doc     *etree.Document
	symbols *etree.Element
	names   map[string]struct{}
}

// NewStyle returns an empty style document with the required skeleton: the
// XML prolog, the document type declaration right after it, the versioned
// root and all container sections.
func NewStyle() *Style {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version='1.0' encoding='utf-8'`)
	doc.CreateDirective("DOCTYPE qgis_style")

	root := doc.CreateElement("qgis_style")
	root.CreateAttr("version", "2")
	symbols := root.CreateElement("symbols")
	for _, section := range auxiliarySections {
		root.CreateElement(section)
	}

	return &Style{doc: doc, symbols: symbols, names: make(map[string]struct{})}
}

// Has reports whether a symbol with the given name was already added.
func (s *Style) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Add appends sym to the symbols section unless its name is already taken
// and reports whether it was added.
func (s *Style) Add(sym *etree.Element) bool {
	name := sym.SelectAttrValue("name", "")
	if _, dup := s.names[name]; dup {
		return false
	}
	s.names[name] = struct{}{}
	s.symbols.AddChild(sym)
	return true
}

// Len returns the number of symbols added so far.
func (s *Style) Len() int {
	return len(s.names)
}

// WriteTo serializes the document with stable two space indentation.
func (s *Style) WriteTo(w io.Writer) (int64, error) {
	s.doc.Indent(2)
	return s.doc.WriteTo(w)
}

// WriteFile serializes the document to path, creating missing directories
// on the way.
func (s *Style) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	s.doc.Indent(2)
	if err := s.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("unable to write style document: %w", err)
	}
	return nil
}
