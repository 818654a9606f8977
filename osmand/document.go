// Package osmand reads OsmAnd rendering style documents and extracts the
// point and road symbology rules this program understands. The style is a
// deeply nested rule tree (switch/apply/case groupings) where attribute
// values may live on ancestor nodes rather than the matching rule itself,
// so extraction keeps read-only references into the parsed tree.
package osmand

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Document is a parsed OsmAnd rendering style. It is read-only: extractors
// walk the tree but never modify it.
type Document struct {
	doc *etree.Document
}

// ReadDocument parses a rendering style from r. Parsing is permissive about
// encodings and minor XML defects the same way real styles in the wild
// require, but a document without a root element is not usable at all.
func ReadDocument(r io.Reader, log *zap.Logger) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read rendering style: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("rendering style has no root element")
	}
	if root.Tag != "renderingStyle" {
		log.Warn("Unexpected root element in rendering style, proceeding anyway", zap.String("tag", root.Tag))
	}
	return &Document{doc: doc}, nil
}

// Root returns the root element of the underlying tree.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// forEachElement visits el and all its descendant elements in document order.
func forEachElement(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		forEachElement(child, fn)
	}
}

// findElement returns el or its first descendant with the given tag in
// document order, nil when the subtree has none.
func findElement(el *etree.Element, tag string) *etree.Element {
	if el.Tag == tag {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}
