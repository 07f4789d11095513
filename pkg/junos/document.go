package junos

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Input errors. Any of these aborts a run.
var (
	ErrNotFound        = errors.New("configuration file not found")
	ErrMalformed       = errors.New("malformed XML")
	ErrNoConfiguration = errors.New("document has no <rpc-reply><configuration> element")
)

var configurationExpr = xpath.MustCompile(`/*[local-name()="rpc-reply"]/*[local-name()="configuration"]`)

// Document is a parsed configuration export. It is read-only once loaded.
type Document struct {
	Path          string            `json:"path"`
	Size          int               `json:"size"`
	Namespaces    map[string]string `json:"namespaces,omitempty"`
	Root          *xmlquery.Node    `json:"-"`
	Configuration *xmlquery.Node    `json:"-"`
}

// ReadFile reads the raw bytes of the document at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse parses an in-memory document. The payload must sit inside an
// rpc-reply envelope.
func Parse(data []byte) (*Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cfg := xmlquery.QuerySelector(root, configurationExpr)
	if cfg == nil {
		return nil, ErrNoConfiguration
	}

	return &Document{
		Size:          len(data),
		Namespaces:    collectNamespaces(root),
		Root:          root,
		Configuration: cfg,
	}, nil
}

// checkWellFormed runs a strict token pass over data.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if _, ok := tok.(xml.StartElement); ok {
			sawRoot = true
		}
	}
	if !sawRoot {
		return fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return nil
}

// collectNamespaces returns the prefix -> URI declarations of the root element.
func collectNamespaces(root *xmlquery.Node) map[string]string {
	top := FirstElement(root)
	if top == nil {
		return nil
	}
	ns := make(map[string]string)
	for _, attr := range top.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			ns[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			ns[""] = attr.Value
		}
	}
	if len(ns) == 0 {
		return nil
	}
	return ns
}

// Select evaluates a compiled expression relative to the configuration element.
func (d *Document) Select(expr *xpath.Expr) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(d.Configuration, expr)
}

// CountElements returns how many elements with the given local name exist
// anywhere under the configuration element.
func (d *Document) CountElements(name string) int {
	n := 0
	Walk(d.Configuration, func(el *xmlquery.Node) bool {
		if el.Data == name {
			n++
		}
		return true
	})
	return n
}
