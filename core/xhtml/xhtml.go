// Package xhtml provides parsing, querying, and mutation of XHTML documents.
// It wraps the xmlquery node tree with the operations the renumbering engine
// needs: locating elements, rewriting attributes and text, cloning fragments
// out of a document, and serializing a tree back to formatted markup.
package xhtml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/epubstudio/renote/core/encoding"
)

// EpubTypePrefix is the namespace prefix carrying structural semantics
// (epub:type) in EPUB 3 content documents.
const EpubTypePrefix = "epub"

// Document represents a parsed XHTML (or OPF) document.
type Document struct {
	root *xmlquery.Node
}

// Node represents a single node in a parsed document.
type Node struct {
	node *xmlquery.Node
}

// FormatOptions controls markup formatting behavior.
type FormatOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// Parse parses document text and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes in document order.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil if nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Serialize converts the document back to markup bytes without reformatting.
func (d *Document) Serialize() []byte {
	if d.root == nil {
		return nil
	}
	return []byte(d.root.OutputXML(true))
}

// Format pretty-prints the document. Elements holding non-whitespace text
// are written inline so running text is not broken across lines.
func (d *Document) Format(opts FormatOptions) ([]byte, error) {
	if opts.Indent == "" {
		opts.Indent = "\t"
	}
	if d.root == nil {
		return nil, fmt.Errorf("format: empty document")
	}
	var buf bytes.Buffer
	formatNode(&buf, d.root, 0, opts.Indent)
	return buf.Bytes(), nil
}

// NewElement creates a detached element node with the given name.
func NewElement(name string) *Node {
	return &Node{node: &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{node: &xmlquery.Node{Type: xmlquery.TextNode, Data: text}}
}

// Name returns the element name (without prefix).
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.node != nil && n.node.Type == xmlquery.ElementNode
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool {
	return n.node != nil && n.node.Type == xmlquery.TextNode
}

// Text returns the concatenated text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns the value of an unprefixed attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// SetAttr sets an unprefixed attribute, replacing any existing value.
func (n *Node) SetAttr(name, value string) {
	if n.node == nil {
		return
	}
	for i, attr := range n.node.Attr {
		if attr.Name.Space == "" && attr.Name.Local == name {
			n.node.Attr[i].Value = value
			return
		}
	}
	n.node.Attr = append(n.node.Attr, xmlquery.Attr{
		Name:  xml.Name{Local: name},
		Value: value,
	})
}

// Role returns the epub:type attribute value, or "" if absent.
func (n *Node) Role() string {
	if n.node == nil {
		return ""
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Space == EpubTypePrefix && attr.Name.Local == "type" {
			return attr.Value
		}
	}
	return ""
}

// SetRole sets the epub:type attribute, replacing any existing value.
func (n *Node) SetRole(value string) {
	if n.node == nil {
		return
	}
	for i, attr := range n.node.Attr {
		if attr.Name.Space == EpubTypePrefix && attr.Name.Local == "type" {
			n.node.Attr[i].Value = value
			return
		}
	}
	n.node.Attr = append(n.node.Attr, xmlquery.Attr{
		Name:  xml.Name{Space: EpubTypePrefix, Local: "type"},
		Value: value,
	})
}

// HasRole reports whether the epub:type attribute contains the given token.
// The attribute may carry several whitespace-separated values.
func (n *Node) HasRole(token string) bool {
	for _, t := range strings.Fields(n.Role()) {
		if t == token {
			return true
		}
	}
	return false
}

// Links returns the descendant <a> elements of the node in document order.
func (n *Node) Links() []*Node {
	if n.node == nil {
		return nil
	}
	var links []*Node
	collectLinks(n.node, &links)
	return links
}

func collectLinks(n *xmlquery.Node, out *[]*Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "a" {
			*out = append(*out, &Node{node: child})
		}
		collectLinks(child, out)
	}
}

// ChildNodes returns every direct child node, including text nodes.
func (n *Node) ChildNodes() []*Node {
	if n.node == nil {
		return nil
	}
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, &Node{node: child})
	}
	return children
}

// SetText replaces the node's children with a single text node.
func (n *Node) SetText(text string) {
	if n.node == nil {
		return
	}
	n.ClearChildren()
	appendNode(n.node, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// ClearChildren removes every child from the node.
func (n *Node) ClearChildren() {
	if n.node == nil {
		return
	}
	n.node.FirstChild = nil
	n.node.LastChild = nil
}

// AppendChild appends a detached node as the last child.
func (n *Node) AppendChild(child *Node) {
	if n.node == nil || child == nil || child.node == nil {
		return
	}
	appendNode(n.node, child.node)
}

// Detach removes the node from its parent, leaving the node intact.
func (n *Node) Detach() {
	if n.node == nil {
		return
	}
	node := n.node
	if p := node.Parent; p != nil {
		if p.FirstChild == node {
			p.FirstChild = node.NextSibling
		}
		if p.LastChild == node {
			p.LastChild = node.PrevSibling
		}
	}
	if node.PrevSibling != nil {
		node.PrevSibling.NextSibling = node.NextSibling
	}
	if node.NextSibling != nil {
		node.NextSibling.PrevSibling = node.PrevSibling
	}
	node.Parent = nil
	node.PrevSibling = nil
	node.NextSibling = nil
}

// Clone returns a deep, detached copy of the node. The copy shares no
// structure with the original tree, so later mutation of either side is safe.
func (n *Node) Clone() *Node {
	if n.node == nil {
		return nil
	}
	return &Node{node: cloneNode(n.node)}
}

func cloneNode(n *xmlquery.Node) *xmlquery.Node {
	cp := &xmlquery.Node{
		Type:   n.Type,
		Data:   n.Data,
		Prefix: n.Prefix,
	}
	if len(n.Attr) > 0 {
		cp.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		appendNode(cp, cloneNode(child))
	}
	return cp
}

func appendNode(parent, child *xmlquery.Node) {
	child.Parent = parent
	child.NextSibling = nil
	child.PrevSibling = parent.LastChild
	if parent.LastChild != nil {
		parent.LastChild.NextSibling = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// formatNode recursively pretty-prints a node tree.
func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			formatNode(w, child, depth, indent)
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attrName(attr))
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}
		w.WriteString("?>\n")

	case xmlquery.NotationNode:
		w.WriteString("<!")
		w.WriteString(n.Data)
		w.WriteString(">\n")

	case xmlquery.ElementNode:
		writeIndent(w, depth, indent)
		writeOpenTag(w, n)

		if n.FirstChild == nil {
			w.WriteString("/>\n")
			return
		}
		w.WriteString(">")

		if hasInlineText(n) {
			// Mixed content: keep text and nested elements on one line so
			// running text is not reflowed.
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				writeInline(w, child)
			}
		} else {
			w.WriteString("\n")
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.TextNode && strings.TrimSpace(child.Data) == "" {
					continue
				}
				formatNode(w, child, depth+1, indent)
			}
			writeIndent(w, depth, indent)
		}

		writeCloseTag(w, n)
		w.WriteString("\n")

	case xmlquery.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			writeIndent(w, depth, indent)
			w.WriteString(encoding.EscapeXMLText(n.Data))
			w.WriteString("\n")
		}

	case xmlquery.CharDataNode:
		writeIndent(w, depth, indent)
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>\n")

	case xmlquery.CommentNode:
		writeIndent(w, depth, indent)
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->\n")
	}
}

// writeInline writes a node without introducing line breaks or indentation.
func writeInline(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode:
		w.WriteString(encoding.EscapeXMLText(n.Data))
	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")
	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	case xmlquery.ElementNode:
		writeOpenTag(w, n)
		if n.FirstChild == nil {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeInline(w, child)
		}
		writeCloseTag(w, n)
	}
}

func writeOpenTag(w *bytes.Buffer, n *xmlquery.Node) {
	w.WriteString("<")
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
	for _, attr := range n.Attr {
		w.WriteString(" ")
		w.WriteString(attrName(attr))
		w.WriteString("=\"")
		w.WriteString(encoding.EscapeXMLAttr(attr.Value))
		w.WriteString("\"")
	}
}

func writeCloseTag(w *bytes.Buffer, n *xmlquery.Node) {
	w.WriteString("</")
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
	w.WriteString(">")
}

func attrName(attr xmlquery.Attr) string {
	if attr.Name.Space != "" {
		return attr.Name.Space + ":" + attr.Name.Local
	}
	return attr.Name.Local
}

// hasInlineText reports whether the element directly contains
// non-whitespace text.
func hasInlineText(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.TextNode && strings.TrimSpace(child.Data) != "" {
			return true
		}
	}
	return false
}

func writeIndent(w *bytes.Buffer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}
