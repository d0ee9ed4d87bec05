// Package richtext renders Contentful rich-text document trees to plain
// strings so they can be substring-searched like any other field.
package richtext

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node is one node of a rich-text tree. The root carries nodeType
// "document"; leaves carry nodeType "text" and the displayable value.
type Node struct {
	NodeType string `json:"nodeType"`
	Value    string `json:"value"`
	Content  []Node `json:"content"`
}

// IsDocument reports whether a decoded JSON object has the rich-text
// document shape: a node-type tag alongside a content list. Locale maps and
// other plain objects lack one or both.
func IsDocument(m map[string]any) bool {
	if _, ok := m["nodeType"].(string); !ok {
		return false
	}
	_, ok := m["content"].([]any)
	return ok
}

// FromMap converts a decoded JSON object into a Node tree.
func FromMap(m map[string]any) (Node, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return Node{}, fmt.Errorf("re-encoding rich text tree: %w", err)
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return Node{}, fmt.Errorf("decoding rich text tree: %w", err)
	}
	return n, nil
}

// ToPlainText flattens a document tree to a single string. Top-level blocks
// (paragraphs, headings, list items) are joined with a single space.
// Malformed trees return an error; callers treat such fields as
// non-searchable.
func ToPlainText(doc Node) (string, error) {
	if doc.NodeType != "document" {
		return "", fmt.Errorf("root node type is %q, expected \"document\"", doc.NodeType)
	}

	parts := make([]string, 0, len(doc.Content))
	for _, block := range doc.Content {
		text, err := renderNode(block)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, " "), nil
}

func renderNode(n Node) (string, error) {
	if n.NodeType == "" {
		return "", fmt.Errorf("node is missing a node type")
	}
	if n.NodeType == "text" {
		return n.Value, nil
	}

	var b strings.Builder
	for _, child := range n.Content {
		text, err := renderNode(child)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
