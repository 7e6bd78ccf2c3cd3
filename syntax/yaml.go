package syntax

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyNode is returned when a sequence node carries no label.
var ErrEmptyNode = errors.New("tree node without label")

// Variable is one declared parameter or local.
type Variable struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Subprogram is one subprogram as handed over by the front-end: its
// declarations and the raw body tree.
type Subprogram struct {
	Name   string     `yaml:"name"`
	Params []Variable `yaml:"params"`
	Locals []Variable `yaml:"locals"`
	Body   *Node      `yaml:"body"`
}

// Document is a file of subprograms.
type Document struct {
	Subprograms []Subprogram `yaml:"subprograms"`
}

// UnmarshalYAML reads a tree written as nested flow sequences. A scalar is
// a leaf; a sequence is [LABEL, child, child, ...].
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.DocumentNode:
		if len(value.Content) == 0 {
			return ErrEmptyNode
		}

		return n.UnmarshalYAML(value.Content[0])
	case yaml.AliasNode:
		return n.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		n.Label = value.Value
		n.Children = nil

		return nil
	case yaml.SequenceNode:
		if len(value.Content) == 0 || value.Content[0].Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %w", value.Line, ErrEmptyNode)
		}

		n.Label = value.Content[0].Value
		n.Children = make([]*Node, 0, len(value.Content)-1)
		for _, item := range value.Content[1:] {
			child := &Node{}
			if err := child.UnmarshalYAML(item); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		}

		return nil
	default:
		return fmt.Errorf("line %d: unsupported tree node kind %d",
			value.Line, value.Kind)
	}
}

// MarshalYAML writes the tree back in flow form.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.toYAML(), nil
}

func (n *Node) toYAML() *yaml.Node {
	if n.IsLeaf() {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: n.Label}
	}

	out := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	out.Content = append(out.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: n.Label})
	for _, c := range n.Children {
		out.Content = append(out.Content, c.toYAML())
	}

	return out
}

// Parse reads a single tree.
func Parse(src string) (*Node, error) {
	n := &Node{}
	if err := yaml.Unmarshal([]byte(src), n); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}

	return n, nil
}

// MustParse is Parse that panics on error. Meant for tests and samples.
func MustParse(src string) *Node {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return n
}

// ParseDocument reads a document of subprograms.
func ParseDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	for i, sub := range doc.Subprograms {
		if sub.Body == nil {
			return nil, fmt.Errorf("subprogram %d (%q): missing body", i, sub.Name)
		}
	}

	return doc, nil
}

// LoadDocument reads a document of subprograms from a file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseDocument(data)
}
