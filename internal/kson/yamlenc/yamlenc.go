// Package yamlenc transpiles a parsed KSON document to YAML. It builds a
// yaml.v3 Node tree by hand, rather than round-tripping through Go
// structs and yaml.Marshal, because only the Node tree carries
// HeadComment/LineComment fields — and preserving comments across the
// transpile is the entire reason this renders from the AST (with its
// trivia) instead of from the comment-free value.Value.
package yamlenc

import (
	"strconv"
	"strings"

	"github.com/kson-lang/kson/internal/kson/ast"
	"gopkg.in/yaml.v3"
)

// Encode renders root as a YAML document.
func Encode(root *ast.Root) (string, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode}
	body := nodeFor(root.Value)
	if len(root.EOFTrivia) > 0 && body != nil {
		body.FootComment = strings.Join(root.EOFTrivia, "\n")
	}
	doc.Content = []*yaml.Node{body}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func nodeFor(n ast.Node) *yaml.Node {
	switch v := n.(type) {
	case *ast.Object:
		return objectNode(v)
	case *ast.List:
		return listNode(v)
	case *ast.String:
		return scalarNode(v.Decoded, yaml.Style(0))
	case *ast.Number:
		return scalarNode(v.Raw, yaml.Style(0))
	case *ast.Boolean:
		return scalarNode(strconv.FormatBool(v.Value), yaml.Style(0))
	case *ast.Null:
		return scalarNode("null", yaml.Style(0))
	case *ast.EmbedBlock:
		return embedNode(v)
	case *ast.Error:
		return scalarNode(v.Message, yaml.Style(0))
	default:
		return scalarNode("null", yaml.Style(0))
	}
}

// embedNode mirrors jsonenc's tag-retaining object form when the block
// carries a tag; an untagged block degrades to a literal block scalar,
// YAML's closest native equivalent to "opaque raw text".
func embedNode(v *ast.EmbedBlock) *yaml.Node {
	if v.Tag == "" {
		return scalarNode(v.Body, yaml.LiteralStyle)
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content,
		scalarNode("embedTag", yaml.Style(0)), scalarNode(v.Tag, yaml.Style(0)),
		scalarNode("embedContent", yaml.Style(0)), scalarNode(v.Body, yaml.LiteralStyle),
	)
	return node
}

func withTrivia(node *yaml.Node, t ast.Trivia) *yaml.Node {
	if len(t.LeadingComments) > 0 {
		node.HeadComment = strings.Join(t.LeadingComments, "\n")
	}
	if t.TrailingComment != "" {
		node.LineComment = t.TrailingComment
	}
	return node
}

func scalarNode(value string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: style}
}

func objectNode(obj *ast.Object) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range obj.Properties {
		var key *yaml.Node
		if p.Key != nil {
			key = scalarNode(p.Key.Decoded, yaml.Style(0))
		} else {
			key = scalarNode("", yaml.Style(0))
		}
		val := withTrivia(nodeFor(p.Value), p.Trivia)
		node.Content = append(node.Content, key, val)
	}
	return node
}

func listNode(list *ast.List) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range list.Items {
		node.Content = append(node.Content, withTrivia(nodeFor(item), ast.TriviaOf(item)))
	}
	return node
}
