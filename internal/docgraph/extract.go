package docgraph

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractRefs parses Markdown source and collects image and link
// destinations in document order. Classification and path validation
// happen later; this only walks the AST.
func extractRefs(source []byte) []Reference {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var refs []Reference
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			refs = append(refs, Reference{Raw: string(node.Destination), Kind: RefImage})
		case *ast.Link:
			refs = append(refs, Reference{Raw: string(node.Destination), Kind: RefLink})
		}
		return ast.WalkContinue, nil
	})
	return refs
}
