package script_test

import (
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
)

// tokensOf flattens a parsed script into token strings per logical line.
func tokensOf(t *testing.T, node ast.SchemaNode) [][]string {
	t.Helper()

	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		t.Fatalf("expected *ast.ArrayDataNode, got %T", node)
	}
	out := [][]string{}
	for i := 0; i < arr.Len(); i++ {
		line := arr.Get(i).(*ast.ArrayDataNode)
		tokens := []string{}
		for j := 0; j < line.Len(); j++ {
			tokens = append(tokens, line.Get(j).(*ast.LiteralNode).Value().(string))
		}
		out = append(out, tokens)
	}
	return out
}
