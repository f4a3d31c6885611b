package ast

import (
	"go/ast"
)

// searchForHTTPMethodSwitch finds the first switch on r.Method in a handler
// body and returns the methods its cases handle
func searchForHTTPMethodSwitch(rootNode ast.Node) []string {
	if rootNode == nil {
		return nil
	}
	var methods []string
	done := false
	inspector := func(n ast.Node) bool {
		if done {
			return false
		}
		switchStmt, ok := n.(*ast.SwitchStmt)
		if !ok {
			return true
		}
		selectorExpr, ok := switchStmt.Tag.(*ast.SelectorExpr)
		if ok && selectorExpr.Sel.Name == selMethod {
			methods = extractHTTPMethodsFromSwitch(switchStmt)
			done = true
		}
		return !done
	}
	ast.Inspect(rootNode, inspector)
	return methods
}

func extractHTTPMethodsFromSwitch(switchStmt *ast.SwitchStmt) []string {
	httpMethodsHandled := make([]string, 0, 2)
	for _, c := range switchStmt.Body.List {
		caseClause, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}
		for _, l := range caseClause.List {
			if matched := methodName(l); len(matched) > 0 && !contains(httpMethodsHandled, matched) {
				httpMethodsHandled = append(httpMethodsHandled, matched)
			}
		}
	}
	return httpMethodsHandled
}
