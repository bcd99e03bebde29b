package main

import (
	cmn "github.com/mira-lang/mira/parser/parsercommon"
)

// dumpExpr flattens a located expression into plain maps so the YAML
// output stays readable.
func dumpExpr(e *cmn.LocatedExpr) map[string]any {
	if e == nil {
		return nil
	}
	node := map[string]any{}
	if e.Region != nil {
		node["at"] = e.Region.String()
	}
	switch v := e.Value.(type) {
	case cmn.Literal:
		node["literal"] = v.Value.String()
	case cmn.Var:
		node["var"] = v.Name
	case cmn.Range:
		node["range"] = map[string]any{"from": dumpExpr(v.Lo), "to": dumpExpr(v.Hi)}
	case cmn.ExplicitList:
		node["list"] = dumpExprs(v.Elements)
	case cmn.Data:
		node["data"] = v.Name
		if len(v.Args) > 0 {
			node["args"] = dumpExprs(v.Args)
		}
	case cmn.Access:
		node["access"] = v.Field
		node["record"] = dumpExpr(v.Record)
	case cmn.Remove:
		node["remove"] = v.Field
		node["record"] = dumpExpr(v.Record)
	case cmn.Insert:
		node["insert"] = v.Field
		node["record"] = dumpExpr(v.Record)
		node["value"] = dumpExpr(v.Value)
	case cmn.Modify:
		changes := make([]any, len(v.Changes))
		for i, change := range v.Changes {
			changes[i] = map[string]any{"field": change.Field, "value": dumpExpr(change.Value)}
		}
		node["modify"] = changes
		node["record"] = dumpExpr(v.Record)
	case cmn.Record:
		fields := make([]any, len(v.Fields))
		for i, field := range v.Fields {
			fields[i] = dumpDef(field)
		}
		node["fields"] = fields
	case cmn.Binop:
		node["op"] = v.Op
		node["left"] = dumpExpr(v.Left)
		node["right"] = dumpExpr(v.Right)
	case cmn.Lambda:
		node["lambda"] = v.Pattern.String()
		node["body"] = dumpExpr(v.Body)
	case cmn.App:
		node["apply"] = dumpExpr(v.Func)
		node["arg"] = dumpExpr(v.Arg)
	case cmn.MultiIf:
		branches := make([]any, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = map[string]any{"if": dumpExpr(b.Cond), "then": dumpExpr(b.Body)}
		}
		node["multiIf"] = branches
	case cmn.Let:
		defs := make([]any, len(v.Defs))
		for i, def := range v.Defs {
			defs[i] = dumpDef(def)
		}
		node["let"] = defs
		node["in"] = dumpExpr(v.Body)
	case cmn.Case:
		clauses := make([]any, len(v.Clauses))
		for i, clause := range v.Clauses {
			clauses[i] = map[string]any{"pattern": clause.Pattern.String(), "body": dumpExpr(clause.Body)}
		}
		node["case"] = dumpExpr(v.Subject)
		node["of"] = clauses
	case cmn.Markdown:
		node["markdown"] = v.Document.String()
	}
	return node
}

func dumpExprs(es []*cmn.LocatedExpr) []any {
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = dumpExpr(e)
	}
	return out
}

func dumpDef(d *cmn.Def) map[string]any {
	node := map[string]any{
		"name":    d.Name,
		"ordinal": d.SortKey.Ordinal(),
	}
	if len(d.Patterns) > 0 {
		patterns := make([]string, len(d.Patterns))
		for i, p := range d.Patterns {
			patterns[i] = p.String()
		}
		node["patterns"] = patterns
	}
	if d.Annotation != nil {
		node["type"] = d.Annotation.String()
	}
	node["body"] = dumpExpr(d.Body)
	return node
}
