package firewall

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// DefaultMaxRows is the row cap applied when a caller does not configure
// one explicitly.
const DefaultMaxRows = 1000

// Validate runs the full firewall policy against sql and returns the
// rewritten, row-capped statement text ready for execution. maxRows must be
// positive; a non-positive value falls back to DefaultMaxRows.
func Validate(sql string, maxRows int) (string, error) {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	trimmed := strings.TrimSpace(sql)
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), ";")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return "", reject(CodeEmptySQL, "query text is empty")
	}

	result, err := pg_query.Parse(trimmed)
	if err != nil {
		return "", reject(CodeParseError, "%s", err.Error())
	}
	if len(result.Stmts) == 0 {
		return "", reject(CodeEmptySQL, "query contains no executable statement")
	}

	for _, raw := range result.Stmts {
		node := raw.Stmt
		if node == nil {
			return "", reject(CodeNonSelect, "empty statement")
		}

		field := activeOneofField(node.ProtoReflect())
		if mutatingStatementFields[field] {
			return "", reject(CodeBlockedStatement, "%s is not a read-only statement", field)
		}

		sel := node.GetSelectStmt()
		if sel == nil {
			return "", reject(CodeNonSelect, "%s is not a SELECT", field)
		}

		w := &walker{}
		w.walk(node)
		if len(w.violations) > 0 {
			v := w.violations[0]
			return "", reject(v.code, "%s", v.message)
		}

		enforceLimit(sel, int32(maxRows))
	}

	safeSQL, err := pg_query.Deparse(result)
	if err != nil {
		return "", fmt.Errorf("firewall: deparse: %w", err)
	}
	return safeSQL, nil
}

// enforceLimit appends LIMIT maxRows when sel has none, or lowers an
// existing integer-literal LIMIT that exceeds maxRows. A non-literal LIMIT
// expression (a parameter, a subquery) is left untouched; it cannot be
// evaluated statically, so the query timeout and result-streaming cap are
// the backstop.
func enforceLimit(sel *pg_query.SelectStmt, maxRows int32) {
	if sel.LimitCount == nil {
		sel.LimitCount = integerLimitNode(maxRows)
		sel.LimitOption = pg_query.LimitOption_LIMIT_OPTION_COUNT
		return
	}

	aconst := sel.LimitCount.GetAConst()
	if aconst == nil {
		return
	}
	ival := aconst.GetIval()
	if ival == nil {
		return
	}
	if ival.Ival > maxRows {
		sel.LimitCount = integerLimitNode(maxRows)
	}
}

func integerLimitNode(n int32) *pg_query.Node {
	return &pg_query.Node{
		Node: &pg_query.Node_AConst{
			AConst: &pg_query.A_Const{
				Val: &pg_query.A_Const_Ival{Ival: &pg_query.Integer{Ival: n}},
			},
		},
	}
}
