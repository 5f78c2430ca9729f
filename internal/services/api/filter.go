package api

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// sqlCondition is a parameterized WHERE clause fragment.
type sqlCondition struct {
	Clause string
	Params []any
}

// declarationsFor builds AIP-160 field declarations from a table's schema.
func declarationsFor(table Table) (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, column := range table.Columns {
		switch column.Kind {
		case KindText:
			opts = append(opts, filtering.DeclareIdent(column.Name, filtering.TypeString))
		case KindInt, KindMillis:
			opts = append(opts, filtering.DeclareIdent(column.Name, filtering.TypeInt))
		case KindBool:
			opts = append(opts, filtering.DeclareIdent(column.Name, filtering.TypeBool))
		}
	}
	return filtering.NewDeclarations(opts...)
}

// parseFilter translates an AIP-160 expression into a parameterized SQL
// condition scoped to the table's allow-listed columns. An empty filter
// yields an empty condition.
func parseFilter(table Table, filterStr string) (sqlCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return sqlCondition{}, nil
	}

	decls, err := declarationsFor(table)
	if err != nil {
		return sqlCondition{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "build filter declarations", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return sqlCondition{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "parse filter", err)
	}

	condition, err := translateExpr(table, parsed.CheckedExpr.Expr)
	if err != nil {
		return sqlCondition{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "translate filter", err)
	}
	return condition, nil
}

func translateExpr(table Table, e *expr.Expr) (sqlCondition, error) {
	if e == nil {
		return sqlCondition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(table, kind.CallExpr)
	default:
		return sqlCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(table Table, call *expr.Expr_Call) (sqlCondition, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(table, call.Args, "AND")
	case "_||_", "OR":
		return translateLogical(table, call.Args, "OR")
	case "_==_", "=":
		return translateComparison(table, call.Args, "=")
	case "_!=_", "!=":
		return translateComparison(table, call.Args, "!=")
	case "_<_", "<":
		return translateComparison(table, call.Args, "<")
	case "_<=_", "<=":
		return translateComparison(table, call.Args, "<=")
	case "_>_", ">":
		return translateComparison(table, call.Args, ">")
	case "_>=_", ">=":
		return translateComparison(table, call.Args, ">=")
	default:
		return sqlCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(table Table, args []*expr.Expr, op string) (sqlCondition, error) {
	if len(args) != 2 {
		return sqlCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := translateExpr(table, args[0])
	if err != nil {
		return sqlCondition{}, err
	}
	right, err := translateExpr(table, args[1])
	if err != nil {
		return sqlCondition{}, err
	}

	return sqlCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateComparison(table Table, args []*expr.Expr, op string) (sqlCondition, error) {
	if len(args) != 2 {
		return sqlCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return sqlCondition{}, err
	}
	column, ok := table.column(field)
	if !ok {
		return sqlCondition{}, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return sqlCondition{}, err
	}
	if flag, ok := value.(bool); ok {
		// SQLite stores booleans as integers.
		if flag {
			value = int64(1)
		} else {
			value = int64(0)
		}
	}

	return sqlCondition{
		Clause: fmt.Sprintf("%s %s ?", column.Name, op),
		Params: []any{value},
	}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
