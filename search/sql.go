package search

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderSQL is the ORDER BY clause matching Less.
const OrderSQL = "created_at DESC, id ASC"

const likeEscape = "!"

// SQL compiles pred into a parameterised WHERE fragment using ? placeholders.
// An empty conjunction compiles to an empty string, meaning no WHERE clause.
func SQL(pred Predicate) (string, []any, error) {
	if all, ok := pred.(All); ok && len(all) == 0 {
		return "", nil, nil
	}
	var args []any
	clause, err := compileSQL(pred, &args)
	if err != nil {
		return "", nil, err
	}
	return clause, args, nil
}

func compileSQL(pred Predicate, args *[]any) (string, error) {
	switch p := pred.(type) {
	case All:
		return joinSQL(p, " AND ", "1 = 1", args)
	case Any:
		return joinSQL(p, " OR ", "1 = 0", args)
	case Contains:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, "%"+escapeLike(strings.ToLower(p.Text))+"%")
		return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", col, likeEscape), nil
	case Equals:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, p.Value)
		return col + " = ?", nil
	case AtLeast:
		return compareSQL(p.Field, ">=", p.Value.Ceil(), p.Value, args)
	case AtMost:
		return compareSQL(p.Field, "<=", p.Value.Floor(), p.Value, args)
	}
	return "", fmt.Errorf("search: unsupported predicate %T", pred)
}

func joinSQL(children []Predicate, sep, empty string, args *[]any) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for _, child := range children {
		part, err := compileSQL(child, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// compareSQL binds whole-number fields to the rounded bound so an integer
// column is never compared against a fraction.
func compareSQL(f Field, op string, whole, exact decimal.Decimal, args *[]any) (string, error) {
	info, ok := fields[f]
	if !ok {
		return "", fmt.Errorf("search: unknown field %q", f)
	}
	switch info.kind {
	case kindInt:
		*args = append(*args, whole.IntPart())
	case kindFloat:
		*args = append(*args, exact.InexactFloat64())
	case kindMoney:
		*args = append(*args, exact.String())
	default:
		return "", fmt.Errorf("search: field %q is not numeric", f)
	}
	return fmt.Sprintf("%s %s ?", info.column, op), nil
}

func column(f Field) (string, error) {
	info, ok := fields[f]
	if !ok {
		return "", fmt.Errorf("search: unknown field %q", f)
	}
	return info.column, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}
