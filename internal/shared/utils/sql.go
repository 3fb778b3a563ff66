package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// Where gom các điều kiện WHERE động cùng positional args ($1, $2, ...)
type Where struct {
	clauses []string
	args    []any
}

// Add thêm clause, mỗi "?" trong clause được thay bằng $n tiếp theo
func (w *Where) Add(clause string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// AddSearch thêm "(col1 ILIKE ? OR col2 ILIKE ? ...)" với cùng một pattern %term%
func (w *Where) AddSearch(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	pattern := "%" + term + "%"
	for i, col := range columns {
		parts[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	w.Add("("+JoinWithOr(parts)+")", args...)
}

// SQL trả về "WHERE ..." hoặc "" nếu không có điều kiện
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(w.clauses)
}

// Args trả về args đã add, cộng thêm extra (vd. LIMIT/OFFSET)
func (w *Where) Args(extra ...any) []any {
	out := make([]any, 0, len(w.args)+len(extra))
	out = append(out, w.args...)
	return append(out, extra...)
}

// Next trả về placeholder cho arg tiếp theo sau offset arg đã add
func (w *Where) Next(offset int) string {
	return fmt.Sprintf("$%d", len(w.args)+offset)
}
