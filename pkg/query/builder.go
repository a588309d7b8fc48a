package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// condition is a WHERE fragment with one %s verb per argument.
// Verbs are replaced with numbered placeholders when the query is built.
type condition struct {
	format string
	args   []any
}

// SortField is a single ORDER BY term keyed by a projected view name.
type SortField struct {
	Field      string
	Descending bool
}

// Builder composes SELECT and COUNT queries over a ProjectionMap.
// Nil or empty filter values are skipped so optional query parameters
// can be passed through without checks at the call site.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields reads a comma-separated sort expression such as
// "filename,-uploaded_at". A leading "-" sorts descending.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return b.selectFrom() + where + b.orderBy(), args
}

func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage appends LIMIT and OFFSET to Build as trailing parameters.
func (b *Builder) BuildPage(limit, offset int) (string, []any) {
	where, args := b.where()
	n := len(args)
	sql := fmt.Sprintf(
		"%s%s%s LIMIT $%d OFFSET $%d",
		b.selectFrom(), where, b.orderBy(), n+1, n+2,
	)
	return sql, append(args, limit, offset)
}

// BuildSingle selects the row whose idField equals id. Conditions and
// ordering on the builder are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf("%s WHERE %s = $1", b.selectFrom(), b.projection.Column(idField))
	return sql, []any{id}
}

// OrderByFields replaces the default sort when fields is non-empty.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(b.projection.Column(field)+" = %s", value)
}

// WhereContains adds a case-insensitive substring match.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(b.projection.Column(field)+" ILIKE %s", "%"+*value+"%")
}

// WhereRange bounds field to [from, to). Either bound may be nil.
func (b *Builder) WhereRange(field string, from, to any) *Builder {
	col := b.projection.Column(field)
	if !isNil(from) {
		b.add(col+" >= %s", from)
	}
	if !isNil(to) {
		b.add(col+" < %s", to)
	}
	return b
}

// WhereSearch matches search as a substring of any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	terms := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		terms[i] = b.projection.Column(field) + " ILIKE %s"
		args[i] = pattern
	}
	return b.add("("+strings.Join(terms, " OR ")+")", args...)
}

func (b *Builder) add(format string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{format: format, args: args})
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		params := make([]any, len(c.args))
		for j, arg := range c.args {
			args = append(args, arg)
			params[j] = "$" + strconv.Itoa(len(args))
		}
		clauses[i] = fmt.Sprintf(c.format, params...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		terms[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
