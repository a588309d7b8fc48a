// Package query builds parameterized SELECT statements from a projection
// of view field names onto qualified columns.
package query

import "strings"

// ProjectionMap maps view field names such as "UploadedAt" onto qualified
// columns such as "d.uploaded_at", in projection order.
type ProjectionMap struct {
	from    strings.Builder
	alias   string
	current string
	columns map[string]string
	order   []string
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	p := &ProjectionMap{
		alias:   alias,
		current: alias,
		columns: map[string]string{},
	}
	p.from.WriteString(schema + "." + table + " " + alias)
	return p
}

// Project maps column of the most recently joined table, or of the base
// table before any Join, to view.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	q := p.current + "." + column
	p.columns[view] = q
	p.order = append(p.order, q)
	return p
}

// Join appends "kind schema.table alias ON on" and makes alias the target
// of subsequent Project calls.
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.from.WriteString(" " + kind + " " + schema + "." + table + " " + alias + " ON " + on)
	p.current = alias
	return p
}

func (p *ProjectionMap) From() string {
	return p.from.String()
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Column resolves view to its qualified column. Unknown names pass
// through unchanged.
func (p *ProjectionMap) Column(view string) string {
	if c, ok := p.columns[view]; ok {
		return c
	}
	return view
}

func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
