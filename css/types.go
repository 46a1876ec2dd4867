package css

import (
	"io"
	"slices"
	"strings"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "row wrap", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", etc.
	Keyword string  // Keyword if applicable: "flex", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	return v.Raw == "0"
}

// IsKeyword returns true if the value is a single keyword.
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && !strings.ContainsAny(v.Keyword, " \t(,")
}

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property  string // lower case, custom properties keep their case
	Value     Value
	Important bool
}

func (d Declaration) String() string {
	var sb strings.Builder
	sb.WriteString(d.Property)
	sb.WriteString(": ")
	sb.WriteString(d.Value.Raw)
	if d.Important {
		sb.WriteString(" !important")
	}
	return sb.String()
}

// Declarations is an ordered declaration block, e.g. content of style
// attribute.
type Declarations []Declaration

func (ds Declarations) index(property string) int {
	property = normalizeProperty(property)
	return slices.IndexFunc(ds, func(d Declaration) bool { return d.Property == property })
}

// Get returns value of the last declaration of the property.
func (ds Declarations) Get(property string) (Value, bool) {
	property = normalizeProperty(property)
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].Property == property {
			return ds[i].Value, true
		}
	}
	return Value{}, false
}

// Set replaces value of existing property keeping its position or appends new
// declaration. Later duplicates of the property are removed. Like append, Set
// may reuse ds storage.
func (ds Declarations) Set(property, value string) Declarations {
	d := Declaration{Property: normalizeProperty(property), Value: ParseValue(value)}
	i := ds.index(property)
	if i < 0 {
		return append(ds, d)
	}
	ds[i] = d
	rest := slices.DeleteFunc(slices.Clone(ds[i+1:]), func(o Declaration) bool { return o.Property == d.Property })
	return append(ds[:i+1], rest...)
}

// Merge sets every declaration of other on a copy of ds.
func (ds Declarations) Merge(other Declarations) Declarations {
	res := slices.Clone(ds)
	for _, d := range other {
		res = res.Set(d.Property, d.Value.Raw)
		res[res.index(d.Property)].Important = d.Important
	}
	return res
}

// WriteTo serializes declarations in a form suitable for style attribute.
func (ds Declarations) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, ds.String())
	return int64(n), err
}

func (ds Declarations) String() string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		parts = append(parts, d.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

func normalizeProperty(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "--") {
		return p
	}
	return strings.ToLower(p)
}
