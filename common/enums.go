// The only reason this package exists is because both configuration and
// command line need the same enums and config must not depend on conversion
// packages. So enums live here.
package common

//go:generate go tool go-enum --marshal --names --values

// Specification of requested conversion target.
// ENUM(tailwind, plain-css)
type Target int

// Classes reports whether target expresses layout with utility classes rather
// than inline declarations.
func (t Target) Classes() bool {
	return t == TargetTailwind
}
