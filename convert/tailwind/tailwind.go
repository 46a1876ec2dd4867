// Package tailwind converts layout attributes to Tailwind CSS utility classes.
package tailwind

import (
	"strings"

	"go.uber.org/zap"

	"fxmig/engine"
)

// Descriptor of the generated markup.
var Descriptor = engine.Descriptor{
	Name:       "tailwind",
	Extensions: []string{".html", ".htm"},
	Format:     "html",
}

// New returns registry with all Tailwind converters.
func New(log *zap.Logger) *engine.Registry {
	return engine.NewRegistry(Descriptor, log).Register(
		newFlex(),
		newFlexFill(),
		newFlexOffset(),
		newFlexOrder(),
		newLayout(),
		newLayoutAlign(),
		newLayoutGap(),
	)
}

// arbitrary returns value in square brackets, spaces are not allowed in class
// names so they are replaced with underscores.
func arbitrary(v string) string {
	return "[" + strings.ReplaceAll(strings.TrimSpace(v), " ", "_") + "]"
}

// utility builds "<prefix>-<value>" class, value is put in brackets when it
// is not on the Tailwind scale. Negative values move the sign in front of the
// utility.
func utility(prefix, v string) string {
	sign := ""
	if rest, ok := strings.CutPrefix(v, "-"); ok && len(rest) > 0 {
		sign, v = "-", rest
	}
	return sign + prefix + "-" + engine.Arbitrary(v)
}
