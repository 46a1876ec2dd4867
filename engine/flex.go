package engine

import "strings"

// Flex is an interpreted fxFlex value.
type Flex struct {
	Grow, Shrink, Basis string
	// Keyword is set when value is equivalent to one of predefined flex
	// keywords: initial, auto, none or 1.
	Keyword string
	// BasisOnly is set when only basis was given and grow and shrink are
	// implied by the target syntax.
	BasisOnly bool
}

var flexAliases = map[string]Flex{
	"initial":  {Grow: "0", Shrink: "1", Basis: "auto", Keyword: "initial"},
	"auto":     {Grow: "1", Shrink: "1", Basis: "auto", Keyword: "auto"},
	"none":     {Grow: "0", Shrink: "0", Basis: "auto", Keyword: "none"},
	"1":        {Grow: "1", Shrink: "1", Basis: "0%", Keyword: "1"},
	"nogrow":   {Grow: "0", Shrink: "1", Basis: "auto", Keyword: "initial"},
	"grow":     {Grow: "1", Shrink: "1", Basis: "100%"},
	"noshrink": {Grow: "1", Shrink: "0", Basis: "auto"},
}

type flexTriple struct{ grow, shrink, basis string }

var flexCanonical = map[flexTriple]string{
	{"0", "1", "auto"}: "initial",
	{"1", "1", "0%"}:   "1",
	{"1", "1", "auto"}: "auto",
}

// ResolveFlex interprets fxFlex tokens. Single token is a keyword, a basis
// with unit or a unitless percentage. Long form is "grow shrink basis", absent
// parts take defaults (0 1 auto) and are returned in missing.
func ResolveFlex(values []string) (f Flex, missing []string) {
	switch len(values) {
	case 0:
		return flexAliases["initial"], []string{"basis"}
	case 1:
		v := values[0]
		if a, ok := flexAliases[strings.ToLower(v)]; ok {
			return a, nil
		}
		if IsNumber(v) {
			f = Flex{Grow: "1", Shrink: "1", Basis: v + "%"}
		} else {
			f = Flex{Grow: "1", Shrink: "1", Basis: v, BasisOnly: true}
		}
		return f, nil
	}

	f = Flex{Grow: values[0], Shrink: values[1], Basis: "auto"}
	if len(values) > 2 {
		f.Basis = strings.Join(values[2:], " ")
	} else {
		missing = append(missing, "basis")
	}
	f.Keyword = flexCanonical[flexTriple{f.Grow, f.Shrink, f.Basis}]
	return f, missing
}

func (f Flex) String() string {
	if f.BasisOnly {
		return f.Basis
	}
	return f.Grow + " " + f.Shrink + " " + f.Basis
}
