package css

import (
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses inline CSS declaration blocks.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseInline parses content of style attribute. Malformed declarations are
// skipped, everything else is returned in source order.
func (p *Parser) ParseInline(data string) Declarations {
	var decls Declarations

	parser := css.NewParser(parse.NewInputString(data), true)
	for {
		gt, _, name := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				// End of input
				return decls
			}
			p.log.Debug("Skipping malformed declaration", zap.String("style", data), zap.Error(parser.Err()))

		case css.DeclarationGrammar:
			values := parser.Values()
			important := false
			values, important = trimImportant(values)
			if len(values) == 0 {
				continue
			}
			decls = append(decls, Declaration{
				Property:  string(name),
				Value:     parsePropertyValue(values),
				Important: important,
			})

		case css.CustomPropertyGrammar:
			var raw string
			if values := parser.Values(); len(values) > 0 {
				raw = strings.TrimSpace(string(values[0].Data))
			}
			decls = append(decls, Declaration{
				Property: string(name),
				Value:    Value{Raw: raw, Keyword: raw},
			})

		default:
			p.log.Debug("Skipping unexpected grammar in inline style", zap.Stringer("grammar", gt))
		}
	}
}

// ParseValue parses single property value.
func ParseValue(raw string) Value {
	parser := css.NewParser(parse.NewInputString("x:"+raw), true)
	if gt, _, _ := parser.Next(); gt == css.DeclarationGrammar {
		if values := parser.Values(); len(values) > 0 {
			return parsePropertyValue(values)
		}
	}
	raw = strings.TrimSpace(raw)
	return Value{Raw: raw, Keyword: raw}
}

// trimImportant removes trailing "!important" from declaration tokens.
func trimImportant(tokens []css.Token) ([]css.Token, bool) {
	end := len(tokens)
	for end > 0 && tokens[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end >= 2 &&
		tokens[end-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[end-1].Data), "important") &&
		tokens[end-2].TokenType == css.DelimToken && string(tokens[end-2].Data) == "!" {
		return tokens[:end-2], true
	}
	return tokens, false
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	// Build raw value string
	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			// Add space between non-whitespace tokens
			rawParts = append(rawParts, " ")
		}
	}
	raw := strings.TrimSpace(strings.Join(rawParts, ""))

	val := Value{Raw: raw}

	// Handle single token cases
	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == css.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// Color value
			val.Keyword = string(t.Data)
		}
		return val
	}

	// Functions (calc(), var(), etc.) and multi-value properties are kept as
	// keyword with raw value
	val.Keyword = raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	// Find where number ends
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
