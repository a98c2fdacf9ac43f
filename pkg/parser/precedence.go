package parser

import "github.com/conneroisu/gix/pkg/lexer"

// Operator precedence levels, lowest to highest.
const (
	precedenceLowest  = iota
	precedenceImpl    // ->
	precedenceOr      // ||
	precedenceAnd     // &&
	precedenceEquals  // == !=
	precedenceCompare // < > <= >=
	precedenceHasAttr // ?
	precedenceUpdate  // //
	precedenceSum     // + -
	precedenceConcat  // ++
	precedenceProduct // * /
	precedenceCall    // function application
	precedenceSelect  // . attribute selection
)

// precedenceMap maps token types to their precedence. Fixed from the
// original table, which mistakenly keyed the "&&" precedence off the
// "and" keyword token (never produced by the lexer, since "and" is not a
// Nix keyword) and carried no entries at all for "?" or "//".
var precedenceMap = map[lexer.TokenType]int{
	lexer.TOKEN_IMPL:     precedenceImpl,
	lexer.TOKEN_OR_OP:    precedenceOr,
	lexer.TOKEN_AND_OP:   precedenceAnd,
	lexer.TOKEN_EQ:       precedenceEquals,
	lexer.TOKEN_NEQ:      precedenceEquals,
	lexer.TOKEN_LT:       precedenceCompare,
	lexer.TOKEN_GT:       precedenceCompare,
	lexer.TOKEN_LTE:      precedenceCompare,
	lexer.TOKEN_GTE:      precedenceCompare,
	lexer.TOKEN_QUESTION: precedenceHasAttr,
	lexer.TOKEN_UPDATE:   precedenceUpdate,
	lexer.TOKEN_CONCAT:   precedenceConcat,
	lexer.TOKEN_PLUS:     precedenceSum,
	lexer.TOKEN_MINUS:    precedenceSum,
	lexer.TOKEN_MULTIPLY: precedenceProduct,
	lexer.TOKEN_DIVIDE:   precedenceProduct,
	lexer.TOKEN_DOT:      precedenceSelect,
	lexer.TOKEN_OR:       precedenceCall, // 'or' after a select binds like a postfix default
}
