package parser

import (
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/pkg/lexer"
)

// parseUnary parses unary expressions.
func (p *Parser) parseUnary(op types.UnaryOp) types.Expr {
	p.advance()
	expr := p.parseExpression(precedenceCall)

	return &types.UnaryExpr{
		Op:   op,
		Expr: expr,
	}
}

// parseBinary parses binary expressions.
func (p *Parser) parseBinary(left types.Expr, op types.BinaryOp) types.Expr {
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)

	return &types.BinaryExpr{
		Left:  left,
		Op:    op,
		Right: right,
	}
}

// parseGrouped parses parenthesized expressions.
func (p *Parser) parseGrouped() types.Expr {
	p.advance() // skip '('

	expr := p.parseExpression(precedenceLowest)

	if !p.expectPeek(lexer.TOKEN_RPAREN) {
		return nil
	}

	return expr
}

// parseFunction parses a plain identifier-parameter function: "x: body".
func (p *Parser) parseFunction() types.Expr {
	param := p.cur.Literal

	if !p.expectPeek(lexer.TOKEN_COLON) {
		return nil
	}

	p.advance()
	body := p.parseExpression(precedenceLowest)

	return &types.FunctionExpr{
		Param: param,
		Body:  body,
	}
}

// parsePatternFunction parses a pattern-based lambda starting at '{', with
// no left-hand alias: "{x, y ? d, ...}: body" or "{x}@alias: body".
func (p *Parser) parsePatternFunction() types.Expr {
	return p.parsePattern("")
}

// parsePattern parses an attribute-set destructuring pattern starting at the
// current '{' token, builds the enclosing FunctionExpr, and parses its body.
// leftAlias is the name bound by a left-side "name@{...}" form, or "" if the
// alias (if any) appears after the closing brace instead.
func (p *Parser) parsePattern(leftAlias string) types.Expr {
	p.advance() // consume '{'

	pattern := &types.Pattern{Type: types.AttrSetPattern, Name: leftAlias}

	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_ELLIPSIS) {
			pattern.Ellipsis = true
			p.advance()

			break
		}

		if !p.curIs(lexer.TOKEN_IDENT) {
			p.errors.Addf(p.cur.Line, p.cur.Column,
				"expected identifier in pattern, got %v", p.cur.Type)

			return nil
		}

		formal := types.Formal{Name: p.cur.Literal}

		if p.peekIs(lexer.TOKEN_QUESTION) {
			p.advance() // consume name, cur is now '?'
			p.advance() // consume '?', cur is now default expr start
			formal.Default = p.parseExpression(precedenceCall + 1)
		}

		pattern.Formals = append(pattern.Formals, formal)

		if p.peekIs(lexer.TOKEN_COMMA) {
			p.advance() // consume last token of formal
			p.advance() // consume comma

			continue
		}

		p.advance() // move to closing brace (or error)
	}

	if !p.curIs(lexer.TOKEN_RBRACE) {
		p.errors.Addf(p.cur.Line, p.cur.Column, "expected '}' to close pattern, got %v", p.cur.Type)

		return nil
	}

	if leftAlias == "" && p.peekIs(lexer.TOKEN_AT) {
		p.advance() // consume '}'
		p.advance() // consume '@'
		if !p.curIs(lexer.TOKEN_IDENT) {
			p.errors.Addf(p.cur.Line, p.cur.Column, "expected identifier after '@', got %v", p.cur.Type)

			return nil
		}
		pattern.Name = p.cur.Literal
	}

	if !p.expectPeek(lexer.TOKEN_COLON) {
		return nil
	}

	p.advance()
	body := p.parseExpression(precedenceLowest)

	return &types.FunctionExpr{Pattern: pattern, Body: body}
}

// parseFunctionApplication parses function applications.
func (p *Parser) parseFunctionApplication(fn types.Expr) types.Expr {
	arg := p.parseExpression(precedenceCall)

	return &types.ApplyExpr{
		Func: fn,
		Arg:  arg,
	}
}

// parseList parses list literals. Nix lists are whitespace-separated with
// no commas; the lexer/parser additionally tolerate stray commas for
// compatibility with the common typo of writing list elements comma-separated.
func (p *Parser) parseList() types.Expr {
	p.advance() // skip '['

	list := &types.ListExpr{
		Elements: []types.Expr{},
	}

	if p.curIs(lexer.TOKEN_RBRACKET) {
		return list
	}

	list.Elements = append(list.Elements, p.parseExpression(precedenceCall+1))

	for !p.peekIs(lexer.TOKEN_RBRACKET) && !p.peekIs(lexer.TOKEN_EOF) {
		p.advance()
		if p.curIs(lexer.TOKEN_RBRACKET) {
			break
		}
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()
		}
		if p.curIs(lexer.TOKEN_RBRACKET) {
			break
		}
		list.Elements = append(list.Elements, p.parseExpression(precedenceCall+1))
	}

	if !p.expectPeek(lexer.TOKEN_RBRACKET) {
		return nil
	}

	return list
}

// parseAttrSet parses attribute set literals, including "rec" sets,
// "inherit"/"inherit (e)" clauses, and dotted/dynamic-key bindings.
func (p *Parser) parseAttrSet() types.Expr {
	p.advance() // skip '{'

	attrs := &types.AttrSetExpr{
		Bindings: []types.AttrBinding{},
	}

	if p.curIs(lexer.TOKEN_REC) {
		attrs.Recursive = true
		p.advance()
	}

	if p.curIs(lexer.TOKEN_RBRACE) {
		return attrs
	}

	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_INHERIT) {
			if clause := p.parseInherit(); clause != nil {
				attrs.Inherits = append(attrs.Inherits, *clause)
			}
		} else {
			binding := p.parseBinding()
			if binding != nil {
				attrs.Bindings = append(attrs.Bindings, *binding)
			}
		}

		if p.curIs(lexer.TOKEN_RBRACE) {
			break
		}
	}

	if !p.curIs(lexer.TOKEN_RBRACE) {
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"expected '}', got %v", p.cur.Type)

		return nil
	}

	return attrs
}

// parseBinding parses a single "path = expr;" attribute binding.
func (p *Parser) parseBinding() *types.AttrBinding {
	path := p.parseAttrPath()
	if path == nil {
		return nil
	}

	if !p.expectPeek(lexer.TOKEN_ASSIGN) {
		return nil
	}

	p.advance()
	value := p.parseExpression(precedenceLowest)

	if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}

	p.advance() // position on next token

	return &types.AttrBinding{
		Path:  path,
		Value: value,
	}
}

// parseAttrPathPart parses one component of an attribute path: a plain
// identifier (including the "or" keyword, which is a valid attribute name),
// a static string literal, or an interpolated-string key ("${expr}" inside
// quotes). A bare ${expr} key outside a string literal is not accepted.
func (p *Parser) parseAttrPathPart() *types.AttrPathPart {
	switch {
	case p.curIs(lexer.TOKEN_IDENT) || p.curIs(lexer.TOKEN_OR):
		return &types.AttrPathPart{Kind: types.StaticAttrPart, Static: p.cur.Literal}
	case p.curIs(lexer.TOKEN_STRING):
		return &types.AttrPathPart{Kind: types.StaticAttrPart, Static: p.cur.Literal}
	case p.curIs(lexer.TOKEN_STRING_PART):
		expr := p.parseInterpString()

		return &types.AttrPathPart{Kind: types.DynamicAttrPart, Expr: expr}
	default:
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"expected identifier or string in attribute path, got %v", p.cur.Type)

		return nil
	}
}

// parseAttrPath parses a dotted attribute path, e.g. a.b."${c}".
func (p *Parser) parseAttrPath() []types.AttrPathPart {
	var path []types.AttrPathPart

	part := p.parseAttrPathPart()
	if part == nil {
		return nil
	}
	path = append(path, *part)

	for p.peekIs(lexer.TOKEN_DOT) {
		p.advance() // consume dot
		p.advance() // move onto next part

		part := p.parseAttrPathPart()
		if part == nil {
			return nil
		}
		path = append(path, *part)
	}

	return path
}

// parseInherit parses "inherit a b c;" and "inherit (expr) a b c;" clauses.
func (p *Parser) parseInherit() *types.InheritClause {
	p.advance() // skip 'inherit'

	clause := &types.InheritClause{}

	if p.curIs(lexer.TOKEN_LPAREN) {
		p.advance() // skip '('
		clause.From = p.parseExpression(precedenceLowest)
		if !p.expectPeek(lexer.TOKEN_RPAREN) {
			return nil
		}
		p.advance()
	}

	for p.curIs(lexer.TOKEN_IDENT) || p.curIs(lexer.TOKEN_OR) {
		clause.Attrs = append(clause.Attrs, p.cur.Literal)
		p.advance()
	}

	if !p.curIs(lexer.TOKEN_SEMICOLON) {
		p.errors.Addf(p.cur.Line, p.cur.Column, "expected ';' after inherit, got %v", p.cur.Type)

		return nil
	}
	p.advance()

	return clause
}

// parseInterpString parses a "${...}"-interpolated string literal. The
// current token must be the first TOKEN_STRING_PART.
func (p *Parser) parseInterpString() types.Expr {
	expr := &types.InterpStringExpr{}

	for {
		expr.Literals = append(expr.Literals, p.cur.Literal)
		if p.curIs(lexer.TOKEN_STRING_END) {
			break
		}
		// cur is a STRING_PART; the embedded expression begins at peek.
		p.advance()
		sub := p.parseExpression(precedenceLowest)
		expr.Exprs = append(expr.Exprs, sub)

		if !p.expectPeek(lexer.TOKEN_STRING_PART) && !p.peekIs(lexer.TOKEN_STRING_END) {
			// expectPeek already recorded an error if neither matched exactly,
			// but STRING_END is also acceptable here; re-check explicitly.
			if !p.curIs(lexer.TOKEN_STRING_PART) && !p.curIs(lexer.TOKEN_STRING_END) {
				return nil
			}
		}
	}

	return expr
}

// parseSelect parses attribute selection.
func (p *Parser) parseSelect(expr types.Expr) types.Expr {
	p.advance() // consume dot

	path := p.parseAttrPath()
	if path == nil {
		return nil
	}
	names, _ := types.StaticPath(path)

	return &types.SelectExpr{
		Expr:     expr,
		AttrPath: names,
	}
}

// parseHasAttr parses attribute existence test.
func (p *Parser) parseHasAttr(expr types.Expr) types.Expr {
	p.advance() // consume '?'

	path := p.parseAttrPath()
	if path == nil {
		return nil
	}
	names, _ := types.StaticPath(path)

	return &types.HasAttrExpr{
		Expr:     expr,
		AttrPath: names,
	}
}

// wrapDottedValue wraps value in nested single-key attribute sets for each
// remaining path component, e.g. wrapDottedValue(["b","c"], v) produces the
// equivalent of "{ b = { c = v; }; }". Bindings sharing a prefix across
// multiple dotted "let"/attrset entries are not merged; each dotted path
// introduces its own independent nesting.
func wrapDottedValue(rest []string, value types.Expr) types.Expr {
	for i := len(rest) - 1; i >= 0; i-- {
		value = &types.AttrSetExpr{
			Bindings: []types.AttrBinding{{
				Path:  []types.AttrPathPart{{Kind: types.StaticAttrPart, Static: rest[i]}},
				Value: value,
			}},
		}
	}

	return value
}

// parseOrDefault parses 'or' default expressions.
func (p *Parser) parseOrDefault(expr types.Expr) types.Expr {
	selectExpr, ok := expr.(*types.SelectExpr)
	if !ok {
		p.errors.Addf(p.cur.Line, p.cur.Column,
			"'or' can only be used with attribute selection")

		return nil
	}

	p.advance()
	selectExpr.Default = p.parseExpression(precedenceLowest)

	return selectExpr
}
