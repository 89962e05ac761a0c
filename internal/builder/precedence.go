package builder

import "github.com/estreegen/jsparse/internal/lexer"

// Binding powers, higher binds tighter. This table is the normative grammar
// for expression(), per §6.4/§11 of SPEC_FULL.md: there is no separate LR
// grammar to keep in sync with it.
const (
	bpNone = -1
	// bpSequence documents where the comma operator would sit in this table;
	// it has no case in infixBindingPower because sequenceOrExpressionLoc
	// handles top-level commas itself, outside the Pratt loop.
	bpSequence      = 0
	bpAssignment    = 3
	bpConditional   = 4
	bpLogicalOr     = 4
	bpLogicalAnd    = 5
	bpBitwiseOr     = 6
	bpBitwiseXor    = 7
	bpBitwiseAnd    = 8
	bpEquality      = 9
	bpRelational    = 10
	bpShift         = 11
	bpAdditive      = 12
	bpMultiplicative = 13
	bpExponent      = 14
	bpPrefix        = 15
	bpCall          = 17
	bpMember        = 18
	bpArrow         = 18
	bpPrimary       = 100
)

// infixBindingPower returns the binding power of t used as an infix/postfix
// operator, or bpNone if t cannot continue an expression.
func infixBindingPower(t lexer.TokenType) int {
	switch t {
	case lexer.DOT, lexer.LBRACKET:
		return bpMember
	case lexer.LPAREN, lexer.BACKTICK:
		return bpCall
	case lexer.STAR_STAR:
		return bpExponent
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return bpMultiplicative
	case lexer.PLUS, lexer.MINUS:
		return bpAdditive
	case lexer.SHL, lexer.SHR, lexer.USHR:
		return bpShift
	case lexer.LT, lexer.LT_EQ, lexer.GT, lexer.GT_EQ, lexer.IN, lexer.INSTANCEOF:
		return bpRelational
	case lexer.EQ, lexer.NOT_EQ, lexer.EQ_STRICT, lexer.NOT_EQ_STRICT:
		return bpEquality
	case lexer.AMP:
		return bpBitwiseAnd
	case lexer.CARET:
		return bpBitwiseXor
	case lexer.PIPE:
		return bpBitwiseOr
	case lexer.AND_AND:
		return bpLogicalAnd
	case lexer.OR_OR, lexer.NULLISH:
		return bpLogicalOr
	case lexer.QUESTION:
		return bpConditional
	case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.STAR_STAR_ASSIGN, lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN,
		lexer.SHL_ASSIGN, lexer.SHR_ASSIGN, lexer.USHR_ASSIGN, lexer.AMP_ASSIGN,
		lexer.PIPE_ASSIGN, lexer.CARET_ASSIGN, lexer.AND_AND_ASSIGN,
		lexer.OR_OR_ASSIGN, lexer.NULLISH_ASSIGN:
		return bpAssignment
	case lexer.PLUS_PLUS, lexer.MINUS_MINUS:
		return bpMember // postfix update binds like member/call, per ratel-core
	default:
		return bpNone
	}
}

// isRightAssociative reports whether the operator at bp groups right-to-left
// (exponentiation, conditional, assignment).
func isRightAssociative(t lexer.TokenType) bool {
	switch t {
	case lexer.STAR_STAR, lexer.QUESTION,
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.STAR_STAR_ASSIGN, lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN,
		lexer.SHL_ASSIGN, lexer.SHR_ASSIGN, lexer.USHR_ASSIGN, lexer.AMP_ASSIGN,
		lexer.PIPE_ASSIGN, lexer.CARET_ASSIGN, lexer.AND_AND_ASSIGN,
		lexer.OR_OR_ASSIGN, lexer.NULLISH_ASSIGN:
		return true
	default:
		return false
	}
}

func isAssignmentOperator(t lexer.TokenType) bool {
	switch t {
	case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.STAR_STAR_ASSIGN, lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN,
		lexer.SHL_ASSIGN, lexer.SHR_ASSIGN, lexer.USHR_ASSIGN, lexer.AMP_ASSIGN,
		lexer.PIPE_ASSIGN, lexer.CARET_ASSIGN, lexer.AND_AND_ASSIGN,
		lexer.OR_OR_ASSIGN, lexer.NULLISH_ASSIGN:
		return true
	default:
		return false
	}
}

func isLogicalOperator(t lexer.TokenType) bool {
	return t == lexer.AND_AND || t == lexer.OR_OR || t == lexer.NULLISH
}
