package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo          Code = 1000
	LexUnknownChar   Code = 1001
	LexUnknownSymbol Code = 1002
	LexUnterminated  Code = 1003
	LexFileTooLarge  Code = 1004

	// Синтаксические
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnexpectedEOF     Code = 2002
	SynExpectSemicolon   Code = 2003
	SynExpectIdentifier  Code = 2004
	SynExpectType        Code = 2005
	SynExpectExpression  Code = 2006
	SynUnclosedParen     Code = 2007
	SynUnclosedBrace     Code = 2008
	SynNotBinaryOperator Code = 2009
	SynExpressionStmt    Code = 2010
	SynMissingPayload    Code = 2011
	SynExpectColon       Code = 2012
	SynExpectLParen      Code = 2013
	SynExpectLBrace      Code = 2014
	SynNotCompoundAssign Code = 2015

	// Семантические
	SemaInfo                Code = 3000
	SemaUndeclaredVariable  Code = 3001
	SemaDuplicateVariable   Code = 3002
	SemaReservedName        Code = 3003
	SemaUnknownType         Code = 3004
	SemaTypeMismatch        Code = 3005
	SemaAddressingMismatch  Code = 3006
	SemaNarrowing           Code = 3007
	SemaReassignConstant    Code = 3008
	SemaNotInLoop           Code = 3009
	SemaIllegalBinary       Code = 3010
	SemaIllegalUnary        Code = 3011
	SemaConditionNotBool    Code = 3012
	SemaDuplicateFunction   Code = 3013
	SemaDuplicateParam      Code = 3014
	SemaMissingReturn       Code = 3015
	SemaReturnOutsideFn     Code = 3016
	SemaReturnMismatch      Code = 3017
	SemaUnsupportedTypeForm Code = 3900

	// Кодогенерация
	GenInfo               Code = 4000
	GenRegistersExhausted Code = 4001
	GenRegisterRange      Code = 4002
	GenUndeclared         Code = 4003
	GenRedeclared         Code = 4004
	GenScopeMismatch      Code = 4005
	GenFrameMismatch      Code = 4006
	GenBreakOutsideLoop   Code = 4007
	GenBadLiteral         Code = 4008
	GenUnknownOperator    Code = 4009
	GenMissingExprInfo    Code = 4010
	GenUnsupportedFn      Code = 4900
	GenUnsupportedReturn  Code = 4901
	GenUnsupportedFloat   Code = 4902

	// IO
	IOLoadFileError Code = 5001
	IOWriteError    Code = 5002
	IOCacheError    Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		LexInfo:                 "Lexical information",
		LexUnknownChar:          "Unknown character",
		LexUnknownSymbol:        "Unknown symbol sequence",
		LexUnterminated:         "Unterminated block comment",
		LexFileTooLarge:         "Source file too large",
		SynInfo:                 "Syntax information",
		SynUnexpectedToken:      "Unexpected token",
		SynUnexpectedEOF:        "Unexpected end of input",
		SynExpectSemicolon:      "Missing semicolon",
		SynExpectIdentifier:     "Expected identifier",
		SynExpectType:           "Expected type",
		SynExpectExpression:     "Expected expression",
		SynUnclosedParen:        "Unclosed parenthesis",
		SynUnclosedBrace:        "Unclosed brace",
		SynNotBinaryOperator:    "Operator cannot be used as binary",
		SynExpressionStmt:       "Expression used as statement",
		SynMissingPayload:       "Token is missing its text",
		SynExpectColon:          "Expected ':'",
		SynExpectLParen:         "Expected '('",
		SynExpectLBrace:         "Expected '{'",
		SynNotCompoundAssign:    "Operator is not an assignment",
		SemaInfo:                "Semantic information",
		SemaUndeclaredVariable:  "Undeclared variable",
		SemaDuplicateVariable:   "Variable already declared",
		SemaReservedName:        "Name collides with a type",
		SemaUnknownType:         "Unknown type",
		SemaTypeMismatch:        "Type mismatch",
		SemaAddressingMismatch:  "Addressing mode mismatch",
		SemaNarrowing:           "Narrowing assignment",
		SemaReassignConstant:    "Re-assignment of constant",
		SemaNotInLoop:           "Not inside a loop",
		SemaIllegalBinary:       "Illegal binary expression",
		SemaIllegalUnary:        "Illegal unary expression",
		SemaConditionNotBool:    "Condition is not bool",
		SemaDuplicateFunction:   "Function already declared",
		SemaDuplicateParam:      "Duplicate parameter",
		SemaMissingReturn:       "Missing return in function",
		SemaReturnOutsideFn:     "Return outside of function",
		SemaReturnMismatch:      "Return type mismatch",
		SemaUnsupportedTypeForm: "Struct and union types are not supported",
		GenInfo:                 "Codegen information",
		GenRegistersExhausted:   "Scratch registers exhausted",
		GenRegisterRange:        "Register slot out of range",
		GenUndeclared:           "Undeclared variable in codegen",
		GenRedeclared:           "Variable already active in codegen",
		GenScopeMismatch:        "Scope pop count mismatch",
		GenFrameMismatch:        "Frame offset mismatch",
		GenBreakOutsideLoop:     "Break without loop label",
		GenBadLiteral:           "Integer literal out of range",
		GenUnknownOperator:      "Operator has no lowering",
		GenMissingExprInfo:      "Expression was not checked",
		GenUnsupportedFn:        "Function lowering is not supported",
		GenUnsupportedReturn:    "Return lowering is not supported",
		GenUnsupportedFloat:     "Floating-point lowering is not supported",
		IOLoadFileError:         "I/O load file error",
		IOWriteError:            "I/O write error",
		IOCacheError:            "Cache error",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Pipeline timings",
	}
)

// Kind is the stage-level classification of a code.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLexical
	KindSyntax
	KindSemantic
	KindCodegen
	KindIO
	KindObservability
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntax:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindCodegen:
		return "codegen"
	case KindIO:
		return "io"
	case KindObservability:
		return "observability"
	}
	return "unknown"
}

// Kind reports which stage a code belongs to.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindLexical
	case ic >= 2000 && ic < 3000:
		return KindSyntax
	case ic >= 3000 && ic < 4000:
		return KindSemantic
	case ic >= 4000 && ic < 5000:
		return KindCodegen
	case ic >= 5000 && ic < 6000:
		return KindIO
	case ic >= 6000 && ic < 7000:
		return KindObservability
	}
	return KindUnknown
}

// Unsupported reports whether the code marks a designed-but-unimplemented capability.
func (c Code) Unsupported() bool {
	ic := int(c)
	return ic%1000 >= 900
}

func (c Code) ID() string {
	ic := int(c)
	switch c.Kind() {
	case KindLexical:
		return fmt.Sprintf("LEX%04d", ic)
	case KindSyntax:
		return fmt.Sprintf("SYN%04d", ic)
	case KindSemantic:
		return fmt.Sprintf("SEM%04d", ic)
	case KindCodegen:
		return fmt.Sprintf("GEN%04d", ic)
	case KindIO:
		return fmt.Sprintf("IO%04d", ic)
	case KindObservability:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
