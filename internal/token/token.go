// Package token defines the closed set of lexical token kinds produced by
// the lexer, along with the fixed tables the lexer and parser consult:
// single-byte kind lookup, multi-byte-operator detection, reserved-word
// lookup, printable names, and expression precedence/associativity.
package token

// Kind is the closed set of lexical token kinds.
type Kind uint16

const (
	None Kind = iota
	LexError

	// Delimiters
	LParen
	RParen
	LBrace
	RBrace
	LBrack
	RBrack
	Semicolon
	Comma
	Colon
	Hash

	// Single-char operators
	Dot
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Bar
	Amper
	BitNot
	BitXor
	BoolNot
	Gt
	Lt

	// Keywords: module/import/use
	Import
	Module
	Use

	// Keywords: function/method/destructor
	Fn
	Mt
	Dt

	// Keywords: integer widths
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	USize

	// Keywords: character, floating, string, bool, void, var
	Char
	F32
	F64
	Str
	Bool
	Void
	Var

	// Keywords: qualifiers/visibility
	Compt
	Hid
	Pub
	Mut
	Static
	Extern

	// Keywords: type operators
	Sizeof
	Alignof
	Typeof
	Move
	As
	Is

	// Keywords: constructs
	Mark
	Requires
	Contract
	Union
	Struct
	Variant
	Deftype

	// Keywords: control flow
	If
	Else
	While
	For
	In
	Return
	Yield
	Break
	Match

	// Self identifier/type
	SelfId
	SelfType

	// Identifiers
	Identifier

	// Literals
	CharLit
	IntLit
	FloatLit
	StrLit
	BoolLitFalse
	BoolLitTrue
	NullLit

	// Punctuation (multi-char)
	FatArrow   // =>
	RArrow     // ->
	ScopeRes   // ..
	GenericSep // ::
	Ellipse    // ...
	EllipseEq  // ...=

	// Assignment variants
	AssignMove // <-
	Stream     // <<-

	// Increment/decrement
	Inc
	Dec

	// Shifts
	Lsh  // <<
	Rshl // >>
	Rsha // >>>

	// Boolean
	BoolOr
	BoolAnd

	// Comparison
	Ge
	Le
	BoolEq
	Ne

	// Compound assignment
	AssignPlusEq
	AssignMinusEq
	AssignMultEq
	AssignDivEq
	AssignModEq
	AssignAndEq
	AssignOrEq
	AssignXorEq
	AssignLshEq
	AssignRshlEq
	AssignRshaEq

	EOF

	numKinds
)

// kindNames holds the printable name for each Kind; see Name.
var kindNames = [numKinds]string{
	None:         "<none>",
	LexError:     "<lex-error>",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	LBrack:       "[",
	RBrack:       "]",
	Semicolon:    ";",
	Comma:        ",",
	Colon:        ":",
	Hash:         "#",
	Dot:          ".",
	Assign:       "=",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Percent:      "%",
	Bar:          "|",
	Amper:        "&",
	BitNot:       "~",
	BitXor:       "^",
	BoolNot:      "!",
	Gt:           ">",
	Lt:           "<",
	Import:       "import",
	Module:       "mod",
	Use:          "use",
	Fn:           "fn",
	Mt:           "mt",
	Dt:           "dt",
	I8:           "i8",
	U8:           "u8",
	I16:          "i16",
	U16:          "u16",
	I32:          "i32",
	U32:          "u32",
	I64:          "i64",
	U64:          "u64",
	USize:        "usize",
	Char:         "char",
	F32:          "f32",
	F64:          "f64",
	Str:          "str",
	Bool:         "bool",
	Void:         "void",
	Var:          "var",
	Compt:        "compt",
	Hid:          "hid",
	Pub:          "pub",
	Mut:          "mut",
	Static:       "static",
	Extern:       "extern",
	Sizeof:       "sizeof",
	Alignof:      "alignof",
	Typeof:       "typeof",
	Move:         "move",
	As:           "as",
	Is:           "is",
	Mark:         "mark",
	Requires:     "requires",
	Contract:     "contract",
	Union:        "union",
	Struct:       "struct",
	Variant:      "variant",
	Deftype:      "deftype",
	If:           "if",
	Else:         "else",
	While:        "while",
	For:          "for",
	In:           "in",
	Return:       "return",
	Yield:        "yield",
	Break:        "break",
	Match:        "match",
	SelfId:       "self",
	SelfType:     "Self",
	Identifier:   "<identifier>",
	CharLit:      "<char-literal>",
	IntLit:       "<int-literal>",
	FloatLit:     "<float-literal>",
	StrLit:       "<string-literal>",
	BoolLitFalse: "false",
	BoolLitTrue:  "true",
	NullLit:      "null",
	FatArrow:     "=>",
	RArrow:       "->",
	ScopeRes:     "..",
	GenericSep:   "::",
	Ellipse:      "...",
	EllipseEq:    "...=",
	AssignMove:   "<-",
	Stream:       "<<-",
	Inc:          "++",
	Dec:          "--",
	Lsh:          "<<",
	Rshl:         ">>",
	Rsha:         ">>>",
	BoolOr:       "||",
	BoolAnd:      "&&",
	Ge:           ">=",
	Le:           "<=",
	BoolEq:       "==",
	Ne:           "!=",

	AssignPlusEq:  "+=",
	AssignMinusEq: "-=",
	AssignMultEq:  "*=",
	AssignDivEq:   "/=",
	AssignModEq:   "%=",
	AssignAndEq:   "&=",
	AssignOrEq:    "|=",
	AssignXorEq:   "^=",
	AssignLshEq:   "<<=",
	AssignRshlEq:  ">>=",
	AssignRshaEq:  ">>>=",

	EOF: "<eof>",
}

// Name returns the printable name used in diagnostics for k.
func (k Kind) Name() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "<unknown>"
}

func (k Kind) String() string { return k.Name() }

// singleByteKind maps a byte value to the Kind it forms on its own, or
// None if the byte never starts a mono-char token.
var singleByteKind [256]Kind

// alwaysOneChar marks bytes that are always emitted as a single-char
// token regardless of what follows (brackets, commas, semicolons, '#').
var alwaysOneChar [256]bool

// firstByteOfMultichar marks bytes that can begin a multi-byte operator
// and therefore require max-munch disambiguation in the lexer.
var firstByteOfMultichar [256]bool

func init() {
	mono := map[byte]Kind{
		'(': LParen, ')': RParen, '{': LBrace, '}': RBrace,
		'[': LBrack, ']': RBrack, ';': Semicolon, ',': Comma,
		':': Colon, '#': Hash, '.': Dot, '=': Assign,
		'+': Plus, '-': Minus, '*': Star, '/': Slash, '%': Percent,
		'|': Bar, '&': Amper, '~': BitNot, '^': BitXor, '!': BoolNot,
		'>': Gt, '<': Lt,
	}
	for b, k := range mono {
		singleByteKind[b] = k
	}
	for _, b := range []byte{'(', ')', '{', '}', '[', ']', ';', ',', '#'} {
		alwaysOneChar[b] = true
	}
	for _, b := range []byte{'.', '=', '+', '-', '*', '/', '%', '|', '&', '~', '^', '!', '>', '<', ':'} {
		firstByteOfMultichar[b] = true
	}
}

// SingleByteKind returns the Kind a lone byte b forms, or None.
func SingleByteKind(b byte) Kind { return singleByteKind[b] }

// IsAlwaysOneChar reports whether b is always its own token.
func IsAlwaysOneChar(b byte) bool { return alwaysOneChar[b] }

// StartsMultichar reports whether b may begin a multi-byte operator.
func StartsMultichar(b byte) bool { return firstByteOfMultichar[b] }

// Keywords maps reserved-word byte sequences to their Kind.
var Keywords = map[string]Kind{
	"import": Import, "mod": Module, "use": Use,
	"fn": Fn, "mt": Mt, "dt": Dt,
	"i8": I8, "u8": U8, "i16": I16, "u16": U16,
	"i32": I32, "u32": U32, "i64": I64, "u64": U64, "usize": USize,
	"char": Char, "f32": F32, "f64": F64, "str": Str, "bool": Bool,
	"void": Void, "var": Var,
	"compt": Compt, "hid": Hid, "pub": Pub, "mut": Mut,
	"static": Static, "extern": Extern,
	"sizeof": Sizeof, "alignof": Alignof, "typeof": Typeof,
	"move": Move, "as": As, "is": Is,
	"mark": Mark, "requires": Requires, "contract": Contract, "union": Union,
	"struct": Struct, "variant": Variant, "deftype": Deftype,
	"if": If, "else": Else, "while": While, "for": For, "in": In,
	"return": Return, "yield": Yield, "break": Break, "match": Match,
	"self": SelfId, "Self": SelfType,
	"true": BoolLitTrue, "false": BoolLitFalse, "null": NullLit,
}

// Assoc is operator associativity.
type Assoc uint8

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// Precedence returns the binary-operator precedence level for k (lower
// number binds tighter, per spec §4.3) and its associativity. ok is false
// if k is not a binary operator.
func Precedence(k Kind) (level int, assoc Assoc, ok bool) {
	switch k {
	case Star, Slash, Percent:
		return 5, LeftAssoc, true
	case Plus, Minus:
		return 6, LeftAssoc, true
	case Lsh, Rshl, Rsha, Stream:
		return 7, LeftAssoc, true
	case Lt, Gt, Le, Ge:
		return 9, LeftAssoc, true
	case BoolEq, Ne:
		return 10, LeftAssoc, true
	case Amper:
		return 11, LeftAssoc, true
	case BitXor:
		return 12, LeftAssoc, true
	case Bar:
		return 13, LeftAssoc, true
	case BoolAnd:
		return 14, LeftAssoc, true
	case BoolOr:
		return 15, LeftAssoc, true
	case Assign, AssignMove,
		AssignPlusEq, AssignMinusEq, AssignMultEq, AssignDivEq, AssignModEq,
		AssignAndEq, AssignOrEq, AssignXorEq, AssignLshEq, AssignRshlEq, AssignRshaEq:
		return 16, RightAssoc, true
	default:
		return 0, LeftAssoc, false
	}
}

// IsAssignment reports whether k is one of the assignment-family operators.
func IsAssignment(k Kind) bool {
	_, _, ok := Precedence(k)
	if !ok {
		return false
	}
	switch k {
	case Assign, AssignMove,
		AssignPlusEq, AssignMinusEq, AssignMultEq, AssignDivEq, AssignModEq,
		AssignAndEq, AssignOrEq, AssignXorEq, AssignLshEq, AssignRshlEq, AssignRshaEq:
		return true
	}
	return false
}

// UnaryPrecedence is the fixed precedence level (§4.3 level 3) shared by
// all prefix unary operators.
const UnaryPrecedence = 3

// PostfixPrecedence is the fixed precedence level (§4.3 level 2) for
// postfix ++/--, member access, call, and index.
const PostfixPrecedence = 2

// IsPrefixUnary reports whether k can start a prefix-unary expression.
func IsPrefixUnary(k Kind) bool {
	switch k {
	case Inc, Dec, Plus, Minus, Star, Amper, BitNot, BoolNot,
		Sizeof, Alignof, Move, Is, Ellipse, EllipseEq, As:
		return true
	}
	return false
}
