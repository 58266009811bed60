// Package ast defines the arena-allocated AST produced by the parser
// (spec §3 "AST node (statement/expression/type)"). Tagged variants are
// modeled as one struct per variant behind the Stmt/Expr/Type marker
// interfaces, so downcasting happens through a type switch on the
// concrete pointer type rather than a separate kind tag, keeping
// the "closed tagged union, central reviewable change" property from
// spec §9 without needing manual kind dispatch at every call site.
package ast

import "github.com/bearlang/bearc/internal/lexer"

// Span is the token range a node covers; every node carries its first
// and last token so callers can reconstruct its byte span on demand
// (spec §3 "Every node carries first-token and last-token pointers").
type Span struct {
	First lexer.Token
	Last  lexer.Token
}

// Stmt is the tagged-variant interface for statement nodes.
type Stmt interface {
	stmtNode()
	Span() Span
}

// Expr is the tagged-variant interface for expression nodes.
type Expr interface {
	exprNode()
	Span() Span
}

// Type is the tagged-variant interface for type nodes.
type Type interface {
	typeNode()
	Span() Span
}

// Base is embedded by every node to provide its Span() accessor.
type Base struct{ Loc Span }

func (b Base) Span() Span { return b.Loc }

// NewSpan constructs a node's span field: Base{Loc: NewSpan(first, last)}.
func NewSpan(first, last lexer.Token) Span { return Span{First: first, Last: last} }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// File is the root AST node: the file name plus its top-level
// statements (spec §3 "file (root; holds a slice of top-level
// statements and an owning file name)").
type File struct {
	Base
	Name       string
	Statements []Stmt
}

func (*File) stmtNode() {}

// Block is a brace-delimited statement list.
type Block struct {
	Base
	Statements []Stmt
}

func (*Block) stmtNode() {}

// ModuleDecl is `mod Name { ... }`.
type ModuleDecl struct {
	Base
	Name  lexer.Token
	Inner []Stmt
}

func (*ModuleDecl) stmtNode() {}

// Import is `import "path";`.
type Import struct {
	Base
	Path lexer.Token // string-literal token
}

func (*Import) stmtNode() {}

// UseStmt is `use Module;` (or a `..`-qualified nested module path),
// naming a module definition to add to the enclosing anonymous scope's
// used-modules list (spec §4.5 "add used module").
type UseStmt struct {
	Base
	Path []lexer.Token // `..`-separated module-name segments
}

func (*UseStmt) stmtNode() {}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode() {}

// VarDecl is a variable declaration with an optional initializer.
type VarDecl struct {
	Base
	VarType Type
	Name    lexer.Token
	Init    Expr // nil if absent
}

func (*VarDecl) stmtNode() {}

// FuncKind distinguishes fn/mt/dt declarations.
type FuncKind uint8

const (
	FuncFn FuncKind = iota
	FuncMt
	FuncDt
)

// Param is one function parameter.
type Param struct {
	ParamType Type
	Name      lexer.Token
}

// FuncDecl is a function/method/destructor declaration (spec §3).
type FuncDecl struct {
	Base
	Kind        FuncKind
	ScopePrefix lexer.Token // zero value if absent; e.g. `Name` in `Name..method`
	HasPrefix   bool
	Name        lexer.Token
	Params      []Param
	ReturnType  Type // nil if absent (void)
	Body        *Block
	Marks       []Mark
}

func (*FuncDecl) stmtNode() {}

// Mark is one `name` or `name(arg)` compile-time attribute (spec GLOSSARY
// "Mark"; SPEC_FULL.md supplemented feature #2).
type Mark struct {
	Name lexer.Token
	Arg  lexer.Token // zero value if absent
	HasArg bool
}

// If is `if (cond) then [else else_]`.
type If struct {
	Base
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

func (*If) stmtNode() {}

// While is `while (cond) body`.
type While struct {
	Base
	Cond Expr
	Body Stmt
}

func (*While) stmtNode() {}

// ForC is the C-style three-clause for loop.
type ForC struct {
	Base
	Init Stmt // may be nil (empty statement)
	Cond Expr // may be nil
	Step Expr // may be nil
	Body Stmt
}

func (*ForC) stmtNode() {}

// ForIn is `for (pattern in iterable) body`.
type ForIn struct {
	Base
	Pattern  lexer.Token
	Iterable Expr
	Body     Stmt
}

func (*ForIn) stmtNode() {}

// Return is `return [expr];`.
type Return struct {
	Base
	Value Expr // nil if absent
}

func (*Return) stmtNode() {}

// Break is a `break;` statement.
type Break struct{ Base }

func (*Break) stmtNode() {}

// Yield is a `yield expr;` statement.
type Yield struct {
	Base
	Value Expr
}

func (*Yield) stmtNode() {}

// MatchArm is one `pattern => body` arm of a match statement.
type MatchArm struct {
	Pattern Expr
	Body    Stmt
}

// Match is `match (subject) { arms... }`.
type Match struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

func (*Match) stmtNode() {}

// Field is one member of a struct/union/variant/contract.
type Field struct {
	FieldType Type
	Name      lexer.Token
}

// StructKind distinguishes the four type-declaration constructs sharing
// a field-list shape.
type StructKind uint8

const (
	KindStruct StructKind = iota
	KindContract
	KindUnion
	KindVariant
)

// TypeDecl is a struct/contract/union/variant definition.
type TypeDecl struct {
	Base
	Which      StructKind
	Name       lexer.Token
	Fields     []Field
	Requires   []lexer.Token // `requires` clause identifiers, if any
	Marks      []Mark
}

func (*TypeDecl) stmtNode() {}

// DeftypeDecl is `deftype Name = Type;`, a type alias.
type DeftypeDecl struct {
	Base
	Name    lexer.Token
	Aliased Type
}

func (*DeftypeDecl) stmtNode() {}

// MarkPreamble is a `mark name` or `mark name(arg)` preamble preceding a declaration,
// standing alone in a statement list (e.g. module-level marks).
type MarkPreamble struct {
	Base
	Marks []Mark
}

func (*MarkPreamble) stmtNode() {}

// MarkDecl is a `mark Name { ... }` declaration that defines a mark
// itself, distinct from a use-site MarkPreamble.
type MarkDecl struct {
	Base
	Name lexer.Token
	Body []Stmt
}

func (*MarkDecl) stmtNode() {}

// Visibility is pub/hid.
type Visibility uint8

const (
	VisDefault Visibility = iota
	VisPub
	VisHid
)

// VisibilityStmt wraps exactly one declaration with a leading visibility
// modifier (spec §3 "visibility modifier wrapping another statement").
type VisibilityStmt struct {
	Base
	Vis  Visibility
	Decl Stmt
}

func (*VisibilityStmt) stmtNode() {}

// Empty is a bare `;`.
type Empty struct{ Base }

func (*Empty) stmtNode() {}

// StaticComptStmt wraps exactly one declaration with a leading
// `static`/`compt` qualifier (spec §4.7 "static/compt-modifier-wrapping"
// declaration kind). Either flag, or both, may be set; a repeated
// qualifier on the same declaration is diagnosed by the parser rather
// than rejected outright.
type StaticComptStmt struct {
	Base
	Static bool
	Compt  bool
	Decl   Stmt
}

func (*StaticComptStmt) stmtNode() {}

// ExternBlock is `extern { ... }`, a block of foreign-linkage
// declarations (spec §3 Definition payload variant "extern block").
// Unlike ModuleDecl it names no symbol, so its contents register into
// the enclosing scope rather than a fresh nested one.
type ExternBlock struct {
	Base
	Inner []Stmt
}

func (*ExternBlock) stmtNode() {}

// Invalid is a synthetic node produced during error recovery; its span
// still spans from the point of failure to the last discarded token so
// the rest of the file keeps well-formed spans (spec §4.3 "Error
// recovery").
type Invalid struct{ Base }

func (*Invalid) stmtNode() {}
func (*Invalid) exprNode() {}
func (*Invalid) typeNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// IdentPath is a non-empty sequence of identifier tokens separated by
// `..` (spec GLOSSARY "Identifier path").
type IdentPath struct {
	Base
	Parts []lexer.Token
}

func (*IdentPath) exprNode() {}

// Literal wraps a single literal token (int/float/string/char/bool/null).
type Literal struct {
	Base
	Tok lexer.Token
}

func (*Literal) exprNode() {}

// Binary is `lhs op rhs`.
type Binary struct {
	Base
	Lhs Expr
	Op  lexer.Token
	Rhs Expr
}

func (*Binary) exprNode() {}

// CopyAssign is `lhs = rhs` (and compound-assignment variants).
type CopyAssign struct {
	Base
	Lhs Expr
	Op  lexer.Token
	Rhs Expr
}

func (*CopyAssign) exprNode() {}

// MoveAssign is `lhs <- rhs`, destructive-read move semantics (spec
// GLOSSARY "Move-assign").
type MoveAssign struct {
	Base
	Lhs Expr
	Rhs Expr
}

func (*MoveAssign) exprNode() {}

// Grouping is a parenthesized expression.
type Grouping struct {
	Base
	Inner Expr
}

func (*Grouping) exprNode() {}

// PreUnary is a prefix-unary expression (`-x`, `!x`, `sizeof(x)`, ...).
type PreUnary struct {
	Base
	Op      lexer.Token
	Operand Expr
}

func (*PreUnary) exprNode() {}

// PostUnary is a postfix `x++`/`x--`.
type PostUnary struct {
	Base
	Operand Expr
	Op      lexer.Token
}

func (*PostUnary) exprNode() {}

// Call is a function-call expression.
type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// Member is `x.field` or `x->field`.
type Member struct {
	Base
	Receiver Expr
	Arrow    bool
	Name     lexer.Token
}

func (*Member) exprNode() {}

// Index is `x[i]`.
type Index struct {
	Base
	Receiver Expr
	Idx      Expr
}

func (*Index) exprNode() {}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

// BaseType is an identifier-path or builtin-keyword type, with an
// optional mutability flag (leading or trailing `mut`, never both).
type BaseType struct {
	Base
	Path       []lexer.Token
	Builtin    lexer.Token // zero value if Path is used instead
	IsBuiltin  bool
	Mutable    bool
	GenericArgs []Type
}

func (*BaseType) typeNode() {}

// PtrModifier distinguishes `&` (reference) from `*` (pointer).
type PtrModifier uint8

const (
	ModifierRef PtrModifier = iota
	ModifierPtr
)

// RefOrPtr is `T&`, `T&mut`, `T*`, or `T*mut` (the modifier follows the
// type it applies to).
type RefOrPtr struct {
	Base
	Modifier PtrModifier
	Mutable  bool
	Inner    Type
}

func (*RefOrPtr) typeNode() {}

// ArrayType is `T[N]` (fixed size).
type ArrayType struct {
	Base
	Inner Type
	Size  Expr
}

func (*ArrayType) typeNode() {}

// SliceType is `T[]`; Mutable is set when the element type is a `&mut`
// reference (`T&mut[]`).
type SliceType struct {
	Base
	Inner   Type
	Mutable bool
}

func (*SliceType) typeNode() {}

// GenericType is `Base<Args...>` or `Base::Args...`.
type GenericType struct {
	Base
	Inner Type
	Args  []Type
}

func (*GenericType) typeNode() {}

// FuncPtrType is `fn(ParamTypes...) -> Ret`.
type FuncPtrType struct {
	Base
	Params  []Type
	Ret     Type // nil if void
	Mutable bool
}

func (*FuncPtrType) typeNode() {}

// VariadicType wraps an inner type that accepts a variable argument
// count at the syntactic tail of a parameter list.
type VariadicType struct {
	Base
	Inner Type
}

func (*VariadicType) typeNode() {}
