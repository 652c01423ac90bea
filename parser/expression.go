package parser

// The untyped expression tree produced by the parser. A binary node keeps
// either an *ExpressionTerm or another *ExpressionStm on each side.

type UnaryOpTP int

const (
	NoneUnaryOpTp UnaryOpTP = iota
	NegativeUnaryOpTp
)

type ExpressionTermTP int

const (
	LiteralExpressionTermTP ExpressionTermTP = iota
	IdentifierExpressionTermTP
	FuncCallExpressionTermTP
	SubExpressionTermTP
)

type ExpressionTerm struct {
	UnaryOp      UnaryOpTP
	Tp           ExpressionTermTP
	RealExprTerm interface{}
}

// LiteralExpressionStm keeps the raw literal bytes, quotes included for
// strings, so the storage layer can infer its type.
type LiteralExpressionStm []byte

type IdentifierExpression string

type FunctionCallExpressionStm struct {
	FuncName string
	Params   []*ExpressionStm
}

type ExpressionOp struct {
	Tp       TokenType
	Priority int
	Name     string
}

var (
	OperationMul        = &ExpressionOp{Tp: MUL, Priority: 5, Name: "*"}
	OperationDivide     = &ExpressionOp{Tp: DIVIDE, Priority: 5, Name: "/"}
	OperationMod        = &ExpressionOp{Tp: MOD, Priority: 5, Name: "%"}
	OperationAdd        = &ExpressionOp{Tp: PLUS, Priority: 4, Name: "+"}
	OperationMinus      = &ExpressionOp{Tp: MINUS, Priority: 4, Name: "-"}
	OperationEqual      = &ExpressionOp{Tp: EQUAL, Priority: 3, Name: "="}
	OperationNotEqual   = &ExpressionOp{Tp: NOTEQUAL, Priority: 3, Name: "!="}
	OperationGreat      = &ExpressionOp{Tp: GREAT, Priority: 3, Name: ">"}
	OperationGreatEqual = &ExpressionOp{Tp: GREATEQUAL, Priority: 3, Name: ">="}
	OperationLess       = &ExpressionOp{Tp: LESS, Priority: 3, Name: "<"}
	OperationLessEqual  = &ExpressionOp{Tp: LESSEQUAL, Priority: 3, Name: "<="}
	OperationAnd        = &ExpressionOp{Tp: AND, Priority: 2, Name: "and"}
	OperationOr         = &ExpressionOp{Tp: OR, Priority: 1, Name: "or"}
)

// ExpressionStm is a binary expression node. A node with a nil Op wraps
// LeftExpr only.
type ExpressionStm struct {
	LeftExpr  interface{}
	Op        *ExpressionOp
	RightExpr interface{}
}
