package ir

// OperatorSymbol is the token of an overloadable operator.
type OperatorSymbol string

const (
	OpPlus               OperatorSymbol = "+"
	OpMinus              OperatorSymbol = "-"
	OpMultiply           OperatorSymbol = "*"
	OpDivide             OperatorSymbol = "/"
	OpModulus            OperatorSymbol = "%"
	OpIncrement          OperatorSymbol = "++"
	OpDecrement          OperatorSymbol = "--"
	OpBitwiseAnd         OperatorSymbol = "&"
	OpBitwiseOr          OperatorSymbol = "|"
	OpExclusiveOr        OperatorSymbol = "^"
	OpOnesComplement     OperatorSymbol = "~"
	OpLeftShift          OperatorSymbol = "<<"
	OpRightShift         OperatorSymbol = ">>"
	OpUnsignedRightShift OperatorSymbol = ">>>"
	OpEquality           OperatorSymbol = "=="
	OpInequality         OperatorSymbol = "!="
	OpLessThan           OperatorSymbol = "<"
	OpGreaterThan        OperatorSymbol = ">"
	OpLessThanOrEqual    OperatorSymbol = "<="
	OpGreaterThanOrEqual OperatorSymbol = ">="
)

type arity uint8

const (
	unary arity = 1 << iota
	binary
)

var operatorArity = map[OperatorSymbol]arity{
	OpPlus:               unary | binary,
	OpMinus:              unary | binary,
	OpMultiply:           binary,
	OpDivide:             binary,
	OpModulus:            binary,
	OpIncrement:          unary,
	OpDecrement:          unary,
	OpBitwiseAnd:         binary,
	OpBitwiseOr:          binary,
	OpExclusiveOr:        binary,
	OpOnesComplement:     unary,
	OpLeftShift:          binary,
	OpRightShift:         binary,
	OpUnsignedRightShift: binary,
	OpEquality:           binary,
	OpInequality:         binary,
	OpLessThan:           binary,
	OpGreaterThan:        binary,
	OpLessThanOrEqual:    binary,
	OpGreaterThanOrEqual: binary,
}

// Valid reports whether s is an overloadable operator this package knows.
func (s OperatorSymbol) Valid() bool {
	_, ok := operatorArity[s]
	return ok
}

// AcceptsOperands reports whether s can be declared with n operands.
func (s OperatorSymbol) AcceptsOperands(n int) bool {
	a := operatorArity[s]
	switch n {
	case 1:
		return a&unary != 0
	case 2:
		return a&binary != 0
	}
	return false
}

// OperatorSymbols returns every known symbol in declaration order.
func OperatorSymbols() []OperatorSymbol {
	return []OperatorSymbol{
		OpPlus, OpMinus, OpMultiply, OpDivide, OpModulus, OpIncrement, OpDecrement,
		OpBitwiseAnd, OpBitwiseOr, OpExclusiveOr, OpOnesComplement,
		OpLeftShift, OpRightShift, OpUnsignedRightShift,
		OpEquality, OpInequality, OpLessThan, OpGreaterThan, OpLessThanOrEqual, OpGreaterThanOrEqual,
	}
}
