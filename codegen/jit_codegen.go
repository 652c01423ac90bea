package codegen

import (
	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/storage"
)

type jitOp int

const (
	opLoadColumn jitOp = iota
	opLoadConst
	opNegative
	opBinary
	opCall
)

type jitInstruction struct {
	op     jitOp
	column string
	value  []byte
	fn     storage.OpFunc
	tp1    storage.FieldTP
	tp2    storage.FieldTP
	call   *expr.FuncCallExpr
	argc   int
}

// jitProgram is one expression compiled to postfix instructions for a stack
// machine.
type jitProgram struct {
	code []jitInstruction
}

func compile(e expr.Expr) (*jitProgram, error) {
	program := &jitProgram{}
	err := program.compileNode(e)
	if err != nil {
		return nil, err
	}
	return program, nil
}

func (program *jitProgram) compileNode(e expr.Expr) error {
	switch node := e.(type) {
	case expr.LiteralExpr:
		program.emit(jitInstruction{op: opLoadConst, value: node.Value()})
	case expr.ColumnExpr:
		program.emit(jitInstruction{op: opLoadColumn, column: node.Name})
	case expr.NegativeExpr:
		err := program.compileNode(node.Expr)
		if err != nil {
			return err
		}
		program.emit(jitInstruction{op: opNegative, tp1: node.Expr.ResultField().TP})
	case expr.BinaryExpr:
		err := program.compileNode(node.Left)
		if err != nil {
			return err
		}
		err = program.compileNode(node.Right)
		if err != nil {
			return err
		}
		program.emit(jitInstruction{
			op:  opBinary,
			fn:  storage.GetOpFunc(node.Op),
			tp1: node.Left.ResultField().TP,
			tp2: node.Right.ResultField().TP,
		})
	case *expr.FuncCallExpr:
		if !node.IsBuiltin() {
			return TypeErrorf("cannot compile function '%s'", node.Name)
		}
		for _, param := range node.Params {
			err := program.compileNode(param)
			if err != nil {
				return err
			}
		}
		program.emit(jitInstruction{op: opCall, call: node, argc: len(node.Params)})
	default:
		return TypeErrorf(unrecognizedExprMsg)
	}
	return nil
}

func (program *jitProgram) emit(inst jitInstruction) {
	program.code = append(program.code, inst)
}

func (program *jitProgram) run(row int, input *storage.RecordBatch) ([]byte, error) {
	stack := make([][]byte, 0, len(program.code))
	for _, inst := range program.code {
		switch inst.op {
		case opLoadConst:
			stack = append(stack, inst.value)
		case opLoadColumn:
			col := input.GetColumnValue(inst.column)
			if col == nil {
				return nil, ExecErrorf("column '%s' cannot find", inst.column)
			}
			stack = append(stack, col.RawValue(row))
		case opNegative:
			stack[len(stack)-1] = storage.Negative(inst.tp1, stack[len(stack)-1])
		case opBinary:
			val1, val2 := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = inst.fn(val1, inst.tp1, val2, inst.tp2)
		case opCall:
			args := stack[len(stack)-inst.argc:]
			ret, err := inst.call.ApplyRow(args)
			if err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-inst.argc]
			stack = append(stack, ret)
		}
	}
	return stack[len(stack)-1], nil
}

// jitCompiledCodeGen compiles each expression once at construction and runs
// the programs row by row.
type jitCompiledCodeGen struct {
	schema    *storage.Schema
	retFields []storage.Field
	programs  []*jitProgram
}

func NewJitCompiledCodeGen(schema *storage.Schema, exprs []expr.Expr, retFields []storage.Field) (CodeGenerator, error) {
	programs := make([]*jitProgram, len(exprs))
	for i, e := range exprs {
		program, err := compile(e)
		if err != nil {
			return nil, err
		}
		programs[i] = program
	}
	return &jitCompiledCodeGen{schema: schema, retFields: retFields, programs: programs}, nil
}

func (gen *jitCompiledCodeGen) Name() string {
	return JitCompiled.String()
}

func (gen *jitCompiledCodeGen) ReturnFields() []storage.Field {
	return gen.retFields
}

func (gen *jitCompiledCodeGen) Evaluate(input *storage.RecordBatch) (*storage.RecordBatch, error) {
	ret := storage.MakeEmptyRecordBatch(gen.retFields)
	for row := 0; row < input.RowCount(); row++ {
		for i, program := range gen.programs {
			value, err := program.run(row, input)
			if err != nil {
				return nil, err
			}
			ret.Records[i].Append(value)
		}
	}
	return ret, nil
}
