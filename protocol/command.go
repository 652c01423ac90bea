package protocol

import (
	"fmt"
	"strings"

	"github.com/kelvin-qin/OAP/codegen"
	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/parser"
	"github.com/kelvin-qin/OAP/storage"
	"github.com/kelvin-qin/OAP/util"
)

var commandLog = util.GetLog("Command")

// batchSize is how many rows one data packet carries.
var batchSize = 1 << 8

// Conn is the connection surface commands run against.
type Conn interface {
	Session() *Session
	SendErrMsg(msg ErrMsg)
	SendQueryResult(data *storage.RecordBatch) ErrMsg
}

type Command struct {
	Tp      CommandType
	Command CommandInterface
	arg     []byte
}

var OkMsg = ErrMsg{errCode: ErrorOk}

func decodeCommand(packet []byte) (Command, ErrMsg) {
	switch CommandType(packet[0]) {
	case TpComQuery:
		return Command{Tp: TpComQuery, arg: packet[1:], Command: ComQuery(packet[1:])}, OkMsg
	case TpComUse:
		return Command{Tp: TpComUse, arg: packet[1:], Command: ComUse(packet[1:])}, OkMsg
	case TpComShow:
		return Command{Tp: TpComShow, Command: ComShow("")}, OkMsg
	case TpComQuit:
		return Command{Tp: TpComQuit, Command: ComQuit("")}, OkMsg
	case TpComPing:
		return Command{Tp: TpComPing, Command: ComPing("")}, OkMsg
	default:
		return Command{}, ErrMsg{errCode: ErrUnknownCommand, Msg: ErrCodeMsgMap[ErrUnknownCommand]}
	}
}

func (c Command) Do(con Conn) (exit bool, msg ErrMsg) {
	return c.Command.Do(con, c.arg)
}

type CommandInterface interface {
	// Do runs the command and returns a bool flag to indicate whether to close
	// this connection, plus the final status.
	Do(con Conn, packet []byte) (bool, ErrMsg)
	// Encode returns the encoded bytes of this command which would be sent to the other side.
	Encode() []byte
}

type CommandType byte

const (
	TpComQuery CommandType = iota
	TpComQuit
	TpComPing
	TpComUse
	TpComShow
)

type ComQuit string

// ComQuit just returns true to indicate exit.
func (c ComQuit) Do(_ Conn, _ []byte) (bool, ErrMsg) {
	commandLog.InfoF("ComQuit: exiting.")
	return true, OkMsg
}

func (c ComQuit) Encode() []byte {
	return nil
}

type ComPing string

func (c ComPing) Do(_ Conn, _ []byte) (bool, ErrMsg) {
	commandLog.InfoF("ComPing: we are alive.")
	return false, OkMsg
}

func (c ComPing) Encode() []byte {
	return nil
}

// ComUse points the session at a catalog dataset.
type ComUse string

func (c ComUse) Do(con Conn, packet []byte) (bool, ErrMsg) {
	name := strings.TrimSpace(string(packet))
	_, ok := storage.GetCatalog().Get(name)
	if !ok {
		return false, makeErrMsg(ErrUnknownDataset, name)
	}
	con.Session().CurrentDataset = name
	commandLog.InfoF("ComUse: switch to dataset '%s'", name)
	return false, OkMsg
}

func (c ComUse) Encode() []byte {
	return []byte(string(c))
}

// ComShow lists the catalog datasets as a one column batch.
type ComShow string

func (c ComShow) Do(con Conn, _ []byte) (bool, ErrMsg) {
	batch := storage.MakeEmptyRecordBatch([]storage.Field{{Name: "dataset", TP: storage.Text}})
	for _, name := range storage.GetCatalog().List() {
		batch.AppendRow([][]byte{[]byte(name)})
	}
	errMsg := con.SendQueryResult(batch)
	if !errMsg.IsOk() {
		return false, makeErrMsg(ErrSendQueryResult, errMsg.Msg)
	}
	return false, OkMsg
}

func (c ComShow) Encode() []byte {
	return nil
}

// ComQuery evaluates an expression list against the session dataset.
type ComQuery string

func (c ComQuery) Do(con Conn, packet []byte) (bool, ErrMsg) {
	query := string(packet)
	commandLog.InfoF("ComQuery: try to do a query: %s", query)
	stms, err := parser.NewParser().Parse(packet)
	if err != nil {
		return false, makeErrMsg(ErrSyntax, err.Error())
	}
	if len(stms) == 0 {
		return false, OkMsg
	}
	name := con.Session().CurrentDataset
	if name == "" {
		return false, makeErrMsg(ErrQuery, "no dataset selected")
	}
	ds, ok := storage.GetCatalog().Get(name)
	if !ok {
		return false, makeErrMsg(ErrUnknownDataset, name)
	}
	exprs, err := expr.BuildExprList(stms, ds.Schema)
	if err != nil {
		return false, makeErrMsg(ErrQuery, err.Error())
	}
	for _, e := range exprs {
		err = e.TypeCheck()
		if err != nil {
			return false, makeErrMsg(ErrQuery, err.Error())
		}
	}
	gen, err := codegen.CreateCodeGenerator(ds.Schema, exprs, codegen.ReturnFieldsOf(exprs))
	if err != nil {
		return false, makeErrMsg(ErrQuery, err.Error())
	}
	commandLog.InfoF("ComQuery: run query on the %s backend", gen.Name())
	ret, err := gen.Evaluate(ds.Data)
	if err != nil {
		return false, makeErrMsg(ErrQuery, err.Error())
	}
	for from := 0; from < ret.RowCount() || from == 0; from += batchSize {
		errMsg := con.SendQueryResult(ret.Slice(from, batchSize))
		if !errMsg.IsOk() {
			return false, makeErrMsg(ErrSendQueryResult, errMsg.Msg)
		}
		if ret.RowCount() == 0 {
			break
		}
	}
	return false, OkMsg
}

func makeErrMsg(errType ErrCodeType, errMsg string) ErrMsg {
	return ErrMsg{
		errCode: errType,
		Msg:     fmt.Sprintf(ErrCodeMsgMap[errType], errMsg),
	}
}

func (c ComQuery) Encode() []byte {
	return []byte(string(c))
}

func StrToCommand(input string) (Command, error) {
	trimed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), ";"))
	lower := strings.ToLower(trimed)
	switch {
	case lower == "ping":
		return Command{Tp: TpComPing, Command: ComPing("ping")}, nil
	case lower == "quit" || lower == "exit":
		return Command{Tp: TpComQuit, Command: ComQuit("quit")}, nil
	case lower == "show datasets":
		return Command{Tp: TpComShow, Command: ComShow("")}, nil
	case strings.HasPrefix(lower, "use "):
		return Command{Tp: TpComUse, Command: ComUse(strings.TrimSpace(trimed[len("use "):]))}, nil
	default:
		return Command{Tp: TpComQuery, Command: ComQuery(input)}, nil
	}
}
