package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-qin/OAP/storage"
	"github.com/kelvin-qin/OAP/util"
)

var connectionWrapperLog = util.GetLog("ConnectionWrapper")

type connectionWrapper struct {
	id            uint32
	conn          net.Conn
	readTimeout   time.Duration
	writeTimeout  time.Duration
	packetCounter byte
	ctx           context.Context
	session       Session
}

func NewConnectionWrapper(readTimeout, writeTimeout time.Duration, ctx context.Context) *connectionWrapper {
	return &connectionWrapper{
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		ctx:          ctx,
	}
}

type ErrCodeType byte

const (
	ErrorOk ErrCodeType = iota
	ErrorNetUnknown
	ErrorNetTimeout
	ErrorNetClosed
	ErrorNetPacketOutOfOrder
	ErrUnknownCommand
	ErrSyntax
	ErrQuery
	ErrUnknownDataset
	ErrSendQueryResult
)

var ErrCodeMsgMap = map[ErrCodeType]string{
	ErrorOk:                  "Ok",
	ErrorNetPacketOutOfOrder: "protocol read an unexpected order packet",
	ErrUnknownCommand:        "protocol reads an unknown command",
	ErrSyntax:                "parser: %s",
	ErrQuery:                 "query: %s",
	ErrUnknownDataset:        "unknown dataset: %s",
	ErrSendQueryResult:       "server send query result failed: %s",
}

func wrapNetErrToErrMsg(err error) ErrMsg {
	if err == nil {
		return OkMsg
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrMsg{errCode: ErrorNetTimeout, Msg: err.Error()}
	}
	if err == io.EOF {
		return ErrMsg{errCode: ErrorNetClosed, Msg: err.Error()}
	}
	return ErrMsg{errCode: ErrorNetUnknown, Msg: err.Error()}
}

// The packet sent on the wire looks like this:
// +-------------+-----------------+---------+
// + packet len  + packet counter  + packet  +
// +-------------+-----------------+---------+
func WritePacket(conn net.Conn, packetCounter byte, packet bytes.Buffer, writeTimeout time.Duration) ErrMsg {
	err := conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	errMsg := wrapNetErrToErrMsg(err)
	if !errMsg.IsOk() {
		return errMsg
	}
	bs := int4ToBytes(uint32(packet.Len()))
	bs = append(bs, packetCounter)
	buf := bytes.NewBuffer(bs)
	buf.Write(packet.Bytes())
	_, err = buf.WriteTo(conn)
	return wrapNetErrToErrMsg(err)
}

func ReadPacket(conn net.Conn, packetCounter byte, readTimeout time.Duration) ([]byte, ErrMsg) {
	err := conn.SetReadDeadline(time.Now().Add(readTimeout))
	errMsg := wrapNetErrToErrMsg(err)
	if !errMsg.IsOk() {
		return nil, errMsg
	}
	bs := [5]byte{}
	_, err = io.ReadFull(conn, bs[:])
	errMsg = wrapNetErrToErrMsg(err)
	if !errMsg.IsOk() {
		return nil, errMsg
	}
	packetLen := bytesToInt4(bs[:4])
	if bs[4] != packetCounter {
		return nil, ErrMsg{errCode: ErrorNetPacketOutOfOrder, Msg: ErrCodeMsgMap[ErrorNetPacketOutOfOrder]}
	}
	packet := make([]byte, packetLen)
	_, err = io.ReadFull(conn, packet)
	return packet, wrapNetErrToErrMsg(err)
}

type MsgType byte

const (
	OkMsgType MsgType = iota
	ErrMsgType
	DataMsgType
)

// Each packet starts with its type byte, the msg format depends on the type.

// Ok packet:
// +-------------+------------+--------+
// + packet type + msg len    +  msg   +
// +-------------+------------+--------+
// +      0      +
// +-------------+
func (wrap *connectionWrapper) sendOk(okMsg ErrMsg) ErrMsg {
	buf := bytes.Buffer{}
	buf.WriteByte(byte(OkMsgType))
	message := okMsg.Msg
	if message == "" {
		message = ErrCodeMsgMap[ErrorOk]
	}
	buf.Write(int4ToBytes(uint32(len(message))))
	buf.Write([]byte(message))
	return WritePacket(wrap.conn, wrap.packetCounter, buf, wrap.writeTimeout)
}

// Err packet:
// +-------------+-----------+-----------+-------+
// + packet type +  err code + msg len   +  msg  +
// +-------------+-----------+-----------+-------+
// +      1      +
// +-------------+
func (wrap *connectionWrapper) sendErr(err ErrMsg) ErrMsg {
	buf := bytes.Buffer{}
	buf.WriteByte(byte(ErrMsgType))
	buf.WriteByte(byte(err.errCode))
	buf.Write(int4ToBytes(uint32(len(err.Msg))))
	buf.Write([]byte(err.Msg))
	connectionWrapperLog.InfoF("send err packet. err: %+v, msg: %s", err.errCode, err.Msg)
	return WritePacket(wrap.conn, wrap.packetCounter, buf, wrap.writeTimeout)
}

// Data packet:
// +-------------+-----------+-----------+
// + packet type + pack len  +   packet  +
// +-------------+-----------+-----------+
// +      2      +
// +-------------+
func (wrap *connectionWrapper) SendQueryResult(data *storage.RecordBatch) ErrMsg {
	bs, _ := json.Marshal(data)
	buf := bytes.Buffer{}
	buf.WriteByte(byte(DataMsgType))
	buf.Write(int4ToBytes(uint32(len(bs))))
	buf.Write(bs)
	return WritePacket(wrap.conn, wrap.packetCounter, buf, wrap.writeTimeout)
}

func (wrap *connectionWrapper) Session() *Session {
	return &wrap.session
}

func (wrap *connectionWrapper) setConnection(id uint32, conn net.Conn, fromUnixSocket bool) {
	wrap.packetCounter = 0
	wrap.id, wrap.conn = id, conn
	wrap.session = Session{CurrentDataset: "", sessionID: uuid.New()}
	connectionWrapperLog.InfoF("new session %s", wrap.session.sessionID)
}

// Handling commands until exit.
func (wrap *connectionWrapper) parseCommand() {
	defer wrap.conn.Close()
	for {
		select {
		case <-wrap.ctx.Done():
			return
		default:
		}
		command, err := wrap.readCommand()
		if !err.IsOk() {
			connectionWrapperLog.WarnF("err when read command: %s. close connection!", err.Msg)
			return
		}
		exit, err := command.Do(wrap)
		wrap.SendErrMsg(err)
		if exit {
			return
		}
	}
}

func (wrap *connectionWrapper) SendErrMsg(msg ErrMsg) {
	if msg.IsOk() {
		wrap.sendOk(msg)
	} else {
		wrap.sendErr(msg)
	}
	wrap.packetCounter++
}

var emptyCommand = Command{}

func (wrap *connectionWrapper) readCommand() (Command, ErrMsg) {
	var packet []byte
	var errMsg ErrMsg
	for {
		packet, errMsg = ReadPacket(wrap.conn, wrap.packetCounter, wrap.readTimeout)
		if errMsg.IsTimeout() {
			continue
		}
		break
	}
	if !errMsg.IsOk() {
		return emptyCommand, errMsg
	}
	return decodeCommand(packet)
}

// For client.
func WriteCommand(conn net.Conn, packetCounter byte, command Command, writeTimeout time.Duration) ErrMsg {
	buf := bytes.Buffer{}
	buf.WriteByte(byte(command.Tp))
	buf.Write(command.Command.Encode())
	return WritePacket(conn, packetCounter, buf, writeTimeout)
}

var emptyMsg = Msg{}

func ReadResp(conn net.Conn, packetCounter byte, readTimeout time.Duration) (Msg, error) {
	var packet []byte
	var errMsg ErrMsg
	for {
		packet, errMsg = ReadPacket(conn, packetCounter, readTimeout)
		if errMsg.IsTimeout() {
			continue
		}
		break
	}
	if !errMsg.IsOk() {
		return emptyMsg, errors.New(errMsg.Msg)
	}
	switch MsgType(packet[0]) {
	case OkMsgType:
		okMsg, err := decodeOkMsg(packet)
		return Msg{TP: OkMsgType, Msg: okMsg}, err
	case ErrMsgType:
		errMsg, err := decodeErrMsg(packet)
		return Msg{TP: ErrMsgType, Msg: errMsg}, err
	case DataMsgType:
		msg, err := decodeQueryMessage(packet)
		return Msg{TP: DataMsgType, Msg: msg}, err
	default:
		return emptyMsg, errors.New("wrong packet type")
	}
}

var emptyErrMsg = ErrMsg{}

var (
	okMsgMinLength   = 5
	errMsgMinLength  = 6
	dataMsgMinLength = 5
)

func decodeOkMsg(packet []byte) (ErrMsg, error) {
	if len(packet) < okMsgMinLength {
		return emptyErrMsg, errors.New("wrong ok msg format")
	}
	messageLen := bytesToInt4(packet[1:5])
	return ErrMsg{errCode: ErrorOk, Msg: string(packet[5 : 5+messageLen])}, nil
}

func decodeErrMsg(packet []byte) (ErrMsg, error) {
	if len(packet) < errMsgMinLength {
		return emptyErrMsg, errors.New("wrong err msg format")
	}
	errCode := packet[1]
	messageLen := bytesToInt4(packet[2:6])
	return ErrMsg{errCode: ErrCodeType(errCode), Msg: string(packet[6 : 6+messageLen])}, nil
}

func decodeQueryMessage(packet []byte) (*storage.RecordBatch, error) {
	if len(packet) < dataMsgMinLength {
		return nil, errors.New("wrong data msg format")
	}
	messageLen := bytesToInt4(packet[1:5])
	ret := &storage.RecordBatch{}
	err := json.Unmarshal(packet[5:5+messageLen], ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

type ErrMsg struct {
	errCode ErrCodeType
	Msg     string
}

func (msg ErrMsg) IsOk() bool {
	return msg.errCode == ErrorOk
}

func (msg ErrMsg) IsTimeout() bool {
	return msg.errCode == ErrorNetTimeout
}

// Session is the per connection state. A session points at one catalog
// dataset at a time.
type Session struct {
	sessionID      uuid.UUID
	CurrentDataset string
}

type Msg struct {
	TP            MsgType
	Msg           interface{}
	PacketCounter byte
}
