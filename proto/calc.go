package proto

import "encoding/binary"

// PlotFormulaPayload encodes a MsgPlotFormula request.
//
// Layout (little-endian):
//   - u16: formula length in bytes
//   - bytes: UTF-8 formula
//
// An empty formula clears the curve and redraws only grid and axes.
func PlotFormulaPayload(formula string) []byte {
	buf := make([]byte, 2+len(formula))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(formula)))
	copy(buf[2:], formula)
	return buf
}

func DecodePlotFormulaPayload(b []byte) (formula string, ok bool) {
	if len(b) < 2 {
		return "", false
	}
	n := int(binary.LittleEndian.Uint16(b[0:2]))
	if len(b) != 2+n {
		return "", false
	}
	return string(b[2:]), true
}

// ShutdownReason explains why MsgAppShutdown was sent.
type ShutdownReason uint8

const (
	ShutdownUser ShutdownReason = iota
	ShutdownHost
)

func (r ShutdownReason) String() string {
	switch r {
	case ShutdownUser:
		return "user"
	case ShutdownHost:
		return "host"
	default:
		return "unknown"
	}
}

// AppShutdownPayload encodes a MsgAppShutdown request.
//
// Payload format:
//
//	b[0] : ShutdownReason
func AppShutdownPayload(reason ShutdownReason) []byte {
	return []byte{byte(reason)}
}

func DecodeAppShutdownPayload(b []byte) (reason ShutdownReason, ok bool) {
	if len(b) != 1 {
		return 0, false
	}
	return ShutdownReason(b[0]), true
}
