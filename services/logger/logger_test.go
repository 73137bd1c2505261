package logger

import (
	"testing"
	"time"

	"sparkcalc/kernel"
	"sparkcalc/proto"
)

type lineLog struct {
	ch chan string
}

func (l *lineLog) WriteLineString(s string) { l.ch <- s }
func (l *lineLog) WriteLineBytes(b []byte)  { l.ch <- string(b) }

type outMsg struct {
	kind    proto.Kind
	payload []byte
}

type sender struct {
	to   kernel.Capability
	msgs []outMsg
}

func (s *sender) Run(ctx *kernel.Context) {
	for _, m := range s.msgs {
		ctx.Send(s.to, uint16(m.kind), m.payload)
	}
}

func TestServiceWritesLogLinesWithTick(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	log := &lineLog{ch: make(chan string, 4)}

	k.TickTo(42)
	k.AddTask("logger", New(log, ep.Restrict(kernel.RightRecv)))
	k.AddTask("sender", &sender{to: ep.Restrict(kernel.RightSend), msgs: []outMsg{
		{proto.MsgTermInput, []byte("ignored")},
		{proto.MsgLogLine, proto.LogLinePayload("calc: ready\n", kernel.MaxMessageBytes)},
	}})

	select {
	case got := <-log.ch:
		if got != "[42] calc: ready" {
			t.Fatalf("line=%q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for log line")
	}
	select {
	case got := <-log.ch:
		t.Fatalf("unexpected line %q", got)
	case <-time.After(20 * time.Millisecond):
	}
}
