package logger

import (
	"strconv"

	"sparkcalc/hal"
	"sparkcalc/kernel"
	"sparkcalc/proto"
)

// Service forwards MsgLogLine payloads to the HAL logger, prefixed with the kernel tick.
type Service struct {
	log hal.Logger
	ep  kernel.Capability

	line []byte
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for msg := range ch {
		s.handle(ctx.NowTick(), msg)
	}
}

func (s *Service) handle(tick uint64, msg kernel.Message) {
	if s.log == nil {
		return
	}
	if proto.Kind(msg.Kind) != proto.MsgLogLine {
		return
	}
	s.line = append(s.line[:0], '[')
	s.line = strconv.AppendUint(s.line, tick, 10)
	s.line = append(s.line, "] "...)
	s.line = append(s.line, msg.Payload()...)
	s.log.WriteLineBytes(s.line)
}
