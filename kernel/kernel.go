package kernel

import (
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	maxTasks     = 32
	maxEndpoints = 32
	mailboxSlots = 8
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque by construction (no exported fields); the app hands each task only the
// rights it needs.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool { return c.rights != 0 }

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// MaxMessageBytes is the maximum payload size for IPC messages.
const MaxMessageBytes = 128

// Message is a fixed-size IPC envelope.
type Message struct {
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > len(m.Data) {
		n = len(m.Data)
	}
	return m.Data[:n]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidCap
	SendErrNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidCap:
		return "invalid capability"
	case SendErrNoSendRight:
		return "capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return fmt.Sprintf("SendResult(%d)", uint8(r))
	}
}

// Task is a long-running unit of execution. Each task runs on its own goroutine.
type Task interface {
	Run(ctx *Context)
}

type endpointState struct {
	ch chan Message
}

// Kernel routes messages between tasks and distributes the tick.
type Kernel struct {
	mu            sync.Mutex
	endpoints     [maxEndpoints]endpointState
	endpointCount Endpoint
	taskCount     TaskID

	tickMu   sync.Mutex
	tickCond *sync.Cond
	tick     uint64

	panicMu  sync.Mutex
	onPanic  func(PanicInfo)
	panicked atomic.Bool

	wg sync.WaitGroup
}

// New creates a kernel instance.
func New() *Kernel {
	k := &Kernel{}
	k.tickCond = sync.NewCond(&k.tickMu)
	return k
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.endpointCount >= maxEndpoints {
		return Capability{}
	}
	ep := k.endpointCount
	k.endpointCount++
	k.endpoints[ep] = endpointState{ch: make(chan Message, mailboxSlots)}
	return Capability{ep: ep, rights: rights}
}

// AddTask starts t on its own goroutine under name and returns its ID.
//
// A panic inside the task is recovered and reported through OnPanic.
func (k *Kernel) AddTask(name string, t Task) TaskID {
	k.mu.Lock()
	if k.taskCount >= maxTasks {
		k.mu.Unlock()
		return 0
	}
	id := k.taskCount
	k.taskCount++
	k.mu.Unlock()

	ctx := &Context{k: k, id: id, name: name}
	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				k.taskPanicked(ctx, r)
			}
		}()
		t.Run(ctx)
	}()
	return id
}

// Wait blocks until every task has returned.
func (k *Kernel) Wait() { k.wg.Wait() }

// TickTo advances the kernel tick to seq and wakes tasks waiting on it.
// Older sequence numbers are ignored.
func (k *Kernel) TickTo(seq uint64) {
	k.tickMu.Lock()
	if seq > k.tick {
		k.tick = seq
		k.tickCond.Broadcast()
	}
	k.tickMu.Unlock()
}

// Tick advances the tick by one.
func (k *Kernel) Tick() {
	k.tickMu.Lock()
	k.tick++
	k.tickCond.Broadcast()
	k.tickMu.Unlock()
}

func (k *Kernel) nowTick() uint64 {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	return k.tick
}

func (k *Kernel) waitTick(after uint64) uint64 {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	for k.tick <= after {
		k.tickCond.Wait()
	}
	return k.tick
}

func (k *Kernel) send(to Endpoint, kind uint16, payload []byte) (res SendResult) {
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	k.mu.Lock()
	if to >= k.endpointCount {
		k.mu.Unlock()
		return SendErrNoEndpoint
	}
	ch := k.endpoints[to].ch
	k.mu.Unlock()
	if ch == nil {
		return SendErrNoEndpoint
	}

	var msg Message
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)

	// Sending on an endpoint closed during shutdown reports it as gone.
	defer func() {
		if recover() != nil {
			res = SendErrNoEndpoint
		}
	}()

	select {
	case ch <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}
