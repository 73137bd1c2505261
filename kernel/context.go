package kernel

// Context is a task's handle on the kernel: its mailboxes and the shared tick.
type Context struct {
	k    *Kernel
	id   TaskID
	name string
}

// Name returns the name the task was added under.
func (c *Context) Name() string { return c.name }

// RecvChan returns the mailbox behind a capability with the receive right.
func (c *Context) RecvChan(epCap Capability) (<-chan Message, bool) {
	if c.k == nil || !epCap.valid() || !epCap.canRecv() {
		return nil, false
	}

	c.k.mu.Lock()
	defer c.k.mu.Unlock()
	if epCap.ep >= c.k.endpointCount {
		return nil, false
	}
	ch := c.k.endpoints[epCap.ep].ch
	return ch, ch != nil
}

// Recv blocks until a message arrives. It reports false once the mailbox is closed.
func (c *Context) Recv(epCap Capability) (Message, bool) {
	ch, ok := c.RecvChan(epCap)
	if !ok {
		return Message{}, false
	}
	msg, ok := <-ch
	return msg, ok
}

// TryRecv returns a queued message without blocking.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	ch, ok := c.RecvChan(epCap)
	if !ok {
		return Message{}, false
	}
	select {
	case msg, ok := <-ch:
		return msg, ok
	default:
		return Message{}, false
	}
}

// Send queues a message on the mailbox behind to. It never blocks: a full mailbox
// reports SendErrQueueFull.
func (c *Context) Send(to Capability, kind uint16, payload []byte) SendResult {
	switch {
	case c.k == nil || !to.valid():
		return SendErrInvalidCap
	case !to.canSend():
		return SendErrNoSendRight
	}
	return c.k.send(to.ep, kind, payload)
}

// SendRetry sends like Send, but while the mailbox is full it waits for the next tick and
// tries again, up to limit more times.
func (c *Context) SendRetry(to Capability, kind uint16, payload []byte, limit int) SendResult {
	res := c.Send(to, kind, payload)
	for i := 0; res == SendErrQueueFull && i < limit; i++ {
		c.WaitTick(c.NowTick())
		res = c.Send(to, kind, payload)
	}
	return res
}

// NowTick returns the current tick.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.nowTick()
}

// WaitTick blocks until the tick moves past after and returns the new tick.
func (c *Context) WaitTick(after uint64) uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.waitTick(after)
}
