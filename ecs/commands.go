package ecs

// Commands buffers structural changes requested while a dispatch phase is running.
// They are applied in request order when the outermost phase returns, so the
// type buckets and the draw list never change under an in-progress iteration.
type Commands struct {
	queue []command
}

type commandKind uint8

const (
	commandRegister commandKind = iota
	commandDeregister
	commandDefer
)

type command struct {
	kind      commandKind
	component Component
	fn        func()
}

func newCommands() *Commands {
	return &Commands{}
}

func (c *Commands) register(comp Component) {
	c.queue = append(c.queue, command{kind: commandRegister, component: comp})
}

func (c *Commands) deregister(comp Component) {
	c.queue = append(c.queue, command{kind: commandDeregister, component: comp})
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.queue = append(c.queue, command{kind: commandDefer, fn: fn})
}

// Len returns the number of pending commands.
func (c *Commands) Len() int { return len(c.queue) }

// Flush applies all pending commands to the system, resetting the buffer state.
// Commands queued by deferred functions while flushing are applied in the same call.
func (c *Commands) Flush(s *EntitySystem) {
	for len(c.queue) > 0 {
		pending := c.queue
		c.queue = nil

		for _, cmd := range pending {
			switch cmd.kind {
			case commandRegister:
				// Components detached again before the flush are not indexed.
				if cmd.component.base().system == s {
					s.registerComponent(cmd.component)
				}
			case commandDeregister:
				if cmd.component.base().index == s {
					s.deregisterComponent(cmd.component)
				}
			case commandDefer:
				cmd.fn()
			}
		}
	}
}
