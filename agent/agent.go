package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	ai "github.com/spetersoncode/convagent"
	"github.com/spetersoncode/convagent/internal/history"
	"github.com/spetersoncode/convagent/tool"
)

// Agent holds what conversations share: the chat backend, the tool registry
// and configuration. It is immutable and safe for concurrent use.
type Agent struct {
	provider ai.ChatProvider
	registry *tool.Registry
	opts     *Options
}

// New creates an Agent. The registry must be fully populated before the
// first conversation starts.
func New(provider ai.ChatProvider, registry *tool.Registry, opts ...Option) *Agent {
	return &Agent{
		provider: provider,
		registry: registry,
		opts:     ApplyOptions(opts...),
	}
}

// MaxIterations returns the configured iteration cap.
func (a *Agent) MaxIterations() int {
	return a.opts.MaxIterations
}

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry {
	return a.registry
}

// Conversation is the per-request state of an agent: its own history seeded
// with the system prompt. A Conversation must not be used by more than one
// goroutine; call Ask again only after the previous event channel closed.
type Conversation struct {
	id      string
	agent   *Agent
	history *history.History
	log     zerolog.Logger
}

// NewConversation starts a conversation. An empty id gets a random one.
func (a *Agent) NewConversation(id string) *Conversation {
	if id == "" {
		id = uuid.NewString()
	}
	return &Conversation{
		id:      id,
		agent:   a,
		history: history.New(a.opts.SystemPrompt),
		log:     a.opts.Logger.With().Str("conversation_id", id).Logger(),
	}
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a copy of the conversation history.
func (c *Conversation) Messages() []ai.Message {
	return c.history.Messages()
}

// Ask appends a user message and drives the tool-calling loop, returning a
// channel of events. The last event is EventDone or EventError unless ctx is
// cancelled first, in which case the channel simply closes. The channel is
// unbuffered; the loop blocks until each event is received.
func (c *Conversation) Ask(ctx context.Context, message string) <-chan Event {
	ch := make(chan Event)
	go c.run(ctx, message, ch)
	return ch
}

// Run is the blocking form of Ask. It collects the content and tool
// executions and returns the terminal error, if any.
func (c *Conversation) Run(ctx context.Context, message string) (*Result, error) {
	var (
		b      strings.Builder
		result Result
		runErr error
	)
	for ev := range c.Ask(ctx, message) {
		result.Turns = ev.Turn
		switch ev.Type {
		case EventContent:
			b.WriteString(ev.Delta)
		case EventToolResult:
			result.Executions = append(result.Executions, *ev.Execution)
		case EventError:
			runErr = ev.Err
		}
	}
	result.Content = b.String()
	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}
	return &result, runErr
}

func (c *Conversation) run(ctx context.Context, message string, ch chan<- Event) {
	defer close(ch)

	a := c.agent
	c.history.Append(ai.NewUserMessage(message))
	chatOpts := append([]ai.Option{ai.WithTools(a.registry.Tools())}, a.opts.ChatOptions...)

	for turn := 1; turn <= a.opts.MaxIterations; turn++ {
		if ctx.Err() != nil {
			return
		}
		a.opts.Observer.TurnStarted()
		c.log.Debug().Int("turn", turn).Int("history_len", c.history.Len()).Msg("requesting model turn")

		resp, err := c.turn(ctx, turn, chatOpts, ch)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			a.opts.Observer.RunFailed(FailureBackend)
			c.log.Error().Err(err).Int("turn", turn).Msg("model turn failed")
			c.emit(ctx, ch, Event{Type: EventError, Turn: turn, Err: err})
			return
		}

		c.history.Append(ai.NewAssistantMessage(resp.Content, resp.ToolCalls))

		if !resp.HasToolCalls() {
			c.log.Debug().Int("turn", turn).Msg("final answer")
			c.emit(ctx, ch, Event{Type: EventDone, Turn: turn})
			return
		}

		for _, call := range resp.ToolCalls {
			if ctx.Err() != nil {
				return
			}
			exec := c.execute(ctx, call)
			c.history.Append(ai.NewToolMessage(call, exec.Result))
			if !c.emit(ctx, ch, Event{Type: EventToolResult, Turn: turn, Execution: exec}) {
				return
			}
		}
	}

	a.opts.Observer.RunFailed(FailureIterationLimit)
	c.log.Warn().Int("max_iterations", a.opts.MaxIterations).Msg("iteration limit exceeded")
	c.emit(ctx, ch, Event{
		Type: EventError,
		Turn: a.opts.MaxIterations,
		Err:  fmt.Errorf("%w (%d iterations)", ErrIterationLimitExceeded, a.opts.MaxIterations),
	})
}

// turn runs one backend call. A streaming failure is retried once with the
// non-streaming Chat call, whose whole text becomes a single content event.
func (c *Conversation) turn(ctx context.Context, turn int, opts []ai.Option, ch chan<- Event) (*ai.Response, error) {
	resp, err := c.stream(ctx, turn, opts, ch)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.agent.opts.Observer.StreamFallback()
	c.log.Warn().Err(err).Int("turn", turn).Msg("streaming failed, falling back to chat")

	resp, err = c.agent.provider.Chat(ctx, c.history.Messages(), opts...)
	if err != nil {
		return nil, fmt.Errorf("chat fallback: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("chat fallback: %w", ai.ErrEmptyResponse)
	}
	if resp.Content != "" {
		if !c.emit(ctx, ch, Event{Type: EventContent, Turn: turn, Delta: resp.Content}) {
			return nil, ctx.Err()
		}
	}
	return resp, nil
}

func (c *Conversation) stream(ctx context.Context, turn int, opts []ai.Option, ch chan<- Event) (*ai.Response, error) {
	events, err := c.agent.provider.ChatStream(ctx, c.history.Messages(), opts...)
	if err != nil {
		return nil, err
	}

	var (
		text  strings.Builder
		final *ai.Response
	)
	for ev := range events {
		if ev.Err != nil {
			go drain(events)
			return nil, ev.Err
		}
		if ev.Delta != "" {
			text.WriteString(ev.Delta)
			if !c.emit(ctx, ch, Event{Type: EventContent, Turn: turn, Delta: ev.Delta}) {
				go drain(events)
				return nil, ctx.Err()
			}
		}
		if ev.Done && ev.Response != nil {
			final = ev.Response
		}
	}

	if final == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		final = &ai.Response{}
	}
	if final.Content == "" {
		final.Content = text.String()
	}
	return final, nil
}

func (c *Conversation) execute(ctx context.Context, call ai.ToolCall) *ToolExecution {
	args, err := call.Args()
	if err != nil {
		args = map[string]any{}
	}
	exec := &ToolExecution{CallID: call.ID, Name: call.Name, Args: args, RawArgs: call.Arguments}

	res, err := c.agent.registry.Execute(ctx, call)
	switch {
	case err != nil:
		exec.Err = err
	case res.IsError:
		exec.Err = &ToolError{Tool: call.Name, Msg: res.Content}
	default:
		exec.Result = res.Content
	}

	if exec.Err != nil {
		exec.Result = fmt.Sprintf("Error executing tool %s: %s", call.Name, exec.Err)
		var notFound *tool.ErrToolNotFound
		c.log.Warn().
			Str("tool", call.Name).
			Bool("unknown_tool", errors.As(exec.Err, &notFound)).
			Err(exec.Err).
			Msg("tool call failed")
	} else {
		c.log.Debug().Str("tool", call.Name).Str("call_id", call.ID).Msg("tool call completed")
	}
	c.agent.opts.Observer.ToolExecuted(call.Name, exec.Err != nil)
	return exec
}

// emit delivers ev unless ctx is cancelled first.
func (c *Conversation) emit(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func drain(events <-chan ai.StreamEvent) {
	for range events {
	}
}
