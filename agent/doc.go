// Package agent drives the tool-calling conversation loop.
//
// An Agent is built once from a chat backend and a tool registry and shared by
// every request. Each request gets its own Conversation, whose history starts
// with the system prompt:
//
//	a := agent.New(provider, toolset.New(cfg), agent.WithMaxIterations(10))
//	conv := a.NewConversation(sessionID)
//	for ev := range conv.Ask(ctx, "How many miles is 10 km?") {
//	    switch ev.Type {
//	    case agent.EventContent:
//	        fmt.Print(ev.Delta)
//	    case agent.EventToolResult:
//	        fmt.Printf("[%s] %s\n", ev.Execution.Name, ev.Execution.Result)
//	    case agent.EventError:
//	        log.Println(ev.Err)
//	    }
//	}
//
// # Loop
//
// Every iteration streams one model turn, appends the assistant message to
// history and, if the model requested tools, runs them one at a time in
// request order. Each result is appended to history as a tool message and
// emitted as EventToolResult. Tool failures, including unknown tool names,
// become "Error executing tool ..." results the model can read; they never
// end the loop.
//
// The loop ends with EventDone when a turn requests no tools. Spending
// MaxIterations turns without that ends it with an EventError wrapping
// ErrIterationLimitExceeded.
//
// # Degraded mode
//
// If streaming fails, the turn is retried once with the non-streaming Chat
// call and its full text is emitted as one content event. There is no other
// retry.
//
// # Cancellation
//
// Every event send selects on the context. Once the caller goes away the
// loop stops before its next backend or tool call and the channel closes.
package agent
