// Package agui streams agent conversations as AG-UI protocol events.
//
// AG-UI frontends expect a run lifecycle with Start-Content-End framing for
// text and tool calls. A [Mapper] translates agent events into that shape:
//
//   - the run: RUN_STARTED, then RUN_FINISHED or RUN_ERROR
//   - each model turn's text: TEXT_MESSAGE_START, TEXT_MESSAGE_CONTENT, TEXT_MESSAGE_END
//   - each executed tool: TOOL_CALL_START, TOOL_CALL_ARGS, TOOL_CALL_END, TOOL_CALL_RESULT
//
// [Run] drives a conversation through a Mapper into any event sink, and
// [SSEWriter] is the sink used by the HTTP endpoint:
//
//	w, err := agui.NewSSEWriter(rw)
//	n, err := agui.Run(ctx, conv, query, agui.NewMapper(threadID, runID), w.Write)
package agui
