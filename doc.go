// Package convagent holds the core types shared by the conversion agent:
// conversation messages, tool definitions, chat provider contracts and
// categorized errors.
//
// The agent itself lives in [github.com/spetersoncode/convagent/agent]; the
// built-in conversion tools are assembled by
// [github.com/spetersoncode/convagent/toolset]. Backends implement
// [ChatProvider] and are selected with
// [github.com/spetersoncode/convagent/client].
//
// # Basic Usage
//
//	provider, err := client.New(ctx, client.Config{
//	    Provider: "google-genai",
//	    Model:    "gemini-1.5-flash",
//	    APIKeys:  client.APIKeys{Google: os.Getenv("GOOGLE_API_KEY")},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := agent.New(provider, toolset.New(toolset.Config{}))
//	for ev := range a.NewConversation("").Ask(ctx, "convert 10 km to miles") {
//	    fmt.Print(ev.Delta)
//	}
//
// # Error Handling
//
// Provider failures are wrapped in [Error], which carries an [ErrorCategory]
// (transient, permanent or user input) and the upstream HTTP status code:
//
//	if convagent.IsTransient(err) {
//	    // upstream overloaded or rate limited
//	}
package convagent
