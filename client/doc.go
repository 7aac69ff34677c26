// Package client selects and constructs the chat backend for a deployment.
//
// The provider is chosen by name (see convagent.ParseProvider) and only the
// selected provider's credentials are required:
//
//	provider, err := client.New(ctx, client.Config{
//	    Provider: "google-genai",
//	    Model:    "gemini-1.5-flash",
//	    APIKeys:  client.APIKeys{Google: os.Getenv("GOOGLE_API_KEY")},
//	})
//
// Ollama needs no key; its server address comes from BaseURLs.Ollama.
package client
