package services

// Every script backend must satisfy ScriptProvider — the worker dispatches
// through the interface, never the concrete types.
var (
	_ ScriptProvider = (*OpenAIService)(nil)
	_ ScriptProvider = (*GeminiService)(nil)
	_ ScriptProvider = (*GroqService)(nil)
)
