// Package transcript houses concrete implementations of the
// core.ConversationStore. The interface itself (and the Conversation struct)
// live in the core package to centralize domain contracts. Keeping only
// implementations here prevents higher level packages (orchestrator, façade)
// from depending on concrete storage.
//
// Add additional backends (file, SQLite, Redis, etc.) in sub-packages without
// changing any calling code – only the wiring layer needs to decide which
// implementation to instantiate.
package transcript
