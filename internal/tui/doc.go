// Package tui implements the terminal chat interface for lexchat.
//
// The interface is a bubbletea program with a scrollable transcript
// viewport, a single-line input, and a status bar fed by backend health
// probes. It talks to the service exclusively through the lexchat.Chat
// facade; all transcript state lives in the conversation store, and the
// view is re-rendered from it after every submission.
package tui
