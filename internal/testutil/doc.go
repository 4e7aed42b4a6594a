// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing core model objects (conversations, turns,
// evidence packages) and asserting behaviors. These helpers are intentionally
// minimal and are not intended for production usage.
package testutil
