// Package session hosts live growth simulations for long-running surfaces
// (HTTP, MCP). Each session owns a generated tree and its growth counters;
// the Manager serializes every operation on the same session.
package session
