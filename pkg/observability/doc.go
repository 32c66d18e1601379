/*
Package observability provides tools for monitoring the arbor generator.

It turns the engine's generation callbacks and the simulator's growth hooks into
Prometheus metrics and structured log lines, and combines several hook sets
into one.
*/
package observability
