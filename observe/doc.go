// Package observe provides the event sink and observability primitives used
// by the health registry.
//
// It exposes a closed Severity enumeration, a JSON structured Logger, an
// EventSink that records (event name, message, attributes) tuples, and an
// OpenTelemetry-backed Observer from which registry metrics and spans are
// derived. Nothing in this package keeps process-wide logging state: every
// logger and sink is constructed explicitly and passed to its consumer.
package observe
