// Package tracing wraps OpenTelemetry so table operations can be traced
// without the rest of the code base importing the SDK directly. Until Init
// or InitWithExporter is called spans are no-ops.
package tracing
