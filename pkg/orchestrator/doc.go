// Package orchestrator wires the step catalog → decorators → validator →
// renderer pipeline behind a single entry point for hosts that serve intake
// steps.
package orchestrator
