// Package console handles the operator's terminal: line-based prompts and
// styled progress output.
package console
