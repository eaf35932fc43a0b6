// Package plan assembles ordered sequences of external-process invocations.
// Planners are pure data assembly: nothing here executes a command.
package plan

import "strings"

// Command is a single external-process invocation: the executable name
// followed by its arguments, in order.
type Command []string

// String renders the command as a shell-like line.
func (c Command) String() string {
	return strings.Join(c, " ")
}

// Redacted renders the command with any password argument masked, for logs
// and plan printing.
func (c Command) Redacted() string {
	masked := make([]string, len(c))
	copy(masked, c)
	for i := 0; i < len(masked)-1; i++ {
		if masked[i] == "-p" || masked[i] == "--password" {
			masked[i+1] = "********"
		}
	}
	return strings.Join(masked, " ")
}

// Plan is an ordered sequence of commands. Order is significant: later
// entries may depend on side effects of earlier ones, so an executor must
// preserve it. Planners only ever append; a returned Plan is never mutated.
type Plan []Command
