// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

// Notifier delivers user-facing notifications to the editing client. All
// externally-observable failures (network, validation) surface through it;
// internal scheduling races never do.
type Notifier interface {
	Warn(message string)
	Error(message string)
}

// noopNotifier is used when no client is attached.
type noopNotifier struct{}

func (noopNotifier) Warn(string)  {}
func (noopNotifier) Error(string) {}

// NopNotifier returns a Notifier that discards everything.
func NopNotifier() Notifier { return noopNotifier{} }
