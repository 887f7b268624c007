// Package messaging pushes live reload notifications to connected browsers.
package messaging

// Notifier is told about finished builds.
type Notifier interface {
	Notify(message string)
}

// MessageRebuild tells clients to reload the page.
const MessageRebuild = "rebuild"

// Notifiers fans one message out to several notifiers in order.
type Notifiers []Notifier

// Notify implements Notifier.
func (ns Notifiers) Notify(message string) {
	for _, n := range ns {
		if n != nil {
			n.Notify(message)
		}
	}
}
