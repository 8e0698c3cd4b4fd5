// Package publisher defines the interface of the subscription fan-out:
// something that accepts subscription management messages and delivers
// newly admitted events to whoever they match.
package publisher

import (
	"lantern.dev/pkg/encoders/event"
)

// Message is a subscription management message; Type identifies the
// transport that produced it.
type Message interface {
	Type() string
}

// I is a fan-out destination for admitted events.
type I interface {
	Message
	// Deliver hands an admitted event to every matching subscription.
	Deliver(ev *event.E)
	// Receive processes a subscription add or cancel message.
	Receive(msg Message)
}

// Publishers is a list of fan-out destinations addressed as one.
type Publishers []I

// Deliver relays the event to each publisher in the list.
func (p Publishers) Deliver(ev *event.E) {
	for _, pub := range p {
		pub.Deliver(ev)
	}
}

// Receive relays the message to the publisher whose type matches.
func (p Publishers) Receive(msg Message) {
	for _, pub := range p {
		if pub.Type() == msg.Type() {
			pub.Receive(msg)
		}
	}
}

// Type of the aggregate is the wildcard empty string.
func (p Publishers) Type() (typeName string) { return "" }
