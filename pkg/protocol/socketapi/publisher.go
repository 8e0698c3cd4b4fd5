package socketapi

import (
	"sync"

	"lantern.dev/pkg/encoders/envelopes/eventenvelope"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filters"
	"lantern.dev/pkg/interfaces/publisher"
	"lantern.dev/pkg/protocol/auth"
	"lantern.dev/pkg/protocol/ws"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
)

// Type identifies subscription messages originating from the websocket
// API.
const Type = "socketapi"

// Map associates each websocket listener with its subscriptions' filters.
type Map map[*ws.Listener]map[string]*filters.T

// W is a subscription management message: register a subscription, cancel
// one by id, or cancel every subscription of a listener.
type W struct {
	*ws.Listener

	// Cancel true makes this a close command.
	Cancel bool

	// Id is the subscription id. With Cancel, an empty Id cancels the
	// whole listener.
	Id string

	// Filters select which events this subscription receives.
	Filters *filters.T
}

// Type of a W is the websocket API type.
func (w *W) Type() (typeName string) { return Type }

// S is the websocket subscription fan-out: a mutex guarded map of
// listeners to their filter sets.
type S struct {
	Mx sync.Mutex
	Map
}

var _ publisher.I = &S{}

// New creates an empty fan-out.
func New() (p *S) { return &S{Map: make(Map)} }

// Type of the fan-out is the websocket API type.
func (p *S) Type() (typeName string) { return Type }

// Receive processes a subscription management message.
func (p *S) Receive(msg publisher.Message) {
	m, ok := msg.(*W)
	if !ok {
		return
	}
	if m.Cancel {
		if m.Id == "" {
			p.removeSubscriber(m.Listener)
			log.T.F("removed listener %s", m.Listener.RealRemote())
		} else {
			p.removeSubscriberId(m.Listener, m.Id)
			log.T.F(
				"removed subscription %s for %s", m.Id,
				m.Listener.RealRemote(),
			)
		}
		return
	}
	p.Mx.Lock()
	defer p.Mx.Unlock()
	subs, exists := p.Map[m.Listener]
	if !exists {
		subs = make(map[string]*filters.T)
		p.Map[m.Listener] = subs
	}
	subs[m.Id] = m.Filters
	log.T.F("added subscription %s for %s", m.Id, m.Listener.RealRemote())
}

// Deliver hands a newly admitted event to every subscription whose
// filters match it. Privileged kinds only go to connections entitled to
// read them.
func (p *S) Deliver(ev *event.E) {
	var err error
	p.Mx.Lock()
	defer p.Mx.Unlock()
	for w, subs := range p.Map {
		for id, ff := range subs {
			if !ff.Match(ev) {
				continue
			}
			if !auth.CheckPrivilege(w.AuthedPubkey(), ev) {
				continue
			}
			if err = eventenvelope.NewResultWith(id, ev).Write(w); chk.D(err) {
				continue
			}
			log.T.F("dispatched event %0x to subscription %s", ev.Id, id)
		}
	}
}

// removeSubscriberId removes one subscription of a listener.
func (p *S) removeSubscriberId(ws *ws.Listener, id string) {
	p.Mx.Lock()
	defer p.Mx.Unlock()
	if subs, ok := p.Map[ws]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(p.Map, ws)
		}
	}
}

// removeSubscriber removes a listener and all its subscriptions.
func (p *S) removeSubscriber(ws *ws.Listener) {
	p.Mx.Lock()
	defer p.Mx.Unlock()
	delete(p.Map, ws)
}
