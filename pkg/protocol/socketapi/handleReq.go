package socketapi

import (
	"bytes"
	"encoding/json"
	"sort"

	"lantern.dev/pkg/encoders/envelopes/authenvelope"
	"lantern.dev/pkg/encoders/envelopes/closedenvelope"
	"lantern.dev/pkg/encoders/envelopes/eoseenvelope"
	"lantern.dev/pkg/encoders/envelopes/eventenvelope"
	"lantern.dev/pkg/encoders/envelopes/reqenvelope"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filters"
	"lantern.dev/pkg/encoders/reason"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/protocol/auth"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/utils/pointers"
)

// HandleReq processes a REQ: enforces the subscription caps, streams
// stored history, emits EOSE, then registers the subscription for live
// delivery so live events arrive strictly after the EOSE.
func (a *A) HandleReq(c context.T, rest []json.RawMessage) (notice []byte) {
	var err error
	var env *reqenvelope.T
	if env, err = reqenvelope.Parse(rest); chk.D(err) {
		return []byte(err.Error())
	}
	cfg := a.I.Config()
	sub := string(env.Subscription)
	if len(sub) == 0 || (cfg.MaxSubidLength > 0 && len(sub) > cfg.MaxSubidLength) {
		if err = closedenvelope.NewFrom(
			env.Subscription,
			reason.Invalid.F(
				"subscription id must be 1-%d characters", cfg.MaxSubidLength,
			),
		).Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	if cfg.MaxFilters > 0 && len(env.Filters.F) > cfg.MaxFilters {
		if err = closedenvelope.NewFrom(
			env.Subscription,
			reason.RateLimited.F("more than %d filters", cfg.MaxFilters),
		).Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	if a.I.AuthRequired() && !a.Listener.IsAuthed() {
		a.Listener.RequestAuth()
		if err = closedenvelope.NewFrom(
			env.Subscription,
			reason.AuthRequired.S("this relay requires authentication"),
		).Write(a.Listener); chk.E(err) {
			return
		}
		if err = authenvelope.NewChallengeWith(a.Listener.Challenge()).
			Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	if _, exists := a.subs[sub]; !exists &&
		cfg.MaxSubscriptions > 0 && len(a.subs) >= cfg.MaxSubscriptions {
		if err = closedenvelope.NewFrom(
			env.Subscription,
			reason.RateLimited.F(
				"more than %d concurrent subscriptions", cfg.MaxSubscriptions,
			),
		).Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	idsOnly := len(env.Filters.F) > 0
	for _, f := range env.Filters.F {
		if f.Ids == nil || f.Ids.Len() == 0 {
			idsOnly = false
		}
	}
	history := queryHistory(
		c, a.I.Storage(), env.Filters, cfg.MaxLimit,
		a.Listener.AuthedPubkey(),
	)
	for _, ev := range history {
		if err = eventenvelope.NewResultWith(
			env.Subscription, ev,
		).Write(a.Listener); chk.E(err) {
			return
		}
	}
	if err = eoseenvelope.NewFrom(env.Subscription).
		Write(a.Listener); chk.E(err) {
		return
	}
	// an ids-only query cannot produce more results than it already has,
	// so the subscription is complete
	if idsOnly {
		if err = closedenvelope.NewFrom(
			env.Subscription, nil,
		).Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	a.subs[sub] = struct{}{}
	a.I.Publisher().Receive(
		&W{Listener: a.Listener, Id: sub, Filters: env.Filters},
	)
	return
}

// queryHistory runs each filter of a subscription against the store,
// deduplicates and privilege-filters the hits, then orders the combined
// set newest first (ties broken by ascending id) and caps it by the
// smallest limit any filter requests. Per-filter limits are clamped to
// the relay's cap before querying.
func queryHistory(
	c context.T, sto store.Querent, ff *filters.T, maxLimit uint,
	authed []byte,
) (history event.S) {
	seen := make(map[string]struct{})
	for _, f := range ff.F {
		if pointers.Present(f.Limit) {
			if *f.Limit == 0 {
				continue
			}
			if maxLimit > 0 && *f.Limit > maxLimit {
				*f.Limit = maxLimit
			}
		}
		evs, err := sto.QueryEvents(c, f)
		if chk.E(err) {
			log.E.F("query failed: %v", err)
			continue
		}
		for _, ev := range evs {
			if _, dup := seen[string(ev.Id)]; dup {
				continue
			}
			seen[string(ev.Id)] = struct{}{}
			if !auth.CheckPrivilege(authed, ev) {
				continue
			}
			history = append(history, ev)
		}
	}
	sort.Slice(
		history, func(i, j int) bool {
			if history[i].CreatedAt.I64() != history[j].CreatedAt.I64() {
				return history[i].CreatedAt.I64() > history[j].CreatedAt.I64()
			}
			return bytes.Compare(history[i].Id, history[j].Id) < 0
		},
	)
	if limit := ff.Limit(); limit > 0 && uint(len(history)) > limit {
		history = history[:limit]
	}
	return
}
