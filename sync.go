package vlist

import "context"

// EntityEventReceived applies an externally originated create/update/delete
// notification. Events arriving while a page fetch is outstanding are queued
// and reconciled after it completes, so a racing page append can never
// overwrite a reconciled change. Must be called on the owner goroutine.
func (l *List) EntityEventReceived(ev EntityEvent) {
	if ev.ListID != l.opts.ListID {
		return
	}
	if flight := l.paginator.Inflight(); flight != nil {
		l.pendingEvents = append(l.pendingEvents, ev)
		if !l.drainScheduled {
			l.drainScheduled = true
			go func() {
				<-flight.Done()
				l.run(l.drainEvents)
			}()
		}
		return
	}
	l.applyEvent(ev)
}

// drainEvents replays queued entity events. An event that finds a new fetch
// in flight re-queues itself.
func (l *List) drainEvents() {
	l.drainScheduled = false
	if len(l.pendingEvents) == 0 {
		return
	}
	pending := l.pendingEvents
	l.pendingEvents = nil
	for _, ev := range pending {
		l.EntityEventReceived(ev)
	}
}

func (l *List) applyEvent(ev EntityEvent) {
	l.log.Debug().
		Str("id", ev.ID).
		Str("list", ev.ListID).
		Stringer("op", ev.Op).
		Msg("entity event")
	switch ev.Op {
	case OpCreate:
		l.loadAndApply(ev.ID, l.applyCreate)
	case OpUpdate:
		l.loadAndApply(ev.ID, l.applyUpdate)
	case OpDelete:
		l.applyDelete(ev.ID)
	}
}

// loadAndApply fetches the full entity off the owner goroutine and funnels
// the application back through the post hook.
func (l *List) loadAndApply(id string, apply func(Entity)) {
	if l.opts.LoadSingle == nil {
		return
	}
	go func() {
		e, err := l.opts.LoadSingle(context.Background(), id)
		if err != nil {
			l.log.Warn().Err(err).Str("id", id).Msg("entity load failed")
			return
		}
		if e == nil {
			return
		}
		l.run(func() { apply(e) })
	}()
}

// applyCreate inserts a newly created entity when it belongs to the already
// materialized range: either the list is completely loaded, or the entity
// sorts before the current last loaded entity.
func (l *List) applyCreate(e Entity) {
	if !l.inLoadedRange(e) {
		return
	}
	if !l.store.Insert(e) {
		return
	}
	l.window.Reposition()
	l.updateEmpty()
	if l.pendingSelectID != "" && l.pendingSelectID == e.EntityID() {
		l.pendingSelectID = ""
		l.scrollToEntity(e)
		l.selectProgrammatic(e)
	}
}

func (l *List) inLoadedRange(e Entity) bool {
	if l.store.Complete() {
		return true
	}
	last := l.store.Last()
	if last == nil {
		return false
	}
	return l.opts.Compare(e, last) < 0
}

func (l *List) applyUpdate(e Entity) {
	if !l.store.Replace(e) {
		return
	}
	l.window.Reposition()
}

// applyDelete removes the entity and, when the store advanced the selection
// to the next entity, reports the change as a non-explicit multi-origin one.
func (l *List) applyDelete(id string) {
	removed, selChanged, autoAdvanced := l.store.Remove(id)
	if removed == nil {
		return
	}
	l.window.Reposition()
	l.updateEmpty()
	if selChanged {
		l.notifySelected(false, true, autoAdvanced)
	}
}
