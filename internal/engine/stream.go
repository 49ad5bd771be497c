package engine

import "context"

// streamBuffer lets the producer run a few events ahead of a slow consumer.
const streamBuffer = 16

// ExecuteStreaming runs g like Execute but reports progress as events. The
// returned channel receives a terminal complete or error event and is then
// closed. When ctx is cancelled the producer stops sending and closes the
// channel without a terminal event.
func (slf *Executor) ExecuteStreaming(ctx context.Context, g *Graph) <-chan Event {
	events := make(chan Event, streamBuffer)

	go func() {
		defer close(events)

		emit := func(ev Event) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		defer func() {
			if r := recover(); r != nil {
				slf.logger.Error().Interface("panic", r).Msg("streaming execution aborted")
				emit(newErrorEvent([]string{executionFailed(r)}))
			}
		}()

		slf.stream(ctx, g, emit)
	}()

	return events
}

func (slf *Executor) stream(ctx context.Context, g *Graph, emit func(Event) bool) {
	validation := Validate(g)
	if !validation.Valid {
		emit(newErrorEvent(validation.Messages()))
		return
	}

	p := newPlan(g)
	total := len(p.order)
	if !emit(newStartEvent(total)) {
		return
	}

	completed := 0
	progress := func() float64 {
		if total == 0 {
			return 0
		}
		return float64(completed) / float64(total)
	}

	errs := make([]string, 0)
	for _, id := range p.order {
		node := p.node(id)
		if !emit(newNodeStartEvent(node, progress())) {
			return
		}

		err := slf.executeNode(ctx, p, node)
		completed++
		if err != nil {
			errs = append(errs, nodeFailed(id, err))
			if !emit(newNodeErrorEvent(node, err, progress())) {
				return
			}
			continue
		}
		if !emit(newNodeCompleteEvent(node, progress())) {
			return
		}
	}

	emit(newCompleteEvent(total, completed, errs))
}
