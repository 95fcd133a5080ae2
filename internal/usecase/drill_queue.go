package usecase

import "github.com/lexikon-app/lexikon/internal/entity"

// DrillQueue runs an error-focused drill: items are presented in order
// and a missed item is reinserted a few positions ahead so it comes
// back while still fresh. The queue stops handing out items once the
// attempt cap is reached, bounding a bad run.
type DrillQueue struct {
	queue          []entity.SessionCandidate
	current        *entity.SessionCandidate
	reinsertOffset int
	attemptCap     int
	attempts       int
}

// NewDrillQueue builds a drill over the given candidates, assumed to be
// ordered weakest first.
func NewDrillQueue(candidates []entity.SessionCandidate, reinsertOffset, attemptCap int) *DrillQueue {
	return &DrillQueue{
		queue:          append([]entity.SessionCandidate(nil), candidates...),
		reinsertOffset: reinsertOffset,
		attemptCap:     attemptCap,
	}
}

// Next returns the next item to present, or nil when the drill is over.
// Each returned item must be resolved with Record before the next call.
func (q *DrillQueue) Next() *entity.SessionCandidate {
	if q.current != nil {
		return q.current
	}
	if q.attempts >= q.attemptCap || len(q.queue) == 0 {
		return nil
	}
	item := q.queue[0]
	q.queue = q.queue[1:]
	q.current = &item
	return q.current
}

// Record resolves the current item. A miss reinserts it a few positions
// ahead; a hit retires it from the drill.
func (q *DrillQueue) Record(correct bool) {
	if q.current == nil {
		return
	}
	q.attempts++
	if !correct {
		pos := q.reinsertOffset
		if pos > len(q.queue) {
			pos = len(q.queue)
		}
		q.queue = append(q.queue, entity.SessionCandidate{})
		copy(q.queue[pos+1:], q.queue[pos:])
		q.queue[pos] = *q.current
	}
	q.current = nil
}

// Remaining reports how many items are still waiting, not counting an
// unresolved current item.
func (q *DrillQueue) Remaining() int {
	return len(q.queue)
}

// Attempts reports how many items have been resolved so far.
func (q *DrillQueue) Attempts() int {
	return q.attempts
}

// Exhausted reports whether the drill has ended, either by clearing the
// queue or by hitting the attempt cap.
func (q *DrillQueue) Exhausted() bool {
	return q.current == nil && (len(q.queue) == 0 || q.attempts >= q.attemptCap)
}
