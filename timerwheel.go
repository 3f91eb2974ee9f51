package greyloop

// TimerID identifies a pending entry in a TimerWheel.
type TimerID uint64

// TimerEntry is one pending timer. Thunk runs when Expiry is reached;
// Expiry is measured in the wheel's own unitless virtual ticks, absolute
// relative to the wheel's creation (tick 0).
type TimerEntry struct {
	ID     TimerID
	Expiry int64
	Thunk  Thunk

	bucket      int
	posInBucket int
}

// TimerWheel is a fixed-depth, decimal (base-10) cascading timer wheel:
// DEPTH gears of 10 buckets each, advanced like an odometer. On every
// tick the least-significant gear increments; when a gear rolls from 9
// back to 0 it carries into the next gear, and whichever gears changed
// this tick have their corresponding bucket re-examined — entries due now
// fire, entries not yet due cascade down into a bucket closer to gear 0.
//
// Insertion and a single tick's worth of cascading are O(1) amortized;
// cancellation is linear in the size of the cancelled entry's bucket.
// TimerWheel is not safe for concurrent use.
type TimerWheel struct {
	depth     int
	gears     []int
	buckets   [][]*TimerEntry
	index     map[TimerID]*TimerEntry
	time      int64
	count     int
	maxTimers int
}

// NewTimerWheel constructs a TimerWheel. WithDepth and WithMaxTimers
// configure its gear count and capacity; other Option values (WithLogger,
// WithMetrics) are accepted but have no effect on a bare TimerWheel — they
// matter only when the wheel is owned by a [ScheduledExecutor].
func NewTimerWheel(opts ...Option) *TimerWheel {
	return newTimerWheelFromConfig(resolveOptions(opts))
}

func newTimerWheelFromConfig(cfg *schedulerOptions) *TimerWheel {
	return &TimerWheel{
		depth:     cfg.depth,
		gears:     make([]int, cfg.depth),
		buckets:   make([][]*TimerEntry, cfg.depth*10),
		index:     make(map[TimerID]*TimerEntry),
		maxTimers: cfg.maxTimers,
	}
}

// Time returns the wheel's current virtual time.
func (w *TimerWheel) Time() int64 {
	return w.time
}

// TimerCount returns the number of currently pending entries.
func (w *TimerWheel) TimerCount() int {
	return w.count
}

// AddTimer inserts entry into the wheel. It fails with [ErrPastExpiry] if
// entry.Expiry is not strictly after the wheel's current time, with
// [ErrCapacityExceeded] if the wheel already holds its configured maximum
// number of timers, and with [ErrOverflow] if the delay until expiry
// exceeds what the wheel's depth can represent (it is 10^DEPTH or more).
func (w *TimerWheel) AddTimer(entry *TimerEntry) error {
	if entry.Expiry <= w.time {
		return ErrPastExpiry
	}
	if w.count >= w.maxTimers {
		return ErrCapacityExceeded
	}
	bucket, err := w.bucketForDelta(entry.Expiry - w.time)
	if err != nil {
		return err
	}
	w.place(entry, bucket)
	w.index[entry.ID] = entry
	w.count++
	return nil
}

// CancelTimer removes the entry identified by id, if still pending.
// Returns false if id is unknown — including an already-fired or
// already-cancelled timer, making it idempotent.
func (w *TimerWheel) CancelTimer(id TimerID) bool {
	entry, ok := w.index[id]
	if !ok {
		return false
	}
	w.remove(entry)
	delete(w.index, id)
	w.count--
	return true
}

// FindNextTimeout returns the minimum expiry among all pending entries.
// The second return value is false if the wheel is empty. This is an O(N)
// scan, used only to drive a ScheduledExecutor's Run loop between ticks.
func (w *TimerWheel) FindNextTimeout() (int64, bool) {
	found := false
	var min int64
	for _, bucket := range w.buckets {
		for _, entry := range bucket {
			if !found || entry.Expiry < min {
				min = entry.Expiry
				found = true
			}
		}
	}
	return min, found
}

// AdvanceBy advances the wheel's virtual clock by n ticks, one at a time,
// firing and cascading entries as it goes. Entry thunks are invoked
// directly and must not panic — by contract (see [ScheduledExecutor]) they
// only enqueue work onto an Executor, never run user callbacks inline.
func (w *TimerWheel) AdvanceBy(n int64) {
	for i := int64(0); i < n; i++ {
		w.advanceOne()
	}
}

// advanceOne performs a single tick: increments time, rolls the gear
// odometer, and processes every bucket touched by gears that changed.
func (w *TimerWheel) advanceOne() {
	w.time++
	carry := 1
	for gear := 0; gear < w.depth && carry > 0; gear++ {
		w.gears[gear] += carry
		if w.gears[gear] == 10 {
			w.gears[gear] = 0
			carry = 1
		} else {
			carry = 0
		}
		w.processBucket(gear*10 + w.gears[gear])
	}
}

// processBucket fires or cascades every entry currently in the given
// global bucket index, as of the moment the owning gear reached this
// position.
func (w *TimerWheel) processBucket(bucketIdx int) {
	entries := w.buckets[bucketIdx]
	if len(entries) == 0 {
		return
	}
	w.buckets[bucketIdx] = nil
	for _, entry := range entries {
		if entry.Expiry == w.time {
			delete(w.index, entry.ID)
			w.count--
			entry.Thunk()
			continue
		}
		bucket, err := w.bucketForDelta(entry.Expiry - w.time)
		if err != nil {
			// Unreachable under normal operation: a previously-accepted
			// entry's remaining delay cannot newly exceed capacity.
			delete(w.index, entry.ID)
			w.count--
			continue
		}
		w.place(entry, bucket)
	}
}

// bucketForDelta maps a positive delay (in ticks from now) to a global
// bucket index relative to the wheel's current position: the entry goes
// into the highest gear whose decimal digit differs between the current
// time and the expiry, at the expiry's digit for that gear. That bucket is
// next scanned no later than the expiry, at which point the entry either
// fires or is re-bucketed by the same rule — the placement a cascaded
// entry receives. Delays of 10^DEPTH or more fail with [ErrOverflow].
func (w *TimerWheel) bucketForDelta(delta int64) (int, error) {
	expiry := w.time + delta
	bucket := 0
	base := int64(1)
	for gear := 0; gear < w.depth && base <= expiry; gear++ {
		if digit := (expiry / base) % 10; digit != (w.time/base)%10 {
			bucket = gear*10 + int(digit)
		}
		base *= 10
	}
	if delta >= base {
		return 0, ErrOverflow
	}
	return bucket, nil
}

// place inserts entry into bucketIdx, recording its position so that
// remove can find it without searching the bucket.
func (w *TimerWheel) place(entry *TimerEntry, bucketIdx int) {
	entry.bucket = bucketIdx
	entry.posInBucket = len(w.buckets[bucketIdx])
	w.buckets[bucketIdx] = append(w.buckets[bucketIdx], entry)
}

// remove deletes entry from its current bucket, preserving the relative
// insertion order of the entries that remain — needed so that two
// same-expiry timers still fire in insertion order even if an unrelated
// timer sharing their bucket was cancelled in between.
func (w *TimerWheel) remove(entry *TimerEntry) {
	bucket := w.buckets[entry.bucket]
	i := entry.posInBucket
	copy(bucket[i:], bucket[i+1:])
	bucket = bucket[:len(bucket)-1]
	for ; i < len(bucket); i++ {
		bucket[i].posInBucket = i
	}
	w.buckets[entry.bucket] = bucket
}
