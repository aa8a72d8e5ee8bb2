package message

// Queue implements queue_merge (spec §4.A): an incoming ControlChange or
// Sysex supersedes any already-queued message with the same (channel,
// control) or (family, suffix, body length) key; every other message type retains FIFO
// order. Continuous-controller bursts collapse to their latest value
// without disturbing note-on/off ordering.
type Queue struct {
	items []Message
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue { return &Queue{} }

// Len reports the number of queued messages.
func (q *Queue) Len() int { return len(q.items) }

// Items returns the queue contents in FIFO dequeue order. The caller must
// not mutate the returned slice.
func (q *Queue) Items() []Message { return q.items }

// Merge applies queue_merge's policy for one incoming message.
func (q *Queue) Merge(incoming Message) {
	switch incoming.(type) {
	case ControlChange, Sysex:
		key := mergeKey(incoming)
		filtered := q.items[:0:0]
		for _, existing := range q.items {
			if sameKey(existing, key) {
				continue
			}
			filtered = append(filtered, existing)
		}
		q.items = append(filtered, incoming)
	default:
		q.items = append(q.items, incoming)
	}
}

// Pop removes and returns the oldest queued message.
func (q *Queue) Pop() (Message, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

type mergeKeyValue struct {
	kind          Kind
	channel       int
	control       int
	family        AddrFamily
	suffix        [2]int
	bodyShapeLen  int
}

func mergeKey(m Message) mergeKeyValue {
	switch v := m.(type) {
	case ControlChange:
		return mergeKeyValue{kind: KindControlChange, channel: v.Channel, control: v.Control}
	case Sysex:
		decoded, err := DecodeSysex(v)
		if err != nil {
			return mergeKeyValue{kind: KindSysex, bodyShapeLen: len(v.Bytes)}
		}
		return mergeKeyValue{kind: KindSysex, family: decoded.Family, suffix: decoded.Suffix, bodyShapeLen: len(decoded.Body)}
	default:
		return mergeKeyValue{}
	}
}

func sameKey(existing Message, key mergeKeyValue) bool {
	other := mergeKey(existing)
	if other.kind != key.kind {
		return false
	}
	switch key.kind {
	case KindControlChange:
		return other.channel == key.channel && other.control == key.control
	case KindSysex:
		return other.family == key.family && other.suffix == key.suffix && other.bodyShapeLen == key.bodyShapeLen
	default:
		return false
	}
}

// AvalancheControlSum is the sum of CC controller numbers 16..23, used to
// detect the track-selection avalanche (spec §4.A, §8 scenario 4).
const AvalancheControlSum = 156

// AvalancheDetector watches for 8 successive CCs on controls 16..23 whose
// control numbers sum to AvalancheControlSum and collapses them into a
// single channel-focus-change message, dropping the rest of the window.
type AvalancheDetector struct {
	pending []ControlChange
}

// Observe feeds one incoming CC through the detector. It returns
// (focusChannel, true) the moment the window completes the avalanche
// pattern (caller should drop the triggering CC and everything buffered);
// otherwise it returns (0, false) and the CC should be forwarded normally
// by the caller once Observe also reports the buffer did not match.
func (d *AvalancheDetector) Observe(cc ControlChange) (focusChannel int, isAvalanche bool, flushed []ControlChange) {
	if cc.Control < 16 || cc.Control > 23 {
		flushed = d.flush()
		return 0, false, flushed
	}
	d.pending = append(d.pending, cc)
	if len(d.pending) < 8 {
		return 0, false, nil
	}
	sum := 0
	for _, p := range d.pending {
		sum += p.Control
	}
	first := d.pending[0]
	d.pending = nil
	if sum == AvalancheControlSum {
		return first.Channel, true, nil
	}
	return 0, false, []ControlChange{first}
}

func (d *AvalancheDetector) flush() []ControlChange {
	out := d.pending
	d.pending = nil
	return out
}
