package mission

import "time"

// DefaultHistoryLimit bounds the history log.
const DefaultHistoryLimit = 100

// HistoryRecord is the terminal summary of a resolved mission.
type HistoryRecord struct {
	MissionID     int           `json:"missionId"`
	DefinitionID  string        `json:"definitionId"`
	Participants  []Participant `json:"participants"`
	Success       bool          `json:"success"`
	Rewards       Rewards       `json:"rewards"`
	Duration      int           `json:"duration"`
	EventCount    int           `json:"eventCount"`
	Recalled      bool          `json:"recalled,omitempty"`
	CompletedAt   time.Time     `json:"completedAt"`
	CompletedTick int           `json:"completedTick"`
}

// HistoryLog is a fixed-size ring of records; once full, appending evicts
// the oldest record.
type HistoryLog struct {
	buf   []HistoryRecord
	head  int // next write position
	size  int
	limit int
}

// NewHistoryLog creates a log holding at most limit records.
func NewHistoryLog(limit int) *HistoryLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryLog{buf: make([]HistoryRecord, limit), limit: limit}
}

// Append pushes rec, evicting the oldest record when full.
func (h *HistoryLog) Append(rec HistoryRecord) {
	h.buf[h.head] = rec
	h.head = (h.head + 1) % h.limit
	if h.size < h.limit {
		h.size++
	}
}

// Recent returns up to n records, most recent first.
func (h *HistoryLog) Recent(n int) []HistoryRecord {
	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return []HistoryRecord{}
	}
	out := make([]HistoryRecord, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.head - 1 - i + h.limit) % h.limit
		out = append(out, h.buf[idx])
	}
	return out
}

// All returns every record, oldest first.
func (h *HistoryLog) All() []HistoryRecord {
	out := make([]HistoryRecord, 0, h.size)
	start := (h.head - h.size + h.limit) % h.limit
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(start+i)%h.limit])
	}
	return out
}

// Len returns the number of stored records.
func (h *HistoryLog) Len() int { return h.size }

// Limit returns the capacity.
func (h *HistoryLog) Limit() int { return h.limit }

func (h *HistoryLog) reset() {
	clear(h.buf)
	h.head = 0
	h.size = 0
}
