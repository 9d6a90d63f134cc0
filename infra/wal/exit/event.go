package exit

// Event is the JSON payload stored alongside each outbox entry and
// eventually published by the broadcaster. Kept small and stable since
// downstream consumers decode it independently of this process.
type Event struct {
	Type string `json:"type"`
	ID   uint64 `json:"id"`
	Seq  uint64 `json:"seq"`
}
