package service

import (
	"context"
	"log"
	"time"

	"rcuengine/snapshot"
)

// StartSnapshotJob periodically persists a consistent view of the live
// book, truncates the entry WAL up to the point it covers, and deletes
// every acknowledged exit-WAL record. It stops when ctx is cancelled.
func (s *OrderService) StartSnapshotJob(ctx context.Context, dir string, interval time.Duration) {
	w := &snapshot.Writer{Dir: dir}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.runSnapshot(w)
			}
		}
	}()
}

func (s *OrderService) runSnapshot(w *snapshot.Writer) {
	g, err := s.engine.Read(context.Background())
	if err != nil {
		return
	}
	book := g.Value()
	seq := book.LastSeq.Load()
	writeErr := w.Write(seq, book)
	g.Release()

	if writeErr != nil {
		log.Printf("[snapshot] write failed: %v", writeErr)
		return
	}

	_ = s.entryWAL.TruncateBefore(seq)
	_ = s.exitWAL.DeleteAcked()
}
