package exit

import "testing"

func openTestWAL(t *testing.T) *ExitWAL {
	t.Helper()
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestPutNewAndGet(t *testing.T) {
	w := openTestWAL(t)
	if err := w.PutNew(1, []byte("payload-1")); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}

	rec, err := w.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.State != StateNew {
		t.Errorf("expected StateNew, got %v", rec.State)
	}
	if string(rec.Payload) != "payload-1" {
		t.Errorf("payload mismatch: got %q", rec.Payload)
	}
}

func TestMarkSentThenAcked(t *testing.T) {
	w := openTestWAL(t)
	if err := w.PutNew(2, []byte("p")); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}
	if err := w.MarkSent(2); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}

	rec, err := w.Get(2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.State != StateSent {
		t.Errorf("expected StateSent, got %v", rec.State)
	}
	if string(rec.Payload) != "p" {
		t.Error("MarkSent should preserve the payload")
	}

	if err := w.MarkAcked(2); err != nil {
		t.Fatalf("MarkAcked failed: %v", err)
	}
	rec, err = w.Get(2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.State != StateAcked {
		t.Errorf("expected StateAcked, got %v", rec.State)
	}
}

func TestScanByState(t *testing.T) {
	w := openTestWAL(t)
	for _, id := range []uint64{10, 11, 12} {
		if err := w.PutNew(id, nil); err != nil {
			t.Fatalf("PutNew(%d) failed: %v", id, err)
		}
	}
	if err := w.MarkSent(11); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}

	var newIDs []uint64
	err := w.ScanByState(StateNew, func(orderID uint64, _ ExitRecord) error {
		newIDs = append(newIDs, orderID)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanByState failed: %v", err)
	}
	if len(newIDs) != 2 {
		t.Fatalf("expected 2 NEW records, got %d: %v", len(newIDs), newIDs)
	}
}

func TestDeleteAcked(t *testing.T) {
	w := openTestWAL(t)
	if err := w.PutNew(20, nil); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}
	if err := w.MarkSent(20); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if err := w.MarkAcked(20); err != nil {
		t.Fatalf("MarkAcked failed: %v", err)
	}

	if err := w.DeleteAcked(); err != nil {
		t.Fatalf("DeleteAcked failed: %v", err)
	}
	if _, err := w.Get(20); err == nil {
		t.Error("expected acked record to be gone after DeleteAcked")
	}
}

// --- Edge cases ---

func TestGetMissingOrder(t *testing.T) {
	w := openTestWAL(t)
	if _, err := w.Get(999); err == nil {
		t.Error("expected an error fetching a record that was never inserted")
	}
}

func TestScanByStateWithNoMatches(t *testing.T) {
	w := openTestWAL(t)
	if err := w.PutNew(1, nil); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}

	called := false
	err := w.ScanByState(StateFailed, func(uint64, ExitRecord) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("ScanByState failed: %v", err)
	}
	if called {
		t.Error("callback should not fire when no record matches the state")
	}
}
