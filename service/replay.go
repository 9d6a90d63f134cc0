package service

import (
	"fmt"
	"strconv"
	"strings"

	"rcuengine/domain/orderbook"
	"rcuengine/infra/sequence"
	entrywal "rcuengine/infra/wal/entry"
)

/*
ReplayFromWAL rebuilds in-memory state from the entry WAL, before the rcu
engine publishing that state exists.

IMPORTANT:
- This MUST run before accepting traffic
- The exit WAL is NOT replayed
*/
func ReplayFromWAL(
	walDir string,
	book *orderbook.OrderBook,
	seqGen *sequence.Sequencer,
) error {
	lastSeq, err := entrywal.Replay(walDir, func(rec *entrywal.Record) error {
		if rec.Type != entrywal.RecordPlace {
			return nil
		}

		// Payload format:
		// userID|side|type|price|qty
		parts := strings.Split(string(rec.Data), "|")
		if len(parts) != 5 {
			return fmt.Errorf("invalid WAL payload: %s", string(rec.Data))
		}

		userID, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return err
		}

		side, err := strconv.Atoi(parts[1])
		if err != nil {
			return err
		}

		otype, err := strconv.Atoi(parts[2])
		if err != nil {
			return err
		}

		price, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return err
		}

		qty, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			return err
		}

		book.Place(&orderbook.Order{
			ID:     userID,
			Side:   orderbook.Side(side),
			Type:   orderbook.OrderType(otype),
			Price:  price,
			Qty:    qty,
			SeqID:  rec.Seq,
			Status: orderbook.Active,
		})
		return nil
	})
	if err != nil {
		return err
	}

	// Resume sequencing AFTER replay
	seqGen.Reset(lastSeq)

	fmt.Printf("WAL replay completed successfully (last seq = %d)\n", lastSeq)
	return nil
}
