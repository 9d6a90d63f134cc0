package service

import (
	"context"
	"encoding/json"
	"fmt"

	"rcuengine/domain/orderbook"
	"rcuengine/infra/sequence"
	entrywal "rcuengine/infra/wal/entry"
	exitwal "rcuengine/infra/wal/exit"
	"rcuengine/rcu"
)

/*
OrderService is the ONLY write entry point into the system.

All coordination between:
- domain (orderbook)
- infra (sequence, wal)
- the rcu engine publishing the live book
happens here.
*/
type OrderService struct {
	engine   *rcu.Engine[*orderbook.OrderBook]
	seqGen   *sequence.Sequencer
	entryWAL *entrywal.WAL
	exitWAL  *exitwal.ExitWAL
}

// NewOrderService wires all dependencies. No globals. No magic.
func NewOrderService(
	engine *rcu.Engine[*orderbook.OrderBook],
	seqGen *sequence.Sequencer,
	entryWAL *entrywal.WAL,
	exitWAL *exitwal.ExitWAL,
) *OrderService {
	return &OrderService{
		engine:   engine,
		seqGen:   seqGen,
		entryWAL: entryWAL,
		exitWAL:  exitWAL,
	}
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// PlaceOrder submits a new order into the engine and returns the assigned
// sequence number. The domain mutation itself runs asynchronously on the
// engine's reclaimer goroutine; PlaceOrder returns as soon as it is durably
// queued, not once it is visible to readers.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	side orderbook.Side,
	otype orderbook.OrderType,
	price int64,
	qty int64,
	userID uint64,
) (uint64, error) {
	seq := s.seqGen.Next()

	if err := s.entryWAL.Append(entrywal.NewRecord(
		entrywal.RecordPlace,
		seq,
		[]byte(fmt.Sprintf("%d|%d|%d|%d|%d", userID, side, otype, price, qty)),
	)); err != nil {
		return 0, err
	}

	o := &orderbook.Order{
		ID:     userID,
		Side:   side,
		Type:   otype,
		Price:  price,
		Qty:    qty,
		SeqID:  seq,
		Status: orderbook.Active,
	}

	err := s.engine.Update(ctx, func(book *orderbook.OrderBook) (*orderbook.OrderBook, error) {
		next := book.Clone()
		next.Place(o)
		s.recordExit(seq, o)
		return next, nil
	})
	if err != nil {
		return 0, err
	}

	return seq, nil
}

func (s *OrderService) recordExit(seq uint64, o *orderbook.Order) {
	payload, err := json.Marshal(exitwal.Event{Type: "order_placed", ID: o.ID, Seq: seq})
	if err != nil {
		return
	}
	_ = s.exitWAL.PutNew(seq, payload)
}

//
// ──────────────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────────────
//

// Snapshot returns a consistent view of all ACTIVE orders. The caller must
// treat returned orders as read-only: they are shared with whatever
// version of the book is currently published.
func (s *OrderService) Snapshot(ctx context.Context) ([]*orderbook.Order, error) {
	g, err := s.engine.Read(ctx)
	if err != nil {
		return nil, err
	}
	defer g.Release()

	book := g.Value()
	out := make([]*orderbook.Order, 0, 1024)

	book.BidsWalk(func(lvl *orderbook.PriceLevel) {
		for o := lvl.Head(); o != nil; o = o.Next() {
			if o.Status == orderbook.Active {
				out = append(out, o)
			}
		}
	})
	book.AsksWalk(func(lvl *orderbook.PriceLevel) {
		for o := lvl.Head(); o != nil; o = o.Next() {
			if o.Status == orderbook.Active {
				out = append(out, o)
			}
		}
	})

	return out, nil
}

// CurrentSeq returns the sequence embedded in the last order placed into
// the currently published book.
func (s *OrderService) CurrentSeq(ctx context.Context) (uint64, error) {
	g, err := s.engine.Read(ctx)
	if err != nil {
		return 0, err
	}
	defer g.Release()
	return g.Value().LastSeq.Load(), nil
}
