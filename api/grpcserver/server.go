package grpcserver

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"rcuengine/domain/orderbook"
	"rcuengine/service"
)

// Server adapts OrderService to gRPC.
type Server struct {
	svc *service.OrderService
}

func NewServer(svc *service.OrderService) *Server {
	return &Server{svc: svc}
}

// -------------------- Commands --------------------

// PlaceOrder expects a Struct with fields "side", "type", "price", "qty",
// "userId" and returns one with "status" and "seqId".
func (s *Server) PlaceOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	side := toSide(int(fields["side"].GetNumberValue()))
	otype := toType(int(fields["type"].GetNumberValue()))
	price := int64(fields["price"].GetNumberValue())
	qty := int64(fields["qty"].GetNumberValue())
	userID := uint64(fields["userId"].GetNumberValue())

	seq, err := s.svc.PlaceOrder(ctx, side, otype, price, qty, userID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "place order: %v", err)
	}

	log.Printf("[gRPC] PlaceOrder side=%v type=%v price=%d qty=%d seq=%d", side, otype, price, qty, seq)

	resp, err := structpb.NewStruct(map[string]any{
		"status": "ok",
		"seqId":  float64(seq),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// -------------------- Queries --------------------

// GetSnapshot returns a Struct with a single "orders" list field, each
// entry itself a Struct of "id", "side", "type", "price", "qty".
func (s *Server) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	orders, err := s.svc.Snapshot(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "snapshot: %v", err)
	}

	entries := make([]any, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, map[string]any{
			"id":    float64(o.ID),
			"side":  float64(fromSide(o.Side)),
			"type":  float64(fromType(o.Type)),
			"price": float64(o.Price),
			"qty":   float64(o.Qty),
		})
	}

	resp, err := structpb.NewStruct(map[string]any{"orders": entries})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// -------------------- Converters --------------------

const (
	sideBid = 0
	sideAsk = 1

	typeLimit    = 0
	typeMarket   = 1
	typeIOC      = 2
	typeFOK      = 3
	typePostOnly = 4
)

func toSide(v int) orderbook.Side {
	if v == sideAsk {
		return orderbook.Ask
	}
	return orderbook.Bid
}

func toType(v int) orderbook.OrderType {
	switch v {
	case typeMarket:
		return orderbook.Market
	case typeIOC:
		return orderbook.IOC
	case typeFOK:
		return orderbook.FOK
	case typePostOnly:
		return orderbook.PostOnly
	default:
		return orderbook.Limit
	}
}

func fromSide(s orderbook.Side) int {
	if s == orderbook.Ask {
		return sideAsk
	}
	return sideBid
}

func fromType(t orderbook.OrderType) int {
	switch t {
	case orderbook.Market:
		return typeMarket
	case orderbook.IOC:
		return typeIOC
	case orderbook.FOK:
		return typeFOK
	case orderbook.PostOnly:
		return typePostOnly
	default:
		return typeLimit
	}
}
