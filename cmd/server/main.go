package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"

	"rcuengine/api/grpcserver"
	"rcuengine/domain/orderbook"
	infrakafka "rcuengine/infra/kafka"
	"rcuengine/infra/sequence"
	entrywal "rcuengine/infra/wal/entry"
	exitwal "rcuengine/infra/wal/exit"
	"rcuengine/jobs/broadcaster"
	"rcuengine/rcu"
	"rcuengine/service"
	"rcuengine/snapshot"
)

func main() {
	// ---------------- Entry WAL ----------------

	entryWAL, err := entrywal.Open(entrywal.Config{
		Dir:         "./wal_entry",
		SegmentSize: 2 * 1024 * 1024,
	})
	if err != nil {
		log.Fatalf("entry WAL init failed: %v", err)
	}

	// ---------------- Exit WAL ----------------

	exitWAL, err := exitwal.Open("./wal_exit")
	if err != nil {
		log.Fatalf("exit WAL init failed: %v", err)
	}
	defer exitWAL.Close()

	// ---------------- Sequencer ----------------

	seqGen := sequence.New(0)

	// ---------------- Domain: restore from snapshot, then replay WAL ----------------

	book, snapSeq, err := snapshot.Load("./wal_entry/snapshot.bin")
	if err != nil {
		log.Fatalf("snapshot load failed: %v", err)
	}
	seqGen.Reset(snapSeq)

	if err := service.ReplayFromWAL("./wal_entry", book, seqGen); err != nil {
		log.Fatalf("WAL replay failed: %v", err)
	}

	// ---------------- RCU engine ----------------

	engine := rcu.New[*orderbook.OrderBook](book, nil, rcu.Config{
		ReclaimInterval: 50 * time.Millisecond,
	})
	defer engine.Close(context.Background())

	// ---------------- Service ----------------

	svc := service.NewOrderService(engine, seqGen, entryWAL, exitWAL)

	// ---------------- Background jobs ----------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.StartSnapshotJob(ctx, "./wal_entry", 30*time.Second)

	bc, err := broadcaster.New(exitWAL, []string{"localhost:9092"}, "order-events")
	if err != nil {
		log.Fatalf("broadcaster init failed: %v", err)
	}
	defer bc.Close()
	go bc.Run(ctx, 250*time.Millisecond)

	diagProducer := infrakafka.NewProducer([]string{"localhost:9092"}, "engine-diagnostics")
	defer diagProducer.Close()
	go infrakafka.RunDiagnosticsPublisher(ctx, diagProducer, 5*time.Second, engine.Diagnostics)

	// ---------------- gRPC ----------------

	lis, err := net.Listen("tcp", ":50051")
	if err != nil {
		log.Fatalf("listen failed: %v", err)
	}

	grpcSrv := grpc.NewServer()
	grpcSrv.RegisterService(&grpcserver.OrderService_ServiceDesc, grpcserver.NewServer(svc))

	fmt.Println("engine running on :50051")

	if err := grpcSrv.Serve(lis); err != nil {
		log.Fatalf("gRPC server exited: %v", err)
	}
}
