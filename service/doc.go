// Package service orchestrates the core components of the matching
// engine — orderbook, rcu engine, and WAL.
//
// It provides a clean API for placing and querying orders, decoupled from
// network transports like gRPC.
package service
