package storage

import (
	"context"
	"io"
)

//go:generate go run github.com/golang/mock/mockgen -destination=../mock/mock_node.go -package=mock_storage . Node

// Node is the RPC surface of a storage node that the Client relies on.  Paths are CIDs
// in their string form.
type Node interface {
	// Add submits content and asks the node to pin it.  It returns the CID string of the
	// added content.
	Add(ctx context.Context, r io.Reader) (string, error)
	// PinAdd pins path recursively.
	PinAdd(ctx context.Context, path string) error
	// PinLs lists the pins of every type for path.
	PinLs(ctx context.Context, path string) ([]Pin, error)
	// PinRm removes the recursive pin of path.
	PinRm(ctx context.Context, path string) error
	// BlockRm forcibly deletes the block at path and reports a result per block.
	BlockRm(ctx context.Context, path string) ([]BlockRmResult, error)
	// ID returns the identity of the node.
	ID(ctx context.Context) (*NodeID, error)
}

// Pin is a single pin listing entry.
type Pin struct {
	Cid  string
	Type string
}

// BlockRmResult is the outcome of deleting one block.  Error is empty on success.
type BlockRmResult struct {
	Hash  string
	Error string
}

// NodeID is the identity reported by a node.
type NodeID struct {
	ID              string
	Addresses       []string
	AgentVersion    string
	ProtocolVersion string
}

const (
	pinTypeAll       = "all"
	pinTypeRecursive = "recursive"
)
