package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	files "github.com/ipfs/boxo/files"
	shell "github.com/ipfs/go-ipfs-api"
)

var _ Node = (*shellNode)(nil)

// shellNode implements Node on top of the Kubo RPC API.
type shellNode struct {
	sh         *shell.Shell
	cidVersion int
}

func newShellNode(host string, opts *options) *shellNode {
	return &shellNode{
		sh:         shell.NewShellWithClient(host, opts.httpClient),
		cidVersion: opts.cidVersion,
	}
}

func (n *shellNode) Add(ctx context.Context, r io.Reader) (string, error) {
	dir := files.NewSliceDirectory([]files.DirEntry{files.FileEntry("", files.NewReaderFile(r))})
	// The shell sets the multipart content type from the reader boundary.
	body := files.NewMultiFileReader(dir, true, false)

	var out struct {
		Name string
		Hash string
	}
	err := n.sh.Request("add").
		Option("pin", true).
		Option("cid-version", n.cidVersion).
		Body(body).
		Exec(ctx, &out)
	if err != nil {
		return "", err
	}
	if out.Hash == "" {
		return "", errors.New("node returned no hash for added content")
	}
	return out.Hash, nil
}

func (n *shellNode) PinAdd(ctx context.Context, path string) error {
	return n.sh.Request("pin/add", path).
		Option("recursive", true).
		Exec(ctx, nil)
}

func (n *shellNode) PinLs(ctx context.Context, path string) ([]Pin, error) {
	var out struct {
		Keys map[string]struct {
			Type string
		}
	}
	err := n.sh.Request("pin/ls", path).
		Option("type", pinTypeAll).
		Exec(ctx, &out)
	if err != nil {
		return nil, err
	}
	pins := make([]Pin, 0, len(out.Keys))
	for k, v := range out.Keys {
		pins = append(pins, Pin{Cid: k, Type: v.Type})
	}
	return pins, nil
}

func (n *shellNode) PinRm(ctx context.Context, path string) error {
	return n.sh.Request("pin/rm", path).
		Option("recursive", true).
		Exec(ctx, nil)
}

func (n *shellNode) BlockRm(ctx context.Context, path string) ([]BlockRmResult, error) {
	resp, err := n.sh.Request("block/rm", path).
		Option("force", true).
		Send(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if resp.Error != nil {
		return nil, resp.Error
	}

	var results []BlockRmResult
	dec := json.NewDecoder(resp.Output)
	for {
		var r struct {
			Hash  string
			Error string
		}
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				return results, nil
			}
			return nil, fmt.Errorf("cannot decode block removal result: %w", err)
		}
		results = append(results, BlockRmResult{Hash: r.Hash, Error: r.Error})
	}
}

func (n *shellNode) ID(ctx context.Context) (*NodeID, error) {
	var out shell.IdOutput
	if err := n.sh.Request("id").Exec(ctx, &out); err != nil {
		return nil, err
	}
	return &NodeID{
		ID:              out.ID,
		Addresses:       out.Addresses,
		AgentVersion:    out.AgentVersion,
		ProtocolVersion: out.ProtocolVersion,
	}, nil
}
