package adminserver

import (
	"github.com/ipfs/go-cid"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/audit"
)

type (
	// UploadReq requests content to be uploaded to a storage node.  Exactly one of Path
	// and Data must be set.
	UploadReq struct {
		// Addr is the multiaddr of the storage node.
		Addr string `json:"addr"`
		// Path is a file path local to the daemon.
		Path string `json:"path,omitempty"`
		Data []byte `json:"data,omitempty"`
		// Provide registers the storage node as provider of the uploaded content.
		Provide bool `json:"provide"`
	}
	// UploadRes represents the response to an UploadReq.
	UploadRes struct {
		Cid cid.Cid `json:"cid"`
		// Warning is set if the pin could not be confirmed after upload, or the node
		// could not be registered as provider.
		Warning string `json:"warning,omitempty"`
	}
)

type (
	// ExistsReq asks for the live pin state of a CID on a storage node.
	ExistsReq struct {
		Addr string  `json:"addr"`
		Cid  cid.Cid `json:"cid"`
	}
	ExistsRes struct {
		// State is one of "pinned", "not pinned" and "unknown".
		State string `json:"state"`
		// Error explains why the state is unknown.
		Error string `json:"error,omitempty"`
	}
)

type (
	// RemoveReq requests the removal of a CID from a storage node.
	RemoveReq struct {
		Addr string  `json:"addr"`
		Cid  cid.Cid `json:"cid"`
		// Unprovide deregisters the node as a provider once the content is gone.
		Unprovide bool `json:"unprovide"`
	}
	RemoveRes struct {
		Removed     []cid.Cid                `json:"removed"`
		BlockErrors []pinprovider.BlockError `json:"block_errors,omitempty"`
		UnpinError  string                   `json:"unpin_error,omitempty"`
		// Warning is set if the node could not be deregistered as provider.
		Warning string `json:"warning,omitempty"`
	}
)

type (
	IDReq struct {
		Addr string `json:"addr"`
	}
	IDRes struct {
		ID              string   `json:"id"`
		Addrs           []string `json:"addrs"`
		AgentVersion    string   `json:"agent_version"`
		ProtocolVersion string   `json:"protocol_version"`
	}
)

type (
	// IndexReq identifies a provider record of a content ID.
	IndexReq struct {
		Cid       string `json:"cid"`
		PeerID    string `json:"peer_id"`
		Multiaddr string `json:"multiaddr"`
	}
	// IndexRes represents the response to a provider record change.
	IndexRes struct {
		// Changed is false when adding a known record or removing an unknown one.
		Changed bool `json:"changed"`
	}
	ProvidersRes struct {
		Providers []pinprovider.ProviderRecord `json:"providers"`
	}
)

type AuditRes struct {
	Entries []audit.Entry `json:"entries"`
}
