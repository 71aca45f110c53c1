package config

// Storage tracks the configuration of the client used to reach storage nodes.
type Storage struct {
	// RPCTimeout bounds every RPC call made to a storage node.  Zero means calls are only
	// bounded by the request context.
	RPCTimeout Duration
	// CidVersion is the CID version storage nodes use for uploaded content, 0 or 1.
	CidVersion int
}

// NewStorage instantiates a new Storage config with default values.
func NewStorage() Storage {
	return Storage{}
}
