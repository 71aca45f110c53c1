// Package index keeps an in-memory record of which peers claim to provide which content.
//
// The index is advisory: it is not authoritative for whether content is actually pinned on
// any node.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	dssync "github.com/ipfs/go-datastore/sync"
	logging "github.com/ipfs/go-log/v2"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/metrics"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

var log = logging.Logger("pin-provider/index")

const keyPrefix = "/providers"

// Index maps content identifiers to the set of provider records known for them.
type Index struct {
	ds datastore.Batching
	// mu serializes mutations so that membership checks and writes are atomic.
	mu sync.Mutex
}

// New instantiates an index backed by ds.  Keys are written under the /providers namespace.
func New(ds datastore.Batching) *Index {
	return &Index{ds: ds}
}

// NewInMemory instantiates an index that keeps its records in memory only.
func NewInMemory() *Index {
	return New(dssync.MutexWrap(datastore.NewMapDatastore()))
}

// Add registers peerID at maddr as a provider of contentID.  Adding a record that is
// already present has no effect.  Add reports whether the record was newly stored.
func (x *Index) Add(ctx context.Context, contentID, peerID, maddr string) (bool, error) {
	rec := pinprovider.ProviderRecord{PeerID: peerID, Multiaddr: maddr}
	key, err := recordKey(contentID, rec)
	if err != nil {
		return false, err
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	exists, err := x.ds.Has(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cannot check provider record: %w", err)
	}
	if exists {
		return false, nil
	}
	if err = x.ds.Put(ctx, key, value); err != nil {
		return false, fmt.Errorf("cannot store provider record: %w", err)
	}
	metrics.RecordIndexChange(ctx, 1)
	log.Debugw("Added provider record", "cid", contentID, "peer", peerID, "multiaddr", maddr)
	return true, nil
}

// Get returns a snapshot of the provider records of contentID.  The order of records is
// unspecified.  An empty slice is returned for content with no known providers.
func (x *Index) Get(ctx context.Context, contentID string) ([]pinprovider.ProviderRecord, error) {
	results, err := x.ds.Query(ctx, query.Query{Prefix: cidPrefix(contentID)})
	if err != nil {
		return nil, fmt.Errorf("cannot query provider records: %w", err)
	}
	defer results.Close()

	recs := []pinprovider.ProviderRecord{}
	for r := range results.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("cannot read provider record: %w", r.Error)
		}
		var rec pinprovider.ProviderRecord
		if err = json.Unmarshal(r.Value, &rec); err != nil {
			return nil, fmt.Errorf("cannot decode provider record %s: %w", r.Key, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Remove deletes the record of peerID at maddr for contentID.  Both fields must match
// exactly.  Remove reports whether a record was deleted; a missing record is not an error.
func (x *Index) Remove(ctx context.Context, contentID, peerID, maddr string) (bool, error) {
	rec := pinprovider.ProviderRecord{PeerID: peerID, Multiaddr: maddr}
	key, err := recordKey(contentID, rec)
	if err != nil {
		return false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	exists, err := x.ds.Has(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cannot check provider record: %w", err)
	}
	if !exists {
		return false, nil
	}
	if err = x.ds.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("cannot delete provider record: %w", err)
	}
	metrics.RecordIndexChange(ctx, -1)
	log.Infow("Removed from index", "cid", contentID, "peer", peerID, "multiaddr", maddr)
	return true, nil
}

// cidPrefix encodes contentID so that arbitrary strings form a single key segment.
func cidPrefix(contentID string) string {
	enc, _ := multibase.Encode(multibase.Base32, []byte(contentID))
	return keyPrefix + "/" + enc + "/"
}

func recordKey(contentID string, rec pinprovider.ProviderRecord) (datastore.Key, error) {
	mh, err := multihash.Sum([]byte(rec.PeerID+"\x00"+rec.Multiaddr), multihash.SHA2_256, -1)
	if err != nil {
		return datastore.Key{}, err
	}
	return datastore.RawKey(cidPrefix(contentID) + mh.B58String()), nil
}
