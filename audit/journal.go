// Package audit keeps a journal of pin state transitions observed around removals.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	pinprovider "github.com/ipni/pin-provider"
)

const keyPrefix = "/audit"

// Entry records one removal and the pin states observed before and after it.
type Entry struct {
	ID         uuid.UUID            `json:"id"`
	Time       time.Time            `json:"time"`
	Cid        string               `json:"cid"`
	Peer       string               `json:"peer"`
	Before     pinprovider.PinState `json:"before"`
	After      pinprovider.PinState `json:"after"`
	Transition string               `json:"transition"`
	Removed    int                  `json:"removed"`
	Failed     int                  `json:"failed"`
	Err        string               `json:"err,omitempty"`
}

// Journal appends entries to a datastore.
type Journal struct {
	ds datastore.Batching
	// seq orders entries recorded within the same clock tick.
	seq atomic.Uint64
}

// New instantiates a journal that stores its entries in ds under the /audit namespace.
func New(ds datastore.Batching) *Journal {
	return &Journal{ds: ds}
}

// Record appends e to the journal, assigning its ID and time if unset.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return Entry{}, err
	}
	key := datastore.NewKey(fmt.Sprintf("%s/%020d-%020d-%s", keyPrefix, e.Time.UnixNano(), j.seq.Add(1), e.ID))
	if err = j.ds.Put(ctx, key, value); err != nil {
		return Entry{}, fmt.Errorf("cannot store audit entry: %w", err)
	}
	if err = j.ds.Sync(ctx, key); err != nil {
		return Entry{}, fmt.Errorf("cannot sync audit entry: %w", err)
	}
	return e, nil
}

// List returns every entry ordered by time, then by the order it was recorded.
func (j *Journal) List(ctx context.Context) ([]Entry, error) {
	results, err := j.ds.Query(ctx, query.Query{
		Prefix: keyPrefix,
		Orders: []query.Order{query.OrderByKey{}},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot query audit entries: %w", err)
	}
	defer results.Close()

	entries := []Entry{}
	for r := range results.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("cannot read audit entry: %w", r.Error)
		}
		var e Entry
		if err = json.Unmarshal(r.Value, &e); err != nil {
			return nil, fmt.Errorf("cannot decode audit entry %s: %w", r.Key, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
