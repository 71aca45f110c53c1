package testutil

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"
)

var prng = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandomCids produces n CIDv1 raw identifiers of random content.
func RandomCids(t testing.TB, n int) []cid.Cid {
	cids := make([]cid.Cid, n)
	for i := 0; i < n; i++ {
		b := make([]byte, 64)
		prng.Read(b)
		cids[i] = CidOf(t, b, 1)
	}
	return cids
}

// CidOf returns the sha2-256 CID of data, a CIDv0 for version 0 and a raw CIDv1 otherwise.
func CidOf(t testing.TB, data []byte, version int) cid.Cid {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	require.NoError(t, err)
	if version == 0 {
		return cid.NewCidV0(mh)
	}
	return cid.NewCidV1(cid.Raw, mh)
}
