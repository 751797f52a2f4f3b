package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-claimdrop/inter"
)

func testRecords(from uint64, n int) []inter.Record {
	out := make([]inter.Record, n)
	for i := range out {
		seq := from + uint64(i)
		out[i] = inter.Record{
			Seq:   seq,
			Time:  t0,
			Event: inter.ClaimMade{Account: alice, Amount: big.NewInt(int64(seq))},
		}
	}
	return out
}

func TestJournal(t *testing.T) {
	require := require.New(t)
	j := NewJournal(rawdb.NewMemoryDatabase())

	last, err := j.Last()
	require.NoError(err)
	require.Equal(uint64(0), last)

	require.NoError(j.Append(testRecords(1, 3)))
	require.NoError(j.Append(testRecords(4, 300)))
	require.NoError(j.Append(nil))

	last, err = j.Last()
	require.NoError(err)
	require.Equal(uint64(303), last)

	// Replay from the middle returns records in sequence order, across the
	// byte boundary of the key encoding.
	var seqs []uint64
	require.NoError(j.Replay(250, func(r inter.Record) error {
		seqs = append(seqs, r.Seq)
		require.Equal(0, r.Event.(inter.ClaimMade).Amount.Cmp(new(big.Int).SetUint64(r.Seq)))
		return nil
	}))
	require.Len(seqs, 54)
	for i, s := range seqs {
		require.Equal(uint64(250+i), s)
	}
}

func TestJournal_rejectsGaps(t *testing.T) {
	require := require.New(t)
	j := NewJournal(rawdb.NewMemoryDatabase())

	require.Error(j.Append(testRecords(2, 1)))
	require.NoError(j.Append(testRecords(1, 2)))
	require.Error(j.Append(testRecords(2, 1)))

	// A rejected batch writes nothing.
	last, err := j.Last()
	require.NoError(err)
	require.Equal(uint64(2), last)
}

func TestJournal_replayStops(t *testing.T) {
	j := NewJournal(rawdb.NewMemoryDatabase())
	require.NoError(t, j.Append(testRecords(1, 5)))

	stop := errors.New("stop")
	calls := 0
	err := j.Replay(0, func(inter.Record) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 2, calls)
}

// TestJournal_skipsForeignKeys stores a 32-byte key that starts with the
// journal prefix, as a trie node hash can, and checks Replay ignores it.
func TestJournal_skipsForeignKeys(t *testing.T) {
	require := require.New(t)
	db := rawdb.NewMemoryDatabase()
	j := NewJournal(db)
	require.NoError(j.Append(testRecords(1, 3)))

	var node common.Hash
	copy(node[:], journalPrefix)
	node[len(journalPrefix)+7] = 1
	require.NoError(db.Put(node.Bytes(), []byte{0xc0}))

	var seqs []uint64
	require.NoError(j.Replay(0, func(r inter.Record) error {
		seqs = append(seqs, r.Seq)
		return nil
	}))
	require.Equal([]uint64{1, 2, 3}, seqs)
}
