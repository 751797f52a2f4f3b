package ledger

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/ethdb"

	"github.com/rony4d/go-claimdrop/inter"
)

var (
	journalPrefix  = []byte("cdj") // journalPrefix + seq (uint64 big endian) -> RLP record
	journalHeadKey = []byte("cdh") // journalHeadKey -> seq of the last record

	journalKeyLen = len(journalPrefix) + 8
)

// Journal is an append-only log of committed claimdrop events in a
// key/value store, for off-chain indexing.
type Journal struct {
	db ethdb.KeyValueStore
}

// NewJournal opens the journal kept in db.
func NewJournal(db ethdb.KeyValueStore) *Journal {
	return &Journal{db: db}
}

func journalKey(seq uint64) []byte {
	return append(append([]byte{}, journalPrefix...), bigendian.Uint64ToBytes(seq)...)
}

// Last returns the sequence number of the newest record, or 0 if the
// journal is empty.
func (j *Journal) Last() (uint64, error) {
	ok, err := j.db.Has(journalHeadKey)
	if err != nil || !ok {
		return 0, err
	}
	b, err := j.db.Get(journalHeadKey)
	if err != nil {
		return 0, err
	}
	return bigendian.BytesToUint64(b), nil
}

// Append writes records in one batch. Sequence numbers must continue the
// journal without gaps.
func (j *Journal) Append(records []inter.Record) error {
	if len(records) == 0 {
		return nil
	}
	last, err := j.Last()
	if err != nil {
		return err
	}
	batch := j.db.NewBatch()
	for _, r := range records {
		if r.Seq != last+1 {
			return fmt.Errorf("journal gap: have %d, got %d", last, r.Seq)
		}
		b, err := inter.MarshalRecord(r)
		if err != nil {
			return err
		}
		if err := batch.Put(journalKey(r.Seq), b); err != nil {
			return err
		}
		last = r.Seq
	}
	if err := batch.Put(journalHeadKey, bigendian.Uint64ToBytes(last)); err != nil {
		return err
	}
	return batch.Write()
}

// Replay calls fn for every record with Seq >= from, in order. It stops at
// the first error.
//
// The journal shares the key space with trie nodes, which are stored under
// bare hashes; keys that only happen to start with journalPrefix are skipped.
func (j *Journal) Replay(from uint64, fn func(inter.Record) error) error {
	it := j.db.NewIterator(journalPrefix, bigendian.Uint64ToBytes(from))
	defer it.Release()

	for it.Next() {
		if len(it.Key()) != journalKeyLen {
			continue
		}
		r, err := inter.UnmarshalRecord(it.Value())
		if err != nil {
			return fmt.Errorf("journal record %x: %w", it.Key(), err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return it.Error()
}
