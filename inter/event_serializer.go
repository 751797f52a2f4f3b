package inter

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// Errors related to record serialization.
var (
	ErrUnknownEventKind = errors.New("unknown event kind: journal written by a newer version")
	ErrEmptyRecord      = errors.New("record carries no event")
)

// recordRLP is the wire layout of a journal entry. The payload is the RLP
// encoding of the concrete event, selected by Kind.
type recordRLP struct {
	Kind    uint8
	Seq     uint64
	Time    uint64
	Payload []byte
}

// MarshalRecord encodes a record into its journal representation.
func MarshalRecord(r Record) ([]byte, error) {
	if r.Event == nil {
		return nil, ErrEmptyRecord
	}
	payload, err := rlp.EncodeToBytes(r.Event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Event.Kind(), err)
	}
	return rlp.EncodeToBytes(&recordRLP{
		Kind:    uint8(r.Event.Kind()),
		Seq:     r.Seq,
		Time:    uint64(r.Time),
		Payload: payload,
	})
}

// UnmarshalRecord decodes a journal entry produced by MarshalRecord.
func UnmarshalRecord(b []byte) (Record, error) {
	var enc recordRLP
	if err := rlp.DecodeBytes(b, &enc); err != nil {
		return Record{}, err
	}
	ev, err := newEvent(EventKind(enc.Kind))
	if err != nil {
		return Record{}, err
	}
	if err := rlp.DecodeBytes(enc.Payload, ev); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", EventKind(enc.Kind), err)
	}
	return Record{
		Seq:   enc.Seq,
		Time:  Timestamp(enc.Time),
		Event: deref(ev),
	}, nil
}

// newEvent allocates a decode target for the given kind.
func newEvent(kind EventKind) (interface{}, error) {
	switch kind {
	case KindClaimMade:
		return new(ClaimMade), nil
	case KindPhaseActivated:
		return new(PhaseActivated), nil
	case KindPhaseEnded:
		return new(PhaseEnded), nil
	case KindClaimSettled:
		return new(ClaimSettled), nil
	case KindProxyClaimSettled:
		return new(ProxyClaimSettled), nil
	case KindDropCompleted:
		return new(DropCompleted), nil
	case KindDexExcluded:
		return new(DexExcluded), nil
	case KindDexIncluded:
		return new(DexIncluded), nil
	case KindThresholdsUpdated:
		return new(ThresholdsUpdated), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownEventKind, kind)
}

// deref turns the decode target back into the value type that the ledger emits.
func deref(v interface{}) Event {
	switch ev := v.(type) {
	case *ClaimMade:
		return *ev
	case *PhaseActivated:
		return *ev
	case *PhaseEnded:
		return *ev
	case *ClaimSettled:
		return *ev
	case *ProxyClaimSettled:
		return *ev
	case *DropCompleted:
		return *ev
	case *DexExcluded:
		return *ev
	case *DexIncluded:
		return *ev
	case *ThresholdsUpdated:
		return *ev
	}
	return nil
}
