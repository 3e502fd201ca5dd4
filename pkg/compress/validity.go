package compress

import "encoding/hex"

// ValidityProofBundle is the validity proof an instruction carries to
// demonstrate its compressed-account references are both current and
// correct: absence proofs for every address it is about to create,
// presence proofs for every account it reads, all checked against the
// roots the bundle itself records. If the address or state tree has
// moved past the root the bundle was computed against, the instruction
// must reject rather than act on stale state.
type ValidityProofBundle struct {
	AddressTreeID string
	AddressRoot   [32]byte
	StateTreeID   string
	StateRoot     [32]byte

	// AbsenceAddrs are addresses this bundle proves do not yet exist
	// (e.g. the nullifier address about to be created).
	AbsenceAddrs [][32]byte

	// Presences are (leaf, proof) pairs this bundle proves exist in the
	// state tree (e.g. the ticket leaf being spent).
	Presences []PresenceClaim
}

// PresenceClaim pairs a claimed leaf hash with its inclusion proof.
type PresenceClaim struct {
	Leaf  [32]byte
	Proof Proof
}

// CheckFreshness verifies bundle's recorded roots still match the live
// trees' current roots, and that every absence/presence claim it carries
// actually holds against those roots. A stale or invalid bundle returns
// ErrInvalidValidityProof; a bundle computed against a tree id the given
// trees don't recognize returns ErrTreeMismatch.
func CheckFreshness(bundle ValidityProofBundle, addrTree *AddressTree, stateTree *StateTree) error {
	if addrTree.tree.treeID != "addr:"+bundle.AddressTreeID {
		return ErrTreeMismatch
	}
	if stateTree.tree.treeID != "state:"+bundle.StateTreeID {
		return ErrTreeMismatch
	}

	liveAddrRoot, err := addrTree.Root()
	if err != nil {
		return err
	}
	if liveAddrRoot != bundle.AddressRoot {
		return ErrInvalidValidityProof
	}

	liveStateRoot, err := stateTree.Root()
	if err != nil {
		return err
	}
	if liveStateRoot != bundle.StateRoot {
		return ErrInvalidValidityProof
	}

	// The same address or leaf can legitimately appear more than once in
	// one bundle (a listing's address doubling as its escrow's seed, say);
	// Pack collapses a bundle's account references to their deduplicated
	// handles first, so a repeated reference costs one tree lookup instead
	// of one per occurrence. IndexOf then gives each handle the compact
	// index the real substrate would pack into the instruction itself.
	absenceByHandle := make(map[AccountHandle][32]byte, len(bundle.AbsenceAddrs))
	absenceHandles := make([]AccountHandle, len(bundle.AbsenceAddrs))
	for i, addr := range bundle.AbsenceAddrs {
		h := accountHandle(addr)
		absenceHandles[i] = h
		absenceByHandle[h] = addr
	}
	packedAbsences, err := Pack(absenceHandles)
	if err != nil {
		return err
	}
	for _, h := range packedAbsences.Handles {
		if _, err := packedAbsences.IndexOf(h); err != nil {
			return err
		}
		exists, err := addrTree.Exists(absenceByHandle[h])
		if err != nil {
			return err
		}
		if exists {
			return ErrInvalidValidityProof
		}
	}

	presenceByHandle := make(map[AccountHandle]PresenceClaim, len(bundle.Presences))
	presenceHandles := make([]AccountHandle, len(bundle.Presences))
	for i, p := range bundle.Presences {
		h := accountHandle(p.Leaf)
		presenceHandles[i] = h
		presenceByHandle[h] = p
	}
	packedPresences, err := Pack(presenceHandles)
	if err != nil {
		return err
	}
	for _, h := range packedPresences.Handles {
		if _, err := packedPresences.IndexOf(h); err != nil {
			return err
		}
		p := presenceByHandle[h]
		if !VerifyPresence(p.Leaf, p.Proof, liveStateRoot) {
			return ErrInvalidValidityProof
		}
	}

	return nil
}

// accountHandle derives the packed-account handle for a 32-byte address or
// leaf hash: the substrate packs accounts by their tree-level identity, so
// two equal hashes always collapse to the same handle regardless of which
// instruction field produced them.
func accountHandle(b [32]byte) AccountHandle {
	return AccountHandle(hex.EncodeToString(b[:]))
}
