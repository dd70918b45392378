package fastpay

// AccountOffchainState is the record an authority holds for each account it
// shards. It is the unit of single-writer serialization: at most one
// in-flight mutation per account at a time (I3, §9 design note).
type AccountOffchainState struct {
	Owner              PublicKeyBytes
	Balance            Balance
	NextSequenceNumber SequenceNumber
	PendingConfirmation *SignedTransferOrder

	// ConfirmedLog holds every certificate this account has sent, indexed
	// by the sequence number it confirmed (len(ConfirmedLog) ==
	// NextSequenceNumber once all slots are filled).
	ConfirmedLog []CertifiedTransferOrder

	// ReceivedLog holds every certificate this account has been credited
	// by, in arrival order, already deduplicated by content key (I7).
	ReceivedLog []CertifiedTransferOrder

	// receivedKeys de-duplicates ReceivedLog entries by ContentKey.
	receivedKeys map[string]struct{}
}

// NewAccountOffchainState creates a fresh account record for a genesis
// account or a newly-opened sub-account.
func NewAccountOffchainState(owner PublicKeyBytes, balance Balance) *AccountOffchainState {
	return &AccountOffchainState{
		Owner:        owner,
		Balance:      balance,
		receivedKeys: make(map[string]struct{}),
	}
}

// HasReceived reports whether a certificate with this content key has
// already been credited to this account (I7 de-duplication).
func (a *AccountOffchainState) HasReceived(key string) bool {
	if a.receivedKeys == nil {
		a.receivedKeys = make(map[string]struct{})
		for _, c := range a.ReceivedLog {
			a.receivedKeys[c.ContentKey()] = struct{}{}
		}
	}
	_, ok := a.receivedKeys[key]
	return ok
}

// MarkReceived records cert as credited and appends it to ReceivedLog.
func (a *AccountOffchainState) MarkReceived(cert CertifiedTransferOrder) {
	if a.receivedKeys == nil {
		a.receivedKeys = make(map[string]struct{})
	}
	a.receivedKeys[cert.ContentKey()] = struct{}{}
	a.ReceivedLog = append(a.ReceivedLog, cert)
}

// CertificateAt returns the certificate this account sent that confirmed
// sequence number seq, if any.
func (a *AccountOffchainState) CertificateAt(seq SequenceNumber) (CertifiedTransferOrder, bool) {
	if seq >= SequenceNumber(len(a.ConfirmedLog)) {
		return CertifiedTransferOrder{}, false
	}
	return a.ConfirmedLog[seq], true
}
