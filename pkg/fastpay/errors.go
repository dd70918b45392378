package fastpay

import "fmt"

// ErrorKind is the flat taxonomy of authority rejections. Authorities
// never panic or return bare errors for protocol-level failures — every
// rejection is a typed Error the client can inspect and, where
// recoverable, use to drive synchronization.
type ErrorKind string

const (
	ErrWrongShard                        ErrorKind = "wrong_shard"
	ErrUnknownSenderAccount              ErrorKind = "unknown_sender_account"
	ErrInvalidOwner                      ErrorKind = "invalid_owner"
	ErrInvalidSignature                  ErrorKind = "invalid_signature"
	ErrUnexpectedSequenceNumber          ErrorKind = "unexpected_sequence_number"
	ErrPreviousTransferMustBeConfirmed   ErrorKind = "previous_transfer_must_be_confirmed_first"
	ErrMalformedAccountId                ErrorKind = "malformed_account_id"
	ErrInsufficientFunding               ErrorKind = "insufficient_funding"
	ErrMissingEarlierConfirmations       ErrorKind = "missing_earlier_confirmations"
	ErrCertificateRequiresQuorum         ErrorKind = "certificate_requires_quorum"
	ErrCertificateAuthorityReuse         ErrorKind = "certificate_authority_reuse"
	ErrCertificateUnknownAuthority       ErrorKind = "certificate_unknown_authority"
	ErrCertificateInvalidSignature       ErrorKind = "certificate_invalid_signature"
	ErrUnknownRecipientAccount           ErrorKind = "unknown_recipient_account"
	ErrBalanceOverflow                   ErrorKind = "balance_overflow"
	ErrSequenceOverflow                  ErrorKind = "sequence_overflow"
	ErrDecoding                          ErrorKind = "decoding"
)

// Error is the typed rejection returned by every authority operation that
// can fail. Context fields are populated according to Kind so the client
// can recover without a second round-trip: e.g. ErrUnexpectedSequenceNumber
// carries ExpectedSequenceNumber, ErrInsufficientFunding carries
// CurrentBalance, ErrMissingEarlierConfirmations carries
// ExpectedSequenceNumber for the certificate the client should fetch next.
type Error struct {
	Kind ErrorKind

	ExpectedSequenceNumber SequenceNumber
	CurrentBalance         *Balance
	PendingOrder           *TransferOrder

	msg string
}

func (e *Error) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.msg)
	}
	return string(e.Kind)
}

// Is lets errors.Is match on Kind alone, ignoring context fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrongShard reports that this authority does not own the sender account.
func WrongShard() *Error { return newError(ErrWrongShard, "sender account not owned by this shard") }

// UnknownSenderAccount reports the sender account does not exist on this shard.
func UnknownSenderAccount(id AccountId) *Error {
	return newError(ErrUnknownSenderAccount, "no account %s on this shard", id)
}

// InvalidOwner reports order.Owner does not match the account's owner key.
func InvalidOwner() *Error { return newError(ErrInvalidOwner, "order owner does not match account owner") }

// InvalidSignature reports a signature that failed verification.
func InvalidSignature(context string) *Error {
	return newError(ErrInvalidSignature, "signature verification failed: %s", context)
}

// UnexpectedSequenceNumber reports a sequence number mismatch, carrying the
// authority's current expectation so the client can synchronize.
func UnexpectedSequenceNumber(expected SequenceNumber) *Error {
	e := newError(ErrUnexpectedSequenceNumber, "expected sequence number %d", expected)
	e.ExpectedSequenceNumber = expected
	return e
}

// PreviousTransferMustBeConfirmedFirst reports that a different order is
// already pending at this sequence number; the client must confirm or
// abandon it before a new order at the same number can be voted on.
func PreviousTransferMustBeConfirmedFirst(pending TransferOrder) *Error {
	e := newError(ErrPreviousTransferMustBeConfirmed, "a different order is pending at sequence %d", pending.Transfer.SequenceNumber)
	e.PendingOrder = &pending
	return e
}

// MalformedAccountId reports a syntactically invalid FastPay recipient id.
func MalformedAccountId() *Error {
	return newError(ErrMalformedAccountId, "recipient account id is empty")
}

// InsufficientFunding reports balance < amount, carrying the current balance.
func InsufficientFunding(current Balance) *Error {
	e := newError(ErrInsufficientFunding, "balance %s insufficient", current)
	e.CurrentBalance = &current
	return e
}

// MissingEarlierConfirmations reports a certificate arriving ahead of the
// account's next_sequence_number; the client must apply earlier
// certificates first. ExpectedSequenceNumber names the certificate to
// fetch next.
func MissingEarlierConfirmations(expected SequenceNumber) *Error {
	e := newError(ErrMissingEarlierConfirmations, "expected certificate at sequence %d first", expected)
	e.ExpectedSequenceNumber = expected
	return e
}

// CertificateRequiresQuorum reports that the signer set's combined voting
// power did not reach the committee's quorum threshold.
func CertificateRequiresQuorum() *Error {
	return newError(ErrCertificateRequiresQuorum, "signer set does not meet quorum threshold")
}

// CertificateAuthorityReuse reports the same authority signing twice in one
// certificate.
func CertificateAuthorityReuse(authority PublicKeyBytes) *Error {
	return newError(ErrCertificateAuthorityReuse, "authority %s signed more than once", authority)
}

// CertificateUnknownAuthority reports a signer not in the committee.
func CertificateUnknownAuthority(authority PublicKeyBytes) *Error {
	return newError(ErrCertificateUnknownAuthority, "authority %s is not a committee member", authority)
}

// CertificateInvalidSignature reports a certificate signer whose signature
// does not verify.
func CertificateInvalidSignature(authority PublicKeyBytes) *Error {
	return newError(ErrCertificateInvalidSignature, "authority %s signature invalid", authority)
}

// UnknownRecipientAccount reports a cross-shard credit for an account that
// does not exist and is not an open_account form.
func UnknownRecipientAccount(id AccountId) *Error {
	return newError(ErrUnknownRecipientAccount, "no account %s to credit", id)
}

// BalanceOverflow reports a balance mutation that would exceed the signed
// 128-bit range.
func BalanceOverflow() *Error { return newError(ErrBalanceOverflow, "balance mutation overflowed") }

// SequenceOverflow reports a sequence number at the uint64 maximum.
func SequenceOverflow() *Error { return newError(ErrSequenceOverflow, "sequence number overflowed") }

// Decoding reports a malformed wire payload.
func Decoding(context string) *Error { return newError(ErrDecoding, "%s", context) }
