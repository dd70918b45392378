package authority

import "github.com/novifinancial/fastpay/pkg/fastpay"

// AccountInfoRequest is the read-only query spec.md §4.2
// handle_account_info_request answers. RequestedCertificate, if set,
// asks for the certificate that confirmed that sequence number
// (synchronize_sent); ReceivedLogOffset, if set, asks for received_log
// entries from that offset onward (synchronize_received).
type AccountInfoRequest struct {
	AccountId             fastpay.AccountId
	RequestedCertificate  *fastpay.SequenceNumber
	ReceivedLogOffset     *int
}

// AccountInfoResponse answers an AccountInfoRequest.
type AccountInfoResponse struct {
	Owner               fastpay.PublicKeyBytes
	Balance             fastpay.Balance
	NextSequenceNumber  fastpay.SequenceNumber
	PendingConfirmation *fastpay.SignedTransferOrder

	RequestedCertificate *fastpay.CertifiedTransferOrder
	ReceivedLogTail      []fastpay.CertifiedTransferOrder
}

// HandleAccountInfoRequest implements spec.md §4.2
// handle_account_info_request.
func (s *Shard) HandleAccountInfoRequest(req AccountInfoRequest) (*AccountInfoResponse, error) {
	if !s.Owns(req.AccountId) {
		return nil, fastpay.WrongShard()
	}

	lock := s.lockFor(req.AccountId.Key())
	lock.Lock()
	defer lock.Unlock()

	acct, err := s.loadAccount(req.AccountId)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, fastpay.UnknownSenderAccount(req.AccountId)
	}

	resp := &AccountInfoResponse{
		Owner:               acct.Owner,
		Balance:             acct.Balance,
		NextSequenceNumber:  acct.NextSequenceNumber,
		PendingConfirmation: acct.PendingConfirmation,
	}

	if req.RequestedCertificate != nil {
		if cert, ok := acct.CertificateAt(*req.RequestedCertificate); ok {
			resp.RequestedCertificate = &cert
		}
	}

	if req.ReceivedLogOffset != nil {
		offset := *req.ReceivedLogOffset
		if offset < 0 {
			offset = 0
		}
		if offset < len(acct.ReceivedLog) {
			tail := make([]fastpay.CertifiedTransferOrder, len(acct.ReceivedLog)-offset)
			copy(tail, acct.ReceivedLog[offset:])
			resp.ReceivedLogTail = tail
		}
	}

	return resp, nil
}
