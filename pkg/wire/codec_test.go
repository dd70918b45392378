package wire

import (
	"bytes"
	"testing"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

func TestAccountIdRoundTrip(t *testing.T) {
	id := fastpay.NewAccountId(1, 2, 3)
	var buf bytes.Buffer
	EncodeAccountId(&buf, id)

	got, err := DecodeAccountId(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeAccountId: %v", err)
	}
	if !got.Equal(id) {
		t.Fatalf("round-tripped id %s != original %s", got, id)
	}
}

func TestAddressRoundTripPrimary(t *testing.T) {
	var key fastpay.PublicKeyBytes
	key[0] = 0xAB
	addr := fastpay.NewPrimaryAddress(key)

	var buf bytes.Buffer
	EncodeAddress(&buf, addr)
	got, err := DecodeAddress(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if got.Kind != fastpay.AddressPrimary || got.Primary != key {
		t.Fatalf("round-tripped primary address = %+v, want key %x", got, key)
	}
}

func TestAddressRoundTripFastPay(t *testing.T) {
	id := fastpay.NewAccountId(4, 5)
	addr := fastpay.NewFastPayAddress(id)

	var buf bytes.Buffer
	EncodeAddress(&buf, addr)
	got, err := DecodeAddress(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if !got.IsFastPay() || !got.FastPayId.Equal(id) {
		t.Fatalf("round-tripped fastpay address = %+v, want id %s", got, id)
	}
}

func TestTransferRoundTrip(t *testing.T) {
	transfer := fastpay.Transfer{
		Sender:         fastpay.NewAccountId(1),
		Recipient:      fastpay.NewFastPayAddress(fastpay.NewAccountId(2)),
		Amount:         1000,
		SequenceNumber: 7,
		UserData:       fastpay.UserData{1, 2, 3},
	}

	encoded := EncodeTransfer(transfer)
	got, err := DecodeTransfer(encoded)
	if err != nil {
		t.Fatalf("DecodeTransfer: %v", err)
	}

	if !got.Sender.Equal(transfer.Sender) || got.Amount != transfer.Amount ||
		got.SequenceNumber != transfer.SequenceNumber || got.UserData != transfer.UserData {
		t.Fatalf("round-tripped transfer = %+v, want %+v", got, transfer)
	}
}

func TestEncodeTransferIsDeterministic(t *testing.T) {
	transfer := fastpay.Transfer{
		Sender:         fastpay.NewAccountId(1),
		Recipient:      fastpay.NewPrimaryAddress(fastpay.PublicKeyBytes{9}),
		Amount:         5,
		SequenceNumber: 0,
	}
	a := EncodeTransfer(transfer)
	b := EncodeTransfer(transfer)
	if !bytes.Equal(a, b) {
		t.Fatal("encoding the same transfer twice produced different bytes")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{Type: MessageCert, Body: []byte("hello")}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Type != f.Type || !bytes.Equal(got.Body, f.Body) {
		t.Fatalf("round-tripped frame = %+v, want %+v", got, f)
	}
}
