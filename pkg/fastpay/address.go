package fastpay

// AddressKind tags which variant an Address holds.
type AddressKind uint8

const (
	// AddressPrimary means funds leave FastPay to an external/off-system key.
	AddressPrimary AddressKind = iota
	// AddressFastPay means the recipient is an account inside the system.
	AddressFastPay
)

// Address is either a Primary external recipient (identified by a public
// key) or a FastPay account inside the system (identified by an AccountId).
// Only one of Primary/FastPayId is meaningful, selected by Kind.
type Address struct {
	Kind      AddressKind
	Primary   PublicKeyBytes
	FastPayId AccountId
}

// NewPrimaryAddress builds an Address for an external recipient.
func NewPrimaryAddress(key PublicKeyBytes) Address {
	return Address{Kind: AddressPrimary, Primary: key}
}

// NewFastPayAddress builds an Address for an in-system recipient account.
func NewFastPayAddress(id AccountId) Address {
	return Address{Kind: AddressFastPay, FastPayId: id}
}

// IsFastPay reports whether the address names an in-system account.
func (a Address) IsFastPay() bool {
	return a.Kind == AddressFastPay
}
