package wire

// MessageType is the wire ordinal identifying one of the seven message
// kinds FastPay exchanges (spec.md §6). The ordinal is the type identity
// carried in a Frame's type byte. The prototype's HTTP transport
// (pkg/server) sends JSON bodies and tells message kinds apart by endpoint
// path; it does not carry the ordinal.
type MessageType byte

const (
	MessageOrder      MessageType = 0
	MessageVote       MessageType = 1
	MessageCert       MessageType = 2
	MessageCrossShard MessageType = 3
	MessageError      MessageType = 4
	MessageInfoReq    MessageType = 5
	MessageInfoResp   MessageType = 6
)

func (m MessageType) String() string {
	switch m {
	case MessageOrder:
		return "Order"
	case MessageVote:
		return "Vote"
	case MessageCert:
		return "Cert"
	case MessageCrossShard:
		return "CrossShard"
	case MessageError:
		return "Error"
	case MessageInfoReq:
		return "InfoReq"
	case MessageInfoResp:
		return "InfoResp"
	default:
		return "Unknown"
	}
}

// TypeHeader names an HTTP header for carrying a MessageType ordinal.
// pkg/server neither sets nor reads it.
const TypeHeader = "X-FastPay-Message-Type"
