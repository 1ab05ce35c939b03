package exchange

// Message is one step of a Session. A Session emits at most one message per
// Update and expects its peer's messages in round order.
type Message struct {
	From    string
	Round   uint32
	Type    string
	Payload []byte
}

// Message types.
const (
	TypeCommit = "ExchangeCommit"
	TypeReveal = "ExchangeReveal"
)

// Result is what a finished Session hands back to its caller.
type Result struct {
	Scheme     string
	Public     []byte
	PeerPublic []byte
	Secret     []byte
	Key        []byte
}
