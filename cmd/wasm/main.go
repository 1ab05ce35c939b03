//go:build js && wasm

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"syscall/js"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/internal/crypto/dlog"
	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/internal/protocol/exchange"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// Active exchange sessions, keyed by "<partyID>-<sessionID>".
var sessions = make(map[string]*exchange.Session)

func main() {
	c := make(chan struct{})

	fmt.Println("ntcore WASM initialized")

	js.Global().Set("NtCore", map[string]interface{}{
		"ModInverse":  js.FuncOf(ModInverse),
		"FastPow":     js.FuncOf(FastPow),
		"DiscreteLog": js.FuncOf(DiscreteLog),
		"ScalarMult":  js.FuncOf(ScalarMult),
		"NewExchange": js.FuncOf(NewExchange),
		"Update":      js.FuncOf(Update),
		"Result":      js.FuncOf(Result),
	})

	<-c
}

// Integers cross the boundary as decimal strings; JS numbers lose precision
// above 2^53.
func intArgs(args []js.Value, names ...string) ([]*big.Int, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("expected %d arguments %v", len(names), names)
	}
	out := make([]*big.Int, len(args))
	for i, a := range args {
		n, ok := new(big.Int).SetString(a.String(), 0)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not an integer", names[i], a.String())
		}
		out[i] = n
	}
	return out, nil
}

func errorString(err error) string {
	return fmt.Sprintf("error: %v", err)
}

// ModInverse(a, m) returns a^-1 mod m.
func ModInverse(this js.Value, args []js.Value) interface{} {
	v, err := intArgs(args, "a", "m")
	if err != nil {
		return errorString(err)
	}
	inv, err := modarith.ModInverse(v[0], v[1])
	if err != nil {
		return errorString(err)
	}
	return inv.String()
}

// FastPow(base, exp, m) returns base^exp mod m.
func FastPow(this js.Value, args []js.Value) interface{} {
	v, err := intArgs(args, "base", "exp", "m")
	if err != nil {
		return errorString(err)
	}
	r, err := modarith.FastPow(v[0], v[1], v[2])
	if err != nil {
		return errorString(err)
	}
	return r.String()
}

// DiscreteLog(g, h, p) solves g^x = h (mod p) with BSGS.
// Returns JSON: {"x": "...", "steps": n, "degenerate": bool}
func DiscreteLog(this js.Value, args []js.Value) interface{} {
	v, err := intArgs(args, "g", "h", "p")
	if err != nil {
		return errorString(err)
	}
	sol, err := dlog.Solve(dlog.MethodBSGS, v[0], v[1], v[2])
	if err != nil {
		return errorString(err)
	}
	b, _ := json.Marshal(map[string]interface{}{
		"x":          sol.X.String(),
		"steps":      sol.Steps,
		"degenerate": sol.Degenerate,
	})
	return string(b)
}

// ScalarMult(curve, k, x, y) returns k*(x, y) on a named curve as "(x, y)" or "O".
func ScalarMult(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return "error: expected 4 arguments (curve, k, x, y)"
	}
	c, err := curves.Named(args[0].String())
	if err != nil {
		return errorString(err)
	}
	v, err := intArgs(args[1:], "k", "x", "y")
	if err != nil {
		return errorString(err)
	}
	pt := curves.NewPoint(v[1], v[2])
	if err := c.RequireOnCurve(pt); err != nil {
		return errorString(err)
	}
	return c.ScalarMult(pt, v[0]).String()
}

type messageDTO struct {
	From  string `json:"from"`
	Data  string `json:"data"` // hex encoded
	Type  string `json:"type"`
	Round uint32 `json:"round"`
}

func encodeMessage(m *exchange.Message) interface{} {
	if m == nil {
		return nil
	}
	return messageDTO{From: m.From, Data: hex.EncodeToString(m.Payload), Type: m.Type, Round: m.Round}
}

// NewExchange starts one side of an exchange session.
// Argument: JSON {"partyID", "peerID", "sessionID", "scheme"} where scheme
// is "dh" or a curve name.
// Returns JSON: {"sessionID": handle, "message": first message}
func NewExchange(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}
	var input struct {
		PartyID   string `json:"partyID"`
		PeerID    string `json:"peerID"`
		SessionID string `json:"sessionID"`
		Scheme    string `json:"scheme"`
	}
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	var ka ntheory.KeyAgreement = exchange.DefaultDH()
	if input.Scheme != "" && input.Scheme != "dh" {
		ecdh, err := exchange.NewNamedECDH(input.Scheme)
		if err != nil {
			return errorString(err)
		}
		ka = ecdh
	}

	s, msg, err := exchange.NewSession(exchange.SessionConfig{
		ID:        input.PartyID,
		Peer:      input.PeerID,
		SessionID: []byte(input.SessionID),
		Agreement: ka,
	})
	if err != nil {
		return errorString(err)
	}

	handle := fmt.Sprintf("%s-%s", input.PartyID, input.SessionID)
	sessions[handle] = s

	b, _ := json.Marshal(map[string]interface{}{
		"sessionID": handle,
		"message":   encodeMessage(msg),
	})
	return string(b)
}

// Update(handle, jsonMsg) applies a peer message and returns the reply as
// JSON, or null when there is nothing to send.
func Update(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (sessionID, jsonMsg)"
	}
	s, ok := sessions[args[0].String()]
	if !ok {
		return "error: session not found"
	}

	var dto messageDTO
	if err := json.Unmarshal([]byte(args[1].String()), &dto); err != nil {
		return fmt.Sprintf("error: invalid message json: %v", err)
	}
	data, err := hex.DecodeString(dto.Data)
	if err != nil {
		return fmt.Sprintf("error: invalid hex data: %v", err)
	}

	out, err := s.Update(&exchange.Message{From: dto.From, Round: dto.Round, Type: dto.Type, Payload: data})
	if err != nil {
		return fmt.Sprintf("error: update failed: %v", err)
	}
	b, _ := json.Marshal(encodeMessage(out))
	return string(b)
}

// Result(handle) returns the derived key and shared secret as hex JSON, or
// null while the exchange is running.
func Result(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (sessionID)"
	}
	s, ok := sessions[args[0].String()]
	if !ok {
		return "error: session not found"
	}
	res := s.Result()
	if res == nil {
		return nil
	}
	b, _ := json.Marshal(map[string]string{
		"scheme": res.Scheme,
		"secret": hex.EncodeToString(res.Secret),
		"key":    hex.EncodeToString(res.Key),
	})
	return string(b)
}
