package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// UtxoID identifies one output of an earlier transaction.
type UtxoID struct {
	TxID  string `json:"tx_id"`
	Index int    `json:"index"`
}

// Key returns the txid:index form used for storage keys and set membership.
func (id UtxoID) Key() string {
	return fmt.Sprintf("%s:%d", id.TxID, id.Index)
}

// ParseUtxoKey parses a txid:index key back into a UtxoID.
func ParseUtxoKey(key string) (UtxoID, error) {
	arr := strings.Split(key, ":")
	if len(arr) != 2 {
		return UtxoID{}, fmt.Errorf("invalid key:%s", key)
	}
	index, err := strconv.Atoi(arr[1])
	if err != nil {
		return UtxoID{}, fmt.Errorf("invalid key:%s", key)
	}
	return UtxoID{TxID: arr[0], Index: index}, nil
}

// UTXO is the pool record for an unspent output. Owner is the hex-encoded
// compressed public key of the identity allowed to spend it.
type UTXO struct {
	Owner  string          `json:"owner"`
	Amount decimal.Decimal `json:"amount"`
}

// Input spends one referenced output. Owner is the claimed spender identity,
// Signature a hex-encoded DER signature over the transaction's signable payload.
type Input struct {
	TxID      string `json:"tx_id"`
	Index     int    `json:"index"`
	Owner     string `json:"owner"`
	Signature string `json:"signature"`
}

// UtxoID returns the output reference this input spends.
func (in Input) UtxoID() UtxoID {
	return UtxoID{TxID: in.TxID, Index: in.Index}
}

// Output assigns an amount to a new owner.
type Output struct {
	Owner  string          `json:"owner"`
	Amount decimal.Decimal `json:"amount"`
}

type Transaction struct {
	ID        string   `json:"id"`
	Inputs    []Input  `json:"inputs"`
	Outputs   []Output `json:"outputs"`
	Timestamp int64    `json:"timestamp"`
}

// ErrorKind is the closed enumeration of reportable validation findings.
type ErrorKind string

const (
	UtxoNotFound     ErrorKind = "UTXO_NOT_FOUND"
	AmountMismatch   ErrorKind = "AMOUNT_MISMATCH"
	InvalidSignature ErrorKind = "INVALID_SIGNATURE"
	DoubleSpending   ErrorKind = "DOUBLE_SPENDING"
)

// ValidationError is a single finding. UtxoID is set for per-input kinds,
// InputSum/OutputSum for AMOUNT_MISMATCH.
type ValidationError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	UtxoID    *UtxoID   `json:"utxo_id,omitempty"`
	InputSum  string    `json:"input_sum,omitempty"`
	OutputSum string    `json:"output_sum,omitempty"`
}

// ValidationResult aggregates every finding for one transaction.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

type UTXOInfoRequest struct {
	Keys []string `json:"keys"`
}

// UtxoDetail is the reply record for one pool lookup. Address is the
// owner key rendered as a mainnet address.
type UtxoDetail struct {
	TxID    string `json:"tx_id"`
	Index   int    `json:"index"`
	Owner   string `json:"owner"`
	Address string `json:"address,omitempty"`
	Amount  string `json:"amount"`
}

type UTXOInfoReply map[string]*UtxoDetail

// NewUTXO is one output created by an applied transaction.
type NewUTXO struct {
	TxID   string          `json:"tx_id"`
	Index  int             `json:"index"`
	Owner  string          `json:"owner"`
	Amount decimal.Decimal `json:"amount"`
}

// ApplyRequest mutates the pool after a transaction has been accepted:
// spent references are removed, created outputs inserted.
type ApplyRequest struct {
	Height  int64     `json:"height"`
	Spent   []UtxoID  `json:"spent"`
	Created []NewUTXO `json:"created"`
}

type HeightReply struct {
	Height int64 `json:"height"`
}
