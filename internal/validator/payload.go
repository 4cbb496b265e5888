package validator

import (
	"bytes"

	"github.com/wx-shi/utxo-validator/internal/model"
	"github.com/wx-shi/utxo-validator/pkg"
)

// SignablePayload serializes the transaction into the message every input
// signature is verified against. Signatures themselves are excluded, so the
// payload is identical for a signed and an unsigned copy of the same
// transaction. Variable-length fields are length-prefixed and integers are
// big-endian, which makes the encoding unambiguous; this layout is a wire
// contract and must not change between releases.
func SignablePayload(tx *model.Transaction) []byte {
	buf := &bytes.Buffer{}

	writeField(buf, []byte(tx.ID))
	buf.Write(pkg.Int64ToBytes(tx.Timestamp))

	buf.Write(pkg.Int64ToBytes(int64(len(tx.Inputs))))
	for _, in := range tx.Inputs {
		writeField(buf, []byte(in.TxID))
		buf.Write(pkg.Int64ToBytes(int64(in.Index)))
		writeField(buf, []byte(in.Owner))
	}

	buf.Write(pkg.Int64ToBytes(int64(len(tx.Outputs))))
	for _, out := range tx.Outputs {
		writeField(buf, []byte(out.Amount.String()))
		writeField(buf, []byte(out.Owner))
	}

	return buf.Bytes()
}

func writeField(buf *bytes.Buffer, b []byte) {
	buf.Write(pkg.Int64ToBytes(int64(len(b))))
	buf.Write(b)
}
