// Package pool holds the unspent-output pool the validator reads from.
package pool

import "github.com/wx-shi/utxo-validator/internal/model"

// Pool is the read-only capability handed to the validator. GetUTXO returns
// nil for an output that was never created or is already spent; a non-nil
// error means the pool itself failed and no verdict can be rendered.
type Pool interface {
	GetUTXO(txID string, index int) (*model.UTXO, error)
}
