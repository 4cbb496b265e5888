// Package validator decides whether a proposed transaction is consistent
// with the current unspent-output pool.
package validator

import (
	"errors"
	"fmt"

	"github.com/scylladb/go-set/strset"
	"github.com/shopspring/decimal"
	"github.com/wx-shi/utxo-validator/internal/model"
	"github.com/wx-shi/utxo-validator/internal/pool"
	"go.uber.org/zap"
)

// Validator runs the full check sequence against one transaction. It only
// reads from the pool and is safe for concurrent use as long as the pool's
// reads are.
type Validator struct {
	pool     pool.Pool
	verifier Verifier
	logger   *zap.Logger
}

func New(pool pool.Pool, verifier Verifier, logger *zap.Logger) *Validator {
	return &Validator{
		pool:     pool,
		verifier: verifier,
		logger:   logger,
	}
}

// Validate checks the transaction against the pool and returns every finding.
// All checks run unconditionally; the transaction is valid iff the error list
// comes back empty. A non-nil error is returned only when no trustworthy
// verdict is possible (nil transaction, pool failure), never for findings.
func (v *Validator) Validate(tx *model.Transaction) (*model.ValidationResult, error) {
	if tx == nil {
		return nil, errors.New("validate: nil transaction")
	}

	verrs := make([]model.ValidationError, 0, len(tx.Inputs))

	// 1. Every input must reference an output that is still unspent.
	found := make(map[int]*model.UTXO, len(tx.Inputs))
	for i, in := range tx.Inputs {
		id := in.UtxoID()
		utxo, err := v.pool.GetUTXO(id.TxID, id.Index)
		if err != nil {
			return nil, fmt.Errorf("pool lookup %s: %w", id.Key(), err)
		}
		if utxo == nil {
			verrs = append(verrs, notFound(id))
			continue
		}
		found[i] = utxo
	}

	// 2. The found inputs must carry exactly the value the outputs claim.
	// Missing outputs contribute nothing to the input side.
	inputSum := decimal.Zero
	for i := range tx.Inputs {
		if utxo, ok := found[i]; ok {
			inputSum = inputSum.Add(utxo.Amount)
		}
	}
	outputSum := decimal.Zero
	for _, out := range tx.Outputs {
		outputSum = outputSum.Add(out.Amount)
	}
	if !inputSum.Equal(outputSum) {
		verrs = append(verrs, mismatch(inputSum, outputSum))
	}

	// 3. Each found input must be signed by the output's current owner over
	// the one payload shared by the whole transaction. Inputs without a
	// pool record were already reported above and are skipped here.
	payload := SignablePayload(tx)
	for i, in := range tx.Inputs {
		utxo, ok := found[i]
		if !ok {
			continue
		}
		if in.Owner != utxo.Owner || !v.verifier.Verify(payload, in.Signature, in.Owner) {
			verrs = append(verrs, badSignature(in.UtxoID()))
		}
	}

	// 4. No output may be referenced twice. Every occurrence after the
	// first is reported on its own.
	seen := strset.NewWithSize(len(tx.Inputs))
	for _, in := range tx.Inputs {
		id := in.UtxoID()
		if seen.Has(id.Key()) {
			verrs = append(verrs, doubleSpend(id))
			continue
		}
		seen.Add(id.Key())
	}

	res := &model.ValidationResult{
		Valid:  len(verrs) == 0,
		Errors: verrs,
	}

	v.logger.Debug("Validate::Info",
		zap.String("tx", tx.ID),
		zap.Bool("valid", res.Valid),
		zap.Int("error_len", len(verrs)))
	return res, nil
}

func notFound(id model.UtxoID) model.ValidationError {
	return model.ValidationError{
		Kind:    model.UtxoNotFound,
		Message: fmt.Sprintf("referenced output %s is not in the unspent pool", id.Key()),
		UtxoID:  &id,
	}
}

func mismatch(inputSum, outputSum decimal.Decimal) model.ValidationError {
	return model.ValidationError{
		Kind:      model.AmountMismatch,
		Message:   fmt.Sprintf("input sum %s does not match output sum %s", inputSum.String(), outputSum.String()),
		InputSum:  inputSum.String(),
		OutputSum: outputSum.String(),
	}
}

func badSignature(id model.UtxoID) model.ValidationError {
	return model.ValidationError{
		Kind:    model.InvalidSignature,
		Message: fmt.Sprintf("input spending %s is not signed by the output owner", id.Key()),
		UtxoID:  &id,
	}
}

func doubleSpend(id model.UtxoID) model.ValidationError {
	return model.ValidationError{
		Kind:    model.DoubleSpending,
		Message: fmt.Sprintf("output %s is referenced by more than one input", id.Key()),
		UtxoID:  &id,
	}
}
