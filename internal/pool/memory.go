package pool

import "github.com/wx-shi/utxo-validator/internal/model"

// Memory is a map-backed pool for tests and tooling.
type Memory struct {
	m map[model.UtxoID]model.UTXO
}

func NewMemory() *Memory {
	return &Memory{m: make(map[model.UtxoID]model.UTXO)}
}

func (p *Memory) Put(id model.UtxoID, utxo model.UTXO) {
	p.m[id] = utxo
}

func (p *Memory) Remove(id model.UtxoID) {
	delete(p.m, id)
}

func (p *Memory) GetUTXO(txID string, index int) (*model.UTXO, error) {
	utxo, ok := p.m[model.UtxoID{TxID: txID, Index: index}]
	if !ok {
		return nil, nil
	}
	cp := utxo
	return &cp, nil
}
