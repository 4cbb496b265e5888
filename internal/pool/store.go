package pool

import (
	"context"
	"encoding/json"
	"time"

	tmdb "github.com/cosmos/cosmos-db"
	"github.com/wx-shi/utxo-validator/internal/config"
	"github.com/wx-shi/utxo-validator/internal/model"
	"github.com/wx-shi/utxo-validator/pkg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	utxoKeyPrefix    = "u:"
	AppliedHeightKey = "m:h"

	udbName = "utxo"
	mdbName = "meta"
)

// Store is the persistent pool. UTXO records live in udb under u:txid:index
// keys, bookkeeping such as the last applied height in mdb.
type Store struct {
	udb    tmdb.DB
	mdb    tmdb.DB
	logger *zap.Logger
}

func NewStore(conf *config.DBConfig, logger *zap.Logger) (*Store, error) {
	udb, err := tmdb.NewDB(udbName, tmdb.BackendType(conf.DBType), conf.Dir)
	if err != nil {
		return nil, err
	}
	mdb, err := tmdb.NewDB(mdbName, tmdb.BackendType(conf.DBType), conf.Dir)
	if err != nil {
		return nil, err
	}

	return &Store{
		udb:    udb,
		mdb:    mdb,
		logger: logger,
	}, nil
}

func (s *Store) Close() error {
	g, _ := errgroup.WithContext(context.Background())
	g.Go(s.udb.Close)
	g.Go(s.mdb.Close)
	return g.Wait()
}

// GetUTXO implements Pool. An absent or spent output returns nil, nil.
func (s *Store) GetUTXO(txID string, index int) (*model.UTXO, error) {
	id := model.UtxoID{TxID: txID, Index: index}
	val, err := s.udb.Get([]byte(utxoKeyPrefix + id.Key()))
	if err != nil {
		return nil, err
	}
	if len(val) == 0 {
		return nil, nil
	}
	utxo := &model.UTXO{}
	if err := json.Unmarshal(val, utxo); err != nil {
		return nil, err
	}
	return utxo, nil
}

func (s *Store) AppliedHeight() (int64, error) {
	val, err := s.mdb.Get([]byte(AppliedHeightKey))
	if err != nil {
		return 0, err
	}
	if len(val) == 0 {
		return 0, nil
	}
	return pkg.BytesToInt64(val), nil
}

// Apply removes the spent references and inserts the created outputs in one
// batch. This is the pool owner's mutation path for accepted transactions;
// the validator never calls it.
func (s *Store) Apply(spent []model.UtxoID, created []model.NewUTXO, height int64) error {
	start := time.Now()

	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		wb := s.udb.NewBatch()
		defer wb.Close()

		for _, nu := range created {
			id := model.UtxoID{TxID: nu.TxID, Index: nu.Index}
			b, err := json.Marshal(&model.UTXO{
				Owner:  nu.Owner,
				Amount: nu.Amount,
			})
			if err != nil {
				return err
			}
			if err := wb.Set([]byte(utxoKeyPrefix+id.Key()), b); err != nil {
				return err
			}
		}
		for _, id := range spent {
			if err := wb.Delete([]byte(utxoKeyPrefix + id.Key())); err != nil {
				return err
			}
		}
		return wb.WriteSync()
	})
	g.Go(func() error {
		return s.mdb.SetSync([]byte(AppliedHeightKey), pkg.Int64ToBytes(height))
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("Apply::Info",
		zap.Int64("height", height),
		zap.Int("spent_len", len(spent)),
		zap.Int("created_len", len(created)),
		zap.Duration("ttl", time.Since(start)))
	return nil
}
