package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wx-shi/utxo-validator/internal/config"
	"github.com/wx-shi/utxo-validator/internal/model"
	"github.com/wx-shi/utxo-validator/internal/pool"
	"github.com/wx-shi/utxo-validator/internal/validator"
	"go.uber.org/zap"
)

type commonReply struct {
	Code int             `json:"code,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
	Msg  string          `json:"msg,omitempty"`
}

func newTestServer(t *testing.T) (*httptest.Server, *pool.Store) {
	t.Helper()

	logger := zap.NewNop()
	store, err := pool.NewStore(&config.DBConfig{
		Dir:    t.TempDir(),
		DBType: "memdb",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	v := validator.New(store, validator.ECDSAVerifier{}, logger)
	s := NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: 0}, logger, store, v)

	ts := httptest.NewServer(s.engine)
	t.Cleanup(ts.Close)
	return ts, store
}

func post(t *testing.T, url string, body interface{}) *commonReply {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()

	reply := &commonReply{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(reply))
	return reply
}

func TestApplyAndUtxoInfo(t *testing.T) {
	ts, _ := newTestServer(t)

	reply := post(t, ts.URL+"/apply", model.ApplyRequest{
		Height: 12,
		Created: []model.NewUTXO{
			{TxID: "tx1", Index: 0, Owner: "aa", Amount: decimal.NewFromInt(10)},
		},
	})
	require.Equal(t, http.StatusOK, reply.Code)

	reply = post(t, ts.URL+"/utxo_info", model.UTXOInfoRequest{
		Keys: []string{"tx1:0", "tx9:9"},
	})
	require.Equal(t, http.StatusOK, reply.Code)

	var info model.UTXOInfoReply
	require.NoError(t, json.Unmarshal(reply.Data, &info))
	require.NotNil(t, info["tx1:0"])
	require.Equal(t, "aa", info["tx1:0"].Owner)
	require.Equal(t, "10", info["tx1:0"].Amount)
	require.Nil(t, info["tx9:9"])

	reply = post(t, ts.URL+"/height", struct{}{})
	require.Equal(t, http.StatusOK, reply.Code)

	var height model.HeightReply
	require.NoError(t, json.Unmarshal(reply.Data, &height))
	require.Equal(t, int64(12), height.Height)
}

func TestValidateEndpoint(t *testing.T) {
	ts, store := newTestServer(t)

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	owner := hex.EncodeToString(priv.PubKey().SerializeCompressed())

	require.NoError(t, store.Apply(nil, []model.NewUTXO{
		{TxID: "tx1", Index: 0, Owner: owner, Amount: decimal.NewFromInt(10)},
	}, 1))

	tx := model.Transaction{
		ID:        "tx2",
		Inputs:    []model.Input{{TxID: "tx1", Index: 0, Owner: owner}},
		Outputs:   []model.Output{{Owner: "aa", Amount: decimal.NewFromInt(10)}},
		Timestamp: 1700000000,
	}
	sig := ecdsa.Sign(priv, chainhash.DoubleHashB(validator.SignablePayload(&tx)))
	tx.Inputs[0].Signature = hex.EncodeToString(sig.Serialize())

	reply := post(t, ts.URL+"/validate", tx)
	require.Equal(t, http.StatusOK, reply.Code)

	var res model.ValidationResult
	require.NoError(t, json.Unmarshal(reply.Data, &res))
	require.True(t, res.Valid)
	require.Empty(t, res.Errors)

	// Tamper with the amount: the same endpoint reports the findings.
	tx.Outputs[0].Amount = decimal.NewFromInt(9)
	reply = post(t, ts.URL+"/validate", tx)
	require.Equal(t, http.StatusOK, reply.Code)

	res = model.ValidationResult{}
	require.NoError(t, json.Unmarshal(reply.Data, &res))
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	require.Equal(t, model.AmountMismatch, res.Errors[0].Kind)
	require.Equal(t, model.InvalidSignature, res.Errors[1].Kind)
}

func TestValidateEndpointBadRequest(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/validate", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
