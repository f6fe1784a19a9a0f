package types

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigInt_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		input string
		want  string
	}{
		{`"75786"`, "75786"},
		{`75786`, "75786"},
		{`"16666666667"`, "16666666667"},
		{`"0"`, "0"},
		// Larger than any native integer the relay could hand back.
		{`"115792089237316195423570985008687907852837564279074904382605163141518161494337"`,
			"115792089237316195423570985008687907852837564279074904382605163141518161494337"},
	} {
		var b BigInt
		require.NoError(t, json.Unmarshal([]byte(tc.input), &b), "input %s", tc.input)
		assert.Equal(t, tc.want, b.String(), "input %s", tc.input)
	}

	var b BigInt
	assert.Error(t, json.Unmarshal([]byte(`"not a number"`), &b))
}

func TestBigInt_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewBigInt(48668))
	require.NoError(t, err)
	assert.Equal(t, `48668`, string(data))

	data, err = json.Marshal(struct {
		Gas *BigInt `json:"gas"`
	}{Gas: nil})
	require.NoError(t, err)
	assert.Equal(t, `{"gas":null}`, string(data))
}

func TestRelayEstimate_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *RelayEstimate {
		return &RelayEstimate{
			SafeTxGas: NewBigInt(75786),
			BaseGas:   NewBigInt(48668),
			GasPrice:  NewBigInt(16666666667),
		}
	}
	assert.NoError(t, valid().Validate())

	zeroBase := valid()
	zeroBase.BaseGas = NewBigInt(0)
	assert.NoError(t, zeroBase.Validate())

	for name, mutate := range map[string]func(e *RelayEstimate){
		"missing safeTxGas":  func(e *RelayEstimate) { e.SafeTxGas = nil },
		"zero safeTxGas":     func(e *RelayEstimate) { e.SafeTxGas = NewBigInt(0) },
		"negative safeTxGas": func(e *RelayEstimate) { e.SafeTxGas = NewBigInt(-1) },
		"missing gasPrice":   func(e *RelayEstimate) { e.GasPrice = nil },
		"zero gasPrice":      func(e *RelayEstimate) { e.GasPrice = NewBigInt(0) },
		"negative gasPrice":  func(e *RelayEstimate) { e.GasPrice = NewBigInt(-1) },
		"missing baseGas":    func(e *RelayEstimate) { e.BaseGas = nil },
		"negative baseGas":   func(e *RelayEstimate) { e.BaseGas = NewBigInt(-1) },
	} {
		estimate := valid()
		mutate(estimate)
		assert.ErrorIs(t, estimate.Validate(), ErrInvalidEstimate, name)
	}
}

func TestRelayEstimate_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	// Gas amounts come back as decimal strings, the nonce as a number.
	payload := `{
		"safeTxGas": "75786",
		"baseGas": "48668",
		"gasPrice": "16666666667",
		"lastUsedNonce": 41,
		"gasToken": "0x5592EC0cfb4dbc12D3aB100b257153436a1f0FEa",
		"refundReceiver": "0x07fd1c40305f1fe46bdac63fa27e91c5c6dcc4b3"
	}`

	var estimate RelayEstimate
	require.NoError(t, json.Unmarshal([]byte(payload), &estimate))
	require.NoError(t, estimate.Validate())

	assert.Equal(t, int64(75786), estimate.SafeTxGas.Int().Int64())
	assert.Equal(t, int64(48668), estimate.BaseGas.Int().Int64())
	assert.Equal(t, int64(16666666667), estimate.GasPrice.Int().Int64())
	require.NotNil(t, estimate.LastUsedNonce)
	assert.Equal(t, uint64(41), *estimate.LastUsedNonce)
	require.NotNil(t, estimate.GasToken)
	assert.Equal(t, common.HexToAddress("0x5592EC0cfb4dbc12D3aB100b257153436a1f0FEa"), *estimate.GasToken)
}

func TestSignature_MarshalJSON(t *testing.T) {
	t.Parallel()

	sig := Signature{V: 27}
	sig.R[30] = 0x13
	sig.R[31] = 0x37
	sig.S[31] = 1

	data, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Equal(t, `{"v":27,"r":4919,"s":1}`, string(data))
}

func TestSignature_MarshalJSON_FullWidth(t *testing.T) {
	t.Parallel()

	// r and s are 256-bit values and must survive as exact decimal
	// numbers, not float64 approximations.
	var sig Signature
	sig.V = 28
	for i := range sig.R {
		sig.R[i] = 0xff
		sig.S[i] = 0xff
	}

	data, err := json.Marshal(sig)
	require.NoError(t, err)
	max := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	assert.Equal(t, `{"v":28,"r":`+max+`,"s":`+max+`}`, string(data))
}

func TestSignature_String(t *testing.T) {
	t.Parallel()

	sig := Signature{V: 27}
	sig.R[31] = 0xab
	sig.S[31] = 0xcd

	want := "0x" +
		"00000000000000000000000000000000000000000000000000000000000000ab" +
		"00000000000000000000000000000000000000000000000000000000000000cd" +
		"1b"
	assert.Equal(t, want, sig.String())
}

func TestSafeInfo_HasOwner(t *testing.T) {
	t.Parallel()

	info := SafeInfo{
		Owners: []common.Address{
			common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"),
			common.HexToAddress("0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0"),
		},
	}
	assert.True(t, info.HasOwner(common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")))
	assert.False(t, info.HasOwner(common.HexToAddress("0x2222222222222222222222222222222222222222")))
}

func TestOperation_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "call", OperationCall.String())
	assert.Equal(t, "unknown(1)", Operation(1).String())
}

func TestSignedSafeTransaction_MarshalJSON(t *testing.T) {
	t.Parallel()

	gasToken := common.HexToAddress("0x5592EC0cfb4dbc12D3aB100b257153436a1f0FEa")
	tx := SignedSafeTransaction{
		Safe:      common.HexToAddress("0x1111111111111111111111111111111111111111"),
		To:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Value:     NewBigInt(0),
		Data:      "0x0d582f13",
		Operation: OperationCall,
		GasToken:  &gasToken,
		SafeTxGas: NewBigInt(75786),
		DataGas:   NewBigInt(48668),
		GasPrice:  NewBigInt(16666666667),
		Nonce:     42,
		Signatures: []Signature{
			{V: 27},
		},
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	// The relay names base gas dataGas on the wire.
	assert.Contains(t, decoded, "dataGas")
	assert.NotContains(t, decoded, "baseGas")
	assert.Equal(t, "48668", string(decoded["dataGas"]))
	assert.Equal(t, "75786", string(decoded["safeTxGas"]))
	assert.Equal(t, "null", string(decoded["refundReceiver"]))
}
