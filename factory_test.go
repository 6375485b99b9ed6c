package txforge

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// TestLockingScriptRequiresSatoshis 测试缺少 satoshis 时返回校验错误，与其它参数无关。
func TestLockingScriptRequiresSatoshis(t *testing.T) {
	tests := []Params{
		nil,
		{},
		{"foo": "bar"},
		{"amount": 5000},
		{"satoshis": nil},
	}

	for _, params := range tests {
		cast, err := LockingScript(testCastMod, params)
		require.Nil(t, cast)
		require.EqualError(t, err, "Cast type 'lockingScript' requires 'satoshis' param")
		require.True(t, IsErrorKind(err, ErrValidation))
	}
}

// TestLockingScriptParams 测试未被识别的参数原样保存在 cast 的参数中。
func TestLockingScriptParams(t *testing.T) {
	cast, err := LockingScript(testCastMod, Params{"satoshis": 5000, "foo": "bar"})
	require.NoError(t, err)
	require.Equal(t, Params{"foo": "bar"}, cast.Params())
	require.Equal(t, int64(5000), cast.Satoshis())
	require.Equal(t, LockingType, cast.Kind())
}

// TestLockingScriptInvalidSatoshis 测试无效金额返回校验错误。
func TestLockingScriptInvalidSatoshis(t *testing.T) {
	for _, v := range []interface{}{-1, "5000", 1.5} {
		_, err := LockingScript(testCastMod, Params{"satoshis": v})
		require.Error(t, err)
		require.True(t, IsErrorKind(err, ErrValidation))
	}

	cast, err := LockingScript(testCastMod, Params{"satoshis": btcutil.Amount(700)})
	require.NoError(t, err)
	require.Equal(t, int64(700), cast.Satoshis())
}

// TestUnlockingScriptRequiredParams 测试必需字段按 txid、script、satoshis、vout 的顺序校验。
func TestUnlockingScriptRequiredParams(t *testing.T) {
	tests := []struct {
		params Params
		err    string
	}{
		{nil, "Cast type 'unlockingScript' requires 'txid' param"},
		{Params{"script": "0000", "satoshis": 5000, "vout": 0},
			"Cast type 'unlockingScript' requires 'txid' param"},
		{Params{"txid": "0000"}, "Cast type 'unlockingScript' requires 'script' param"},
		{Params{"txid": "0000", "script": "0000"},
			"Cast type 'unlockingScript' requires 'satoshis' param"},
		{Params{"txid": "0000", "script": "0000", "vout": 0},
			"Cast type 'unlockingScript' requires 'satoshis' param"},
		{Params{"txid": "0000", "script": "0000", "satoshis": 5000},
			"Cast type 'unlockingScript' requires 'vout' param"},
	}

	for i, test := range tests {
		cast, err := UnlockingScript(testCastMod, test.params)
		require.Nil(t, cast, "test %d", i)
		require.EqualError(t, err, test.err, "test %d", i)
		require.True(t, IsErrorKind(err, ErrValidation), "test %d", i)
	}

	cast, err := UnlockingScript(testCastMod, Params{"txid": "0000", "script": "0000", "satoshis": 5000, "vout": 0})
	require.NoError(t, err)
	require.Equal(t, UnlockingType, cast.Kind())
	require.Equal(t, []byte{0, 0}, cast.TxOut().Script)
}

// TestUnlockingScriptAmountAlias 测试 satoshis 和 amount 可以互换，同时提供时 satoshis 优先。
func TestUnlockingScriptAmountAlias(t *testing.T) {
	c1, err := UnlockingScript(testCastMod, Params{"txid": "0000", "script": "0000", "satoshis": 5000, "vout": 0})
	require.NoError(t, err)
	c2, err := UnlockingScript(testCastMod, Params{"txid": "0000", "script": "0000", "amount": 5000, "vout": 0})
	require.NoError(t, err)
	c3, err := UnlockingScript(testCastMod, Params{"txid": "0000", "script": "0000", "satoshis": 5000, "amount": 1, "vout": 0})
	require.NoError(t, err)

	require.Equal(t, int64(5000), c1.TxOut().Satoshis)
	require.Equal(t, int64(5000), c2.TxOut().Satoshis)
	require.Equal(t, int64(5000), c3.TxOut().Satoshis)
	require.Empty(t, c3.Params())
}

// TestUnlockingScriptVoutAlias 测试 vout、outputIndex、txOutNum 可以互换，按该优先级取值。
func TestUnlockingScriptVoutAlias(t *testing.T) {
	base := func(k string, v interface{}) Params {
		return Params{"txid": "0000", "script": "0000", "satoshis": 5000, k: v}
	}

	for _, key := range []string{"vout", "outputIndex", "txOutNum"} {
		cast, err := UnlockingScript(testCastMod, base(key, 3))
		require.NoError(t, err, key)
		require.Equal(t, uint32(3), cast.TxOutNum(), key)
	}

	params := base("outputIndex", 2)
	params["txOutNum"] = 7
	cast, err := UnlockingScript(testCastMod, params)
	require.NoError(t, err)
	require.Equal(t, uint32(2), cast.TxOutNum())

	params["vout"] = 1
	cast, err = UnlockingScript(testCastMod, params)
	require.NoError(t, err)
	require.Equal(t, uint32(1), cast.TxOutNum())
	require.Empty(t, cast.Params())
}

// TestUnlockingScriptParams 测试只有未被识别的参数保存在 cast 的参数中。
func TestUnlockingScriptParams(t *testing.T) {
	cast, err := UnlockingScript(testCastMod, Params{
		"txid": "0000", "script": "0000", "satoshis": 5000, "vout": 0, "foo": "bar",
	})
	require.NoError(t, err)
	require.Equal(t, Params{"foo": "bar"}, cast.Params())
}

// TestUnlockingScriptTxOut 测试由 txid、script、satoshis 重建的上一笔输出。
func TestUnlockingScriptTxOut(t *testing.T) {
	txid := "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	hash, err := chainhash.NewHashFromStr(txid)
	require.NoError(t, err)

	for _, v := range []interface{}{txid, *hash, hash} {
		cast, err := UnlockingScript(testCastMod, Params{
			"txid": v, "script": []byte{0x51}, "amount": int64(42), "txOutNum": uint32(9),
		})
		require.NoError(t, err)
		require.Equal(t, *hash, cast.TxOut().Txid)
		require.Equal(t, []byte{0x51}, cast.TxOut().Script)
		require.Equal(t, int64(42), cast.TxOut().Satoshis)
		require.Equal(t, uint32(9), cast.TxOutNum())
	}

	_, err = UnlockingScript(testCastMod, Params{"txid": "zz", "script": "00", "satoshis": 1, "vout": 0})
	require.True(t, IsErrorKind(err, ErrValidation))
	_, err = UnlockingScript(testCastMod, Params{"txid": txid, "script": "0g", "satoshis": 1, "vout": 0})
	require.True(t, IsErrorKind(err, ErrValidation))
	_, err = UnlockingScript(testCastMod, Params{"txid": txid, "script": "00", "satoshis": 1, "vout": -1})
	require.True(t, IsErrorKind(err, ErrValidation))
}

// TestFactoryNilStrategy 测试缺少策略或策略定义时返回校验错误。
func TestFactoryNilStrategy(t *testing.T) {
	_, err := LockingScript(nil, Params{"satoshis": 1})
	require.True(t, IsErrorKind(err, ErrValidation))

	_, err = UnlockingScript(testStrategy{}, Params{"txid": "00", "script": "00", "satoshis": 1, "vout": 0})
	require.True(t, IsErrorKind(err, ErrValidation))
}
