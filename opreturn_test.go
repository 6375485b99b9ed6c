package txforge

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestOpReturnLockingScript 测试数据输出脚本和动态占位符大小。
func TestOpReturnLockingScript(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		prefix []byte
		size   int
	}{
		{
			name:   "string",
			data:   "hello world",
			prefix: []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_DATA_11},
			size:   2 + 11,
		},
		{
			name:   "pushdata1",
			data:   bytes.Repeat([]byte{0xab}, 100),
			prefix: []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_PUSHDATA1, 100},
			size:   2 + 100,
		},
		{
			name:   "small integer byte",
			data:   []byte{0x05},
			prefix: []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_DATA_1, 0x05},
			size:   2 + 1,
		},
		{
			name:   "empty",
			data:   []byte{},
			prefix: []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_0},
			size:   2,
		},
		{
			name:   "pushdata2",
			data:   bytes.Repeat([]byte{0xcd}, 300),
			prefix: []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_PUSHDATA2, 0x2c, 0x01},
			size:   2 + 300,
		},
		{
			name:   "larger than script element limit",
			data:   bytes.Repeat([]byte{0xef}, 600),
			prefix: []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_PUSHDATA2, 0x58, 0x02},
			size:   2 + 600,
		},
	}

	for _, test := range tests {
		cast, err := LockingScript(OpReturn, Params{"satoshis": 0, "data": test.data})
		require.NoError(t, err, test.name)
		require.Equal(t, test.size, cast.Size(), test.name)

		script, err := cast.Script(nil, nil)
		require.NoError(t, err, test.name)
		require.Equal(t, test.prefix, script[:len(test.prefix)], test.name)
		require.Len(t, script, cast.Template().ScriptSize(cast.Params()), test.name)
		require.Equal(t, cast.SerializeSize(), wire.VarIntSerializeSize(uint64(len(script)))+len(script), test.name)
		require.NoError(t, checkPkScriptStandard(script, txscript.GetScriptClass(script)), test.name)
	}
}

// TestOpReturnRequiresData 测试缺少数据时返回校验错误。
func TestOpReturnRequiresData(t *testing.T) {
	cast, err := LockingScript(OpReturn, Params{"satoshis": 0})
	require.NoError(t, err)
	require.Equal(t, 2, cast.Size())

	_, err = cast.Script(nil, nil)
	require.EqualError(t, err, "OP_RETURN lockingScript requires data")
	require.True(t, IsErrorKind(err, ErrValidation))

	// OpReturn 没有解锁脚本能力。
	_, ok := interface{}(OpReturn).(UnlockingStrategy)
	require.False(t, ok)
}

// TestOpReturnCallTimeData 测试构建时才提供的数据仍然能物化，但不计入 cast 的大小。
func TestOpReturnCallTimeData(t *testing.T) {
	cast, err := LockingScript(OpReturn, Params{"satoshis": 0})
	require.NoError(t, err)

	script, err := cast.Script(nil, Params{"data": "hi"})
	require.NoError(t, err)
	require.Equal(t, []byte{txscript.OP_FALSE, txscript.OP_RETURN, txscript.OP_DATA_2, 'h', 'i'}, script)
	require.Equal(t, 2, cast.Size())
}
