package txforge

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// Params 是调用方提供的参数映射，键为参数名。
type Params map[string]interface{}

// Clone 返回参数映射的浅拷贝。nil 映射返回一个空映射。
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// merge 返回 p 与 other 合并后的新映射，other 中的同名参数覆盖 p。
func (p Params) merge(other Params) Params {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// first 按优先级顺序返回第一个存在且非 nil 的参数。
func (p Params) first(names ...string) (interface{}, string, bool) {
	for _, name := range names {
		if v, ok := p[name]; ok && v != nil {
			return v, name, true
		}
	}
	return nil, "", false
}

// toInt64 将常见的数值类型转换为 int64。
func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case btcutil.Amount:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

// toSatoshis 将金额参数转换为非负的聪数。
func toSatoshis(v interface{}) (int64, error) {
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative amount %d", n)
	}
	return n, nil
}

// toOutputIndex 将输出索引参数转换为 uint32。
func toOutputIndex(v interface{}) (uint32, error) {
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("output index %d out of range", n)
	}
	return uint32(n), nil
}

// toHash 将交易 ID 参数转换为 chainhash.Hash。字符串按照字节反序的十六进制形式解析。
func toHash(v interface{}) (chainhash.Hash, error) {
	switch h := v.(type) {
	case chainhash.Hash:
		return h, nil
	case *chainhash.Hash:
		return *h, nil
	case string:
		hash, err := chainhash.NewHashFromStr(h)
		if err != nil {
			return chainhash.Hash{}, err
		}
		return *hash, nil
	case []byte:
		hash, err := chainhash.NewHash(h)
		if err != nil {
			return chainhash.Hash{}, err
		}
		return *hash, nil
	default:
		return chainhash.Hash{}, fmt.Errorf("unsupported txid type %T", v)
	}
}

// toScriptBytes 将脚本参数转换为字节切片，字符串按十六进制解析。
func toScriptBytes(v interface{}) ([]byte, error) {
	switch s := v.(type) {
	case []byte:
		out := make([]byte, len(s))
		copy(out, s)
		return out, nil
	case string:
		return hex.DecodeString(s)
	default:
		return nil, fmt.Errorf("unsupported script type %T", v)
	}
}

// toSigHashType 将签名哈希类型参数转换为 txscript.SigHashType。
func toSigHashType(v interface{}) (txscript.SigHashType, error) {
	if t, ok := v.(txscript.SigHashType); ok {
		return t, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("sighash type %d out of range", n)
	}
	return txscript.SigHashType(n), nil
}

// toScriptFlags 将签名标志参数转换为 ScriptFlags。
func toScriptFlags(v interface{}) (ScriptFlags, error) {
	if f, ok := v.(ScriptFlags); ok {
		return f, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("script flags %d out of range", n)
	}
	return ScriptFlags(n), nil
}

// toDataBytes 将数据载荷参数转换为字节切片。
func toDataBytes(v interface{}) ([]byte, bool) {
	switch d := v.(type) {
	case []byte:
		return d, true
	case string:
		return []byte(d), true
	default:
		return nil, false
	}
}
