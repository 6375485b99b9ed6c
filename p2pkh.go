package txforge

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/sirupsen/logrus"
)

// P2PKH 参数名称。
const (
	ParamAddress     = "address"
	ParamKeyPair     = "keyPair"
	ParamSigHashType = "sighashType"
	ParamFlags       = "flags"
)

// p2pkhSigSize 是签名占位符的大小：常见的 71 字节 DER 签名加 1 字节签名哈希类型。
const p2pkhSigSize = 72

// P2PKH 是“支付到公钥哈希”策略，同时提供锁定脚本和解锁脚本。
var P2PKH = p2pkh{}

type p2pkh struct{}

var (
	p2pkhLocking = &Casting{
		Template: MustTemplate(
			Op(txscript.OP_DUP),
			Op(txscript.OP_HASH160),
			Slot(RolePubKeyHash, 20),
			Op(txscript.OP_EQUALVERIFY),
			Op(txscript.OP_CHECKSIG),
		),
		Script: p2pkhLockingScript,
	}

	p2pkhUnlocking = &Casting{
		Template: MustTemplate(
			Slot(RoleSignature, p2pkhSigSize),
			Slot(RolePubKey, compressedPubKeySize),
		),
		Script: p2pkhUnlockingScript,
	}
)

// Name 返回策略名称。
func (p2pkh) Name() string { return "p2pkh" }

// LockingScript 返回 P2PKH 锁定脚本定义：
// OP_DUP OP_HASH160 <20 字节公钥哈希> OP_EQUALVERIFY OP_CHECKSIG
func (p2pkh) LockingScript() *Casting { return p2pkhLocking }

// UnlockingScript 返回 P2PKH 解锁脚本定义：<签名> <33 字节压缩公钥>
func (p2pkh) UnlockingScript() *Casting { return p2pkhUnlocking }

// p2pkhLockingScript 用 address 参数中的公钥哈希填充锁定脚本模板。
func p2pkhLockingScript(ctx Context, c *Cast, params Params) ([]byte, error) {
	hash, ok := pubKeyHashOf(params[ParamAddress], networkOf(ctx))
	if !ok {
		return nil, makeError(ErrValidation, "P2PKH %s requires address", LockingType)
	}

	return c.template.Fill(params, Fillers{
		RolePubKeyHash: func() ([]byte, error) { return hash, nil },
	})
}

// p2pkhUnlockingScript 定位 cast 在所属交易中的输入索引，校验密钥对与被花费输出匹配，
// 然后通过所属交易的签名原语生成签名，填充解锁脚本模板。
func p2pkhUnlockingScript(ctx Context, c *Cast, params Params) ([]byte, error) {
	if ctx == nil {
		return nil, makeError(ErrBinding, "input cast not found")
	}
	vin, err := ctx.InputIndex(c)
	if err != nil {
		return nil, err
	}

	kp, _ := params[ParamKeyPair].(*KeyPair)
	if kp == nil {
		return nil, makeError(ErrValidation, "P2PKH %s requires valid keyPair", UnlockingType)
	}
	if !verifyKeyPair(kp, c.txOut) {
		return nil, makeError(ErrAuthorization, "P2PKH %s requires valid keyPair", UnlockingType)
	}

	hashType := DefaultSigHashType
	if v, ok := params[ParamSigHashType]; ok && v != nil {
		if hashType, err = toSigHashType(v); err != nil {
			return nil, makeError(ErrValidation, "P2PKH %s has invalid '%s' param: %v",
				UnlockingType, ParamSigHashType, err)
		}
	}
	flags := DefaultScriptFlags
	if v, ok := params[ParamFlags]; ok && v != nil {
		if flags, err = toScriptFlags(v); err != nil {
			return nil, makeError(ErrValidation, "P2PKH %s has invalid '%s' param: %v",
				UnlockingType, ParamFlags, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"vin":      vin,
		"hashType": hashType,
	}).Debug("signing p2pkh input")

	return c.template.Fill(params, Fillers{
		RoleSignature: func() ([]byte, error) {
			return ctx.SignInput(kp, hashType, vin, c.txOut.Script, c.txOut.Satoshis, flags)
		},
		RolePubKey: func() ([]byte, error) { return kp.PubKeyBytes(), nil },
	})
}

// verifyKeyPair 检查密钥对的公钥哈希是否与被花费输出锁定脚本中嵌入的哈希一致：
// 脚本必须恰好包含 5 个元素，且第 3 个元素的数据等于公钥哈希。
func verifyKeyPair(kp *KeyPair, txOut *TxOut) bool {
	if txOut == nil {
		return false
	}
	hash := kp.PubKeyHash()

	var (
		chunks int
		third  []byte
	)
	tokenizer := txscript.MakeScriptTokenizer(0, txOut.Script)
	for tokenizer.Next() {
		if chunks == 2 {
			third = tokenizer.Data()
		}
		chunks++
	}
	if tokenizer.Err() != nil {
		return false
	}

	return chunks == 5 && third != nil && bytes.Equal(third, hash)
}

// pubKeyHashOf 从 address 参数中解析 20 字节公钥哈希。
// 支持 P2PKH 地址对象、地址字符串（在 net 上解码）以及原始 20 字节哈希。
func pubKeyHashOf(v interface{}, net *chaincfg.Params) ([]byte, bool) {
	switch addr := v.(type) {
	case *btcutil.AddressPubKeyHash:
		if addr == nil {
			return nil, false
		}
		return addr.ScriptAddress(), true
	case *btcutil.AddressPubKey:
		if addr == nil {
			return nil, false
		}
		return addr.AddressPubKeyHash().ScriptAddress(), true
	case string:
		decoded, err := btcutil.DecodeAddress(addr, net)
		if err != nil {
			return nil, false
		}
		return pubKeyHashOf(decoded, net)
	case []byte:
		if len(addr) != 20 {
			return nil, false
		}
		return addr, true
	default:
		return nil, false
	}
}
