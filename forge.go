package txforge

import (
	"math"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Forge 是一组 cast 所属的交易。
// 构建分两个阶段：先把所有 cast 注册到 Forge（为每个输入分配固定的索引），
// 然后构建交易并依次物化各个解锁脚本，签名时直接使用注册时分配的索引。
type Forge struct {
	opt *Options

	mu      sync.RWMutex
	inputs  []*Cast
	outputs []*Cast

	tx        *wire.MsgTx           // 最近一次 Build 的结果，注册新的 cast 后失效
	sigHashes *txscript.TxSigHashes // tx 的 BIP143 中间状态
}

// NewForge 创建一个空的 Forge。opt 为 nil 时使用 DefaultOptions。
func NewForge(opt *Options) (*Forge, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	if err := opt.CheckAndSetOptions(); err != nil {
		return nil, err
	}
	return &Forge{opt: opt}, nil
}

// Network 返回 Forge 使用的网络参数。
func (f *Forge) Network() *chaincfg.Params {
	return f.opt.Network
}

// AddInput 注册解锁脚本 cast，按添加顺序分配输入索引。
// 每个 cast 只能注册一次；任何一个 cast 无效时都不会注册。
func (f *Forge) AddInput(casts ...*Cast) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[*Cast]struct{}, len(casts))
	for _, c := range casts {
		if c == nil || c.kind != UnlockingType || c.txOut == nil {
			return makeError(ErrBinding, "input must be an %s cast", UnlockingType)
		}
		if _, ok := seen[c]; ok || c.owner != nil {
			return makeError(ErrBinding, "input cast already attached to a transaction")
		}
		seen[c] = struct{}{}
	}

	for _, c := range casts {
		c.owner = f
		c.index = len(f.inputs)
		f.inputs = append(f.inputs, c)
	}
	f.invalidate()
	return nil
}

// AddOutput 注册锁定脚本 cast，按添加顺序作为交易输出。
func (f *Forge) AddOutput(casts ...*Cast) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range casts {
		if c == nil || c.kind != LockingType {
			return makeError(ErrBinding, "output must be a %s cast", LockingType)
		}
	}

	f.outputs = append(f.outputs, casts...)
	f.invalidate()
	return nil
}

// invalidate 丢弃已构建的交易，调用方必须持有写锁。
func (f *Forge) invalidate() {
	f.tx = nil
	f.sigHashes = nil
}

// Inputs 返回已注册的输入 cast。
func (f *Forge) Inputs() []*Cast {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]*Cast, len(f.inputs))
	copy(out, f.inputs)
	return out
}

// Outputs 返回已注册的输出 cast。
func (f *Forge) Outputs() []*Cast {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]*Cast, len(f.outputs))
	copy(out, f.outputs)
	return out
}

// InputIndex 返回 cast 在本交易中的输入索引。cast 没有注册到本交易时返回绑定错误。
func (f *Forge) InputIndex(c *Cast) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if c == nil || c.owner != Context(f) || c.index < 0 ||
		c.index >= len(f.inputs) || f.inputs[c.index] != c {
		return -1, makeError(ErrBinding, "input cast not found")
	}
	return c.index, nil
}

// Build 物化所有锁定脚本并组装交易，输入的解锁脚本留空。
// 返回交易的拷贝；Forge 内部保留一份用于签名。
func (f *Forge) Build() (*wire.MsgTx, error) {
	f.mu.RLock()
	inputs := append([]*Cast(nil), f.inputs...)
	outputs := append([]*Cast(nil), f.outputs...)
	f.mu.RUnlock()

	tx := wire.NewMsgTx(f.opt.TxVersion)
	tx.LockTime = f.opt.LockTime

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range inputs {
		prevOut := wire.NewOutPoint(&in.txOut.Txid, in.txOutNum)
		tx.AddTxIn(wire.NewTxIn(prevOut, nil, nil))
		fetcher.AddPrevOut(*prevOut, wire.NewTxOut(in.txOut.Satoshis, in.txOut.Script))
	}

	for i, out := range outputs {
		pkScript, err := out.Script(f, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
		if f.opt.RequireStandard {
			class := txscript.GetScriptClass(pkScript)
			if err := checkPkScriptStandard(pkScript, class); err != nil {
				return nil, makeError(ErrValidation, "output %d: %v", i, err)
			}
		}
		tx.AddTxOut(wire.NewTxOut(out.satoshis, pkScript))
	}

	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.inputs) != len(inputs) || len(f.outputs) != len(outputs) {
		return nil, makeError(ErrBinding, "casts registered while building transaction")
	}
	f.tx = tx
	f.sigHashes = sigHashes

	logrus.WithFields(logrus.Fields{
		"inputs":  len(tx.TxIn),
		"outputs": len(tx.TxOut),
	}).Debug("built transaction")

	return tx.Copy(), nil
}

// Sign 构建交易并物化每个输入的解锁脚本。params 与各个 cast 自身的参数合并后传给策略
// （例如 keyPair）。任何一个输入失败时不会写入任何解锁脚本。
func (f *Forge) Sign(params Params) (*wire.MsgTx, error) {
	if _, err := f.Build(); err != nil {
		return nil, err
	}
	inputs := f.Inputs()

	scripts := make([][]byte, len(inputs))
	for i, in := range inputs {
		script, err := in.Script(f, params)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		scripts[i] = script
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.tx == nil || len(f.tx.TxIn) != len(scripts) {
		return nil, makeError(ErrBinding, "casts registered while signing transaction")
	}
	for i, script := range scripts {
		f.tx.TxIn[i].SignatureScript = script
	}

	logrus.WithField("txid", f.tx.TxHash().String()).Debug("signed transaction")

	return f.tx.Copy(), nil
}

// SignInput 对第 idx 个输入签名，返回 DER 签名加 1 字节签名哈希类型。
// 标志和签名哈希类型都启用分叉标志时使用承诺输出金额的 BIP143 风格摘要，否则使用传统摘要。
func (f *Forge) SignInput(kp *KeyPair, hashType txscript.SigHashType, idx int,
	prevScript []byte, prevValue int64, flags ScriptFlags) ([]byte, error) {

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.tx == nil {
		return nil, makeError(ErrBinding, "transaction not built")
	}
	if idx < 0 || idx >= len(f.tx.TxIn) {
		return nil, makeError(ErrBinding, "input index %d out of range", idx)
	}

	var (
		sig []byte
		err error
	)
	if usesForkID(hashType, flags) {
		sig, err = txscript.RawTxInWitnessSignature(f.tx, f.sigHashes, idx,
			prevValue, prevScript, hashType, kp.PrivKey())
	} else {
		sig, err = txscript.RawTxInSignature(f.tx, idx, prevScript, hashType, kp.PrivKey())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "sign input %d", idx)
	}
	return sig, nil
}

// Tx 返回最近一次构建或签名的交易的拷贝，尚未构建时返回 nil。
func (f *Forge) Tx() *wire.MsgTx {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.tx == nil {
		return nil
	}
	return f.tx.Copy()
}

// EstimateSize 根据各个 cast 的模板估算签名后交易的序列化大小。
func (f *Forge) EstimateSize() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// 版本号和锁定时间各 4 字节
	size := 8
	size += wire.VarIntSerializeSize(uint64(len(f.inputs)))
	size += wire.VarIntSerializeSize(uint64(len(f.outputs)))
	for _, in := range f.inputs {
		// 上一笔输出（32 字节哈希 + 4 字节索引）和 4 字节序列号
		size += 40 + in.SerializeSize()
	}
	for _, out := range f.outputs {
		// 8 字节金额
		size += 8 + out.SerializeSize()
	}
	return size
}

// EstimateFee 按 Options.FeeRate 估算交易手续费（聪），向上取整。
func (f *Forge) EstimateFee() int64 {
	return int64(math.Ceil(float64(f.EstimateSize()) * f.opt.FeeRate))
}
