package txforge

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// CastType 区分锁定脚本和解锁脚本。
type CastType int

const (
	LockingType   CastType = iota // 交易输出上的锁定脚本
	UnlockingType                 // 交易输入上的解锁脚本
)

// String 返回 cast 类型的名称，与错误信息中使用的名称一致。
func (t CastType) String() string {
	switch t {
	case LockingType:
		return "lockingScript"
	case UnlockingType:
		return "unlockingScript"
	default:
		return "unknown"
	}
}

// Context 是 cast 所属的交易。解锁脚本在签名时通过它定位自己的输入索引并调用签名原语。
type Context interface {
	// Network 返回解析地址时使用的网络参数。
	Network() *chaincfg.Params

	// InputIndex 返回 cast 在所属交易输入列表中的索引。
	InputIndex(c *Cast) (int, error)

	// SignInput 对指定输入签名，返回交易格式的签名（DER 编码加签名哈希类型字节）。
	SignInput(kp *KeyPair, hashType txscript.SigHashType, idx int,
		prevScript []byte, prevValue int64, flags ScriptFlags) ([]byte, error)
}

// ScriptFunc 根据 cast 绑定的模板和参数生成脚本字节。
type ScriptFunc func(ctx Context, c *Cast, params Params) ([]byte, error)

// Casting 是一个策略提供的模板和脚本生成函数。
type Casting struct {
	Template *Template
	Script   ScriptFunc
}

// TxOut 是解锁脚本所花费的上一笔输出。
type TxOut struct {
	Txid     chainhash.Hash // 上一笔交易的 ID
	Script   []byte         // 上一笔输出的锁定脚本
	Satoshis int64          // 上一笔输出的金额
}

// Cast 是绑定到一个模板和一个脚本生成函数的运行时对象。
// 构造后除所属交易的索引绑定外不可变。
type Cast struct {
	kind     CastType
	template *Template
	script   ScriptFunc
	params   Params

	satoshis int64  // 锁定脚本：输出金额
	txOut    *TxOut // 解锁脚本：被花费的输出
	txOutNum uint32 // 解锁脚本：被花费的输出在其交易中的索引

	owner Context // 所属交易，由 Forge.AddInput 设置
	index int     // 在所属交易中的输入索引，未注册时为 -1
}

// NewCast 创建一个绑定到 casting 的 cast。casting 为 nil 时返回一个空白 cast，
// 其大小为 1，调用 Script 总是失败。
func NewCast(casting *Casting) *Cast {
	c := &Cast{params: Params{}, index: -1}
	if casting != nil {
		c.template = casting.Template
		c.script = casting.Script
	}
	return c
}

// Kind 返回 cast 的类型。
func (c *Cast) Kind() CastType {
	return c.kind
}

// Template 返回 cast 绑定的模板，空白 cast 返回 nil。
func (c *Cast) Template() *Template {
	return c.template
}

// Params 返回未被必需字段消耗的参数的拷贝。
func (c *Cast) Params() Params {
	return c.params.Clone()
}

// Satoshis 返回锁定脚本对应的输出金额。
func (c *Cast) Satoshis() int64 {
	return c.satoshis
}

// TxOut 返回解锁脚本所花费的输出，锁定脚本返回 nil。
func (c *Cast) TxOut() *TxOut {
	return c.txOut
}

// TxOutNum 返回被花费的输出在其交易中的索引。
func (c *Cast) TxOutNum() uint32 {
	return c.txOutNum
}

// Index 返回 cast 在所属交易中的输入索引，未注册时第二个返回值为 false。
func (c *Cast) Index() (int, bool) {
	return c.index, c.index >= 0
}

// Size 返回模板的字节长度：固定占位符按声明大小、动态占位符按当前参数求值、操作码按 1 计算。
// 没有模板的空白 cast 大小为 1。
func (c *Cast) Size() int {
	if c.template == nil {
		return 1
	}
	return c.template.Size(c.params)
}

// SerializeSize 返回脚本在序列化交易中占用的字节数，包括数据推送前缀和脚本长度的变长整数前缀。
func (c *Cast) SerializeSize() int {
	var n int
	if c.template != nil {
		n = c.template.ScriptSize(c.params)
	}
	return wire.VarIntSerializeSize(uint64(n)) + n
}

// Script 物化模板，返回脚本字节。params 与 cast 自身的参数合并，同名时以 params 为准。
// 没有绑定脚本函数的 cast 总是返回错误，绝不返回空脚本。
func (c *Cast) Script(ctx Context, params Params) ([]byte, error) {
	if c.script == nil {
		return nil, makeError(ErrBinding, "cast created with no script function")
	}
	return c.script(ctx, c, c.params.merge(params))
}

// networkOf 返回上下文的网络参数，没有上下文时默认主网。
func networkOf(ctx Context) *chaincfg.Params {
	if ctx != nil {
		if net := ctx.Network(); net != nil {
			return net
		}
	}
	return &chaincfg.MainNetParams
}

// compressedPubKeySize 是压缩公钥的字节长度。
const compressedPubKeySize = btcec.PubKeyBytesLenCompressed
