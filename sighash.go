package txforge

import (
	"github.com/btcsuite/btcd/txscript"
)

// SigHashForkID 是 BCH/BSV 的签名哈希分叉标志。设置后签名使用 BIP143 风格的摘要，
// 承诺被花费输出的金额。
const SigHashForkID txscript.SigHashType = 0x40

// ScriptFlags 是控制签名行为的脚本标志位。
type ScriptFlags uint32

const (
	// ScriptEnableSighashForkID 允许使用 SigHashForkID 摘要签名。
	ScriptEnableSighashForkID ScriptFlags = 1 << 16
)

// 解锁脚本签名时的默认值。
const (
	DefaultSigHashType = txscript.SigHashAll | SigHashForkID
	DefaultScriptFlags = ScriptEnableSighashForkID
)

// usesForkID 判断签名是否应使用分叉摘要。
func usesForkID(hashType txscript.SigHashType, flags ScriptFlags) bool {
	return flags&ScriptEnableSighashForkID != 0 && hashType&SigHashForkID != 0
}
