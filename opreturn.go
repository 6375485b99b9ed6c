package txforge

import (
	"github.com/btcsuite/btcd/txscript"
)

// ParamData 是 OP_RETURN 数据载荷的参数名称。
const ParamData = "data"

// OpReturn 是不可花费的数据输出策略，只提供锁定脚本：OP_FALSE OP_RETURN <data>
// data 应在 LockingScript 创建 cast 时提供：数据占位符的大小只按 cast 绑定的参数计算，
// 在 Script 调用时才传入的 data 仍会写入脚本，但 Size 和 SerializeSize 不包含它。
var OpReturn = opReturn{}

type opReturn struct{}

var opReturnLocking = &Casting{
	Template: MustTemplate(
		Op(txscript.OP_FALSE),
		Op(txscript.OP_RETURN),
		DynamicSlot(RoleData, func(params Params) int {
			data, _ := toDataBytes(params[ParamData])
			return len(data)
		}),
	),
	Script: opReturnLockingScript,
}

// Name 返回策略名称。
func (opReturn) Name() string { return "opreturn" }

// LockingScript 返回数据输出的锁定脚本定义。
func (opReturn) LockingScript() *Casting { return opReturnLocking }

func opReturnLockingScript(_ Context, c *Cast, params Params) ([]byte, error) {
	data, ok := toDataBytes(params[ParamData])
	if !ok {
		return nil, makeError(ErrValidation, "OP_RETURN %s requires data", LockingType)
	}

	return c.template.Fill(params, Fillers{
		RoleData: func() ([]byte, error) { return data, nil },
	})
}
