package txforge

import (
	"github.com/sirupsen/logrus"
)

// 必需参数名称及其别名。
const (
	ParamSatoshis    = "satoshis"
	ParamAmount      = "amount"
	ParamTxid        = "txid"
	ParamScript      = "script"
	ParamVout        = "vout"
	ParamOutputIndex = "outputIndex"
	ParamTxOutNum    = "txOutNum"
)

// requirement 描述一个必需字段及其按优先级排列的别名。
type requirement struct {
	name    string
	aliases []string
}

// names 返回字段名及其所有别名，字段名优先。
func (r requirement) names() []string {
	return append([]string{r.name}, r.aliases...)
}

// lockingRequirements 是锁定脚本的必需字段。
var lockingRequirements = []requirement{
	{name: ParamSatoshis},
}

// unlockingRequirements 是解锁脚本的必需字段，按校验顺序排列：先缺失的字段先报告。
var unlockingRequirements = []requirement{
	{name: ParamTxid},
	{name: ParamScript},
	{name: ParamSatoshis, aliases: []string{ParamAmount}},
	{name: ParamVout, aliases: []string{ParamOutputIndex, ParamTxOutNum}},
}

// resolveParams 按顺序校验必需字段，返回以规范字段名为键的取值，以及其余未被识别的参数。
// 字段名和所有别名都会被消耗，不会出现在其余参数中。
func resolveParams(kind CastType, reqs []requirement, params Params) (map[string]interface{}, Params, error) {
	resolved := make(map[string]interface{}, len(reqs))
	consumed := make(map[string]struct{})

	for _, req := range reqs {
		names := req.names()
		v, _, ok := params.first(names...)
		if !ok {
			return nil, nil, requiredParamError(kind, req.name)
		}
		resolved[req.name] = v
		for _, name := range names {
			consumed[name] = struct{}{}
		}
	}

	rest := make(Params, len(params))
	for k, v := range params {
		if _, ok := consumed[k]; !ok {
			rest[k] = v
		}
	}
	return resolved, rest, nil
}

// LockingScript 用策略的锁定脚本定义创建一个 cast。
// 必需参数 satoshis 为输出金额，其余参数原样保存在 cast 的参数中供策略使用（例如 address）。
func LockingScript(s LockingStrategy, params Params) (*Cast, error) {
	if s == nil {
		return nil, makeError(ErrValidation, "Cast type '%s' requires a strategy", LockingType)
	}
	casting := s.LockingScript()
	if casting == nil {
		return nil, makeError(ErrValidation, "strategy %s has no %s", s.Name(), LockingType)
	}

	resolved, rest, err := resolveParams(LockingType, lockingRequirements, params)
	if err != nil {
		return nil, err
	}

	satoshis, err := toSatoshis(resolved[ParamSatoshis])
	if err != nil {
		return nil, makeError(ErrValidation, "Cast type '%s' has invalid '%s' param: %v",
			LockingType, ParamSatoshis, err)
	}

	c := NewCast(casting)
	c.kind = LockingType
	c.params = rest
	c.satoshis = satoshis

	logrus.WithFields(logrus.Fields{
		"strategy": s.Name(),
		"satoshis": satoshis,
	}).Debug("created locking cast")

	return c, nil
}

// UnlockingScript 用策略的解锁脚本定义创建一个 cast。
// 必需参数依次为 txid、script、satoshis（别名 amount）和 vout（别名 outputIndex、txOutNum），
// 第一个缺失的字段决定返回的错误。其余参数原样保存在 cast 的参数中。
func UnlockingScript(s UnlockingStrategy, params Params) (*Cast, error) {
	if s == nil {
		return nil, makeError(ErrValidation, "Cast type '%s' requires a strategy", UnlockingType)
	}
	casting := s.UnlockingScript()
	if casting == nil {
		return nil, makeError(ErrValidation, "strategy %s has no %s", s.Name(), UnlockingType)
	}

	resolved, rest, err := resolveParams(UnlockingType, unlockingRequirements, params)
	if err != nil {
		return nil, err
	}

	invalid := func(name string, err error) error {
		return makeError(ErrValidation, "Cast type '%s' has invalid '%s' param: %v",
			UnlockingType, name, err)
	}

	txid, err := toHash(resolved[ParamTxid])
	if err != nil {
		return nil, invalid(ParamTxid, err)
	}
	script, err := toScriptBytes(resolved[ParamScript])
	if err != nil {
		return nil, invalid(ParamScript, err)
	}
	satoshis, err := toSatoshis(resolved[ParamSatoshis])
	if err != nil {
		return nil, invalid(ParamSatoshis, err)
	}
	vout, err := toOutputIndex(resolved[ParamVout])
	if err != nil {
		return nil, invalid(ParamVout, err)
	}

	c := NewCast(casting)
	c.kind = UnlockingType
	c.params = rest
	c.txOut = &TxOut{
		Txid:     txid,
		Script:   script,
		Satoshis: satoshis,
	}
	c.txOutNum = vout

	logrus.WithFields(logrus.Fields{
		"strategy": s.Name(),
		"txid":     txid.String(),
		"vout":     vout,
	}).Debug("created unlocking cast")

	return c, nil
}
