package txforge

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// Role 标识模板中占位符的角色。每个策略为自己的占位符角色提供填充函数。
type Role uint8

// 内置的占位符角色。策略可以使用更大的值定义自己的角色。
const (
	RoleNone       Role = iota // 字面操作码，不是占位符
	RolePubKeyHash             // 20 字节公钥哈希
	RoleSignature              // 交易格式的签名（DER + 签名哈希类型）
	RolePubKey                 // 33 字节压缩公钥
	RoleData                   // 任意数据载荷
)

var roleStrings = map[Role]string{
	RoleNone:       "none",
	RolePubKeyHash: "pubKeyHash",
	RoleSignature:  "sig",
	RolePubKey:     "pubKey",
	RoleData:       "data",
}

// String 返回角色名称。
func (r Role) String() string {
	if s, ok := roleStrings[r]; ok {
		return s
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// SizeFunc 根据 cast 绑定的参数计算占位符的字节长度。
// 返回负数属于策略错误，求值时会 panic。
type SizeFunc func(params Params) int

// Element 是模板中的一个元素：字面操作码，或者带有大小的命名占位符。
type Element struct {
	op     byte
	role   Role
	size   int
	sizeFn SizeFunc
}

// Op 返回一个字面操作码元素。
func Op(op byte) Element {
	return Element{op: op}
}

// Slot 返回一个固定大小的占位符元素。
func Slot(role Role, size int) Element {
	return Element{role: role, size: size}
}

// DynamicSlot 返回一个大小由构建参数决定的占位符元素。
func DynamicSlot(role Role, fn SizeFunc) Element {
	return Element{role: role, sizeFn: fn}
}

// IsPlaceholder 判断元素是否为占位符。
func (e Element) IsPlaceholder() bool {
	return e.role != RoleNone
}

// Opcode 返回字面操作码元素的操作码。
func (e Element) Opcode() byte {
	return e.op
}

// Role 返回占位符元素的角色。
func (e Element) Role() Role {
	return e.role
}

// Size 返回元素的字节长度：操作码为 1，占位符为固定大小或 SizeFunc 的结果。
// 动态大小为负数说明策略本身存在错误，此时直接 panic。
func (e Element) Size(params Params) int {
	switch {
	case !e.IsPlaceholder():
		return 1
	case e.sizeFn != nil:
		n := e.sizeFn(params)
		if n < 0 {
			panic(fmt.Sprintf("placeholder %s evaluated to negative size %d", e.role, n))
		}
		return n
	default:
		return e.size
	}
}

// pushedSize 返回元素作为规范数据推送写入脚本后的字节长度。
func (e Element) pushedSize(params Params) int {
	n := e.Size(params)
	if !e.IsPlaceholder() {
		return n
	}
	return pushPrefixSize(n) + n
}

// pushPrefixSize 返回推送 n 字节数据所需的操作码前缀长度。
func pushPrefixSize(n int) int {
	switch {
	case n < txscript.OP_PUSHDATA1:
		return 1
	case n <= 0xff:
		return 2
	case n <= 0xffff:
		return 3
	default:
		return 5
	}
}

// Template 是由字面操作码和占位符组成的有序序列，描述脚本的形状。
// 模板在构造后不可变，可以被多个 Cast 共享。
type Template struct {
	elements []Element
}

// NewTemplate 根据给定元素创建模板。
// 同一模板中的占位符角色必须唯一，固定大小必须为非负数。
func NewTemplate(elements ...Element) (*Template, error) {
	seen := make(map[Role]struct{}, len(elements))
	for i, e := range elements {
		if !e.IsPlaceholder() {
			continue
		}
		if _, ok := seen[e.role]; ok {
			return nil, makeError(ErrValidation, "template element %d: duplicate placeholder %s", i, e.role)
		}
		seen[e.role] = struct{}{}

		if e.sizeFn == nil && e.size < 0 {
			return nil, makeError(ErrValidation, "template element %d: placeholder %s has negative size %d", i, e.role, e.size)
		}
	}

	t := &Template{elements: make([]Element, len(elements))}
	copy(t.elements, elements)
	return t, nil
}

// MustTemplate 与 NewTemplate 相同，但在出错时 panic。用于初始化包级策略。
func MustTemplate(elements ...Element) *Template {
	t, err := NewTemplate(elements...)
	if err != nil {
		panic(err)
	}
	return t
}

// Elements 返回模板元素的拷贝。
func (t *Template) Elements() []Element {
	out := make([]Element, len(t.elements))
	copy(out, t.elements)
	return out
}

// Size 返回模板中所有元素的字节长度之和。
func (t *Template) Size(params Params) int {
	var total int
	for _, e := range t.elements {
		total += e.Size(params)
	}
	return total
}

// ScriptSize 返回模板物化后的脚本长度，每个占位符都包含其数据推送前缀。
func (t *Template) ScriptSize(params Params) int {
	var total int
	for _, e := range t.elements {
		total += e.pushedSize(params)
	}
	return total
}

// Filler 为一个占位符提供具体字节。
type Filler func() ([]byte, error)

// Fillers 是占位符角色到填充函数的显式映射。
type Fillers map[Role]Filler

// Fill 从左到右归约模板：字面操作码原样追加，占位符通过对应角色的填充函数取得字节后
// 以长度前缀加数据的形式追加。任何一步失败都不会返回部分脚本。
func (t *Template) Fill(params Params, fillers Fillers) ([]byte, error) {
	script := make([]byte, 0, t.ScriptSize(params))

	for _, e := range t.elements {
		if !e.IsPlaceholder() {
			script = append(script, e.op)
			continue
		}

		fill, ok := fillers[e.role]
		if !ok || fill == nil {
			return nil, makeError(ErrBinding, "no filler bound for placeholder %s", e.role)
		}
		data, err := fill()
		if err != nil {
			return nil, err
		}
		script = appendPush(script, data)
	}

	return script, nil
}

// appendPush 追加 data 的长度前缀和数据本身，前缀长度与 pushPrefixSize 一致。
// 与 txscript.ScriptBuilder.AddData 不同，单字节小整数不会被改写为 OP_1..OP_16，
// 也不限制单个元素的大小。
func appendPush(script, data []byte) []byte {
	n := len(data)
	switch {
	case n < txscript.OP_PUSHDATA1:
		script = append(script, byte(n))
	case n <= 0xff:
		script = append(script, txscript.OP_PUSHDATA1, byte(n))
	case n <= 0xffff:
		script = append(script, txscript.OP_PUSHDATA2)
		script = binary.LittleEndian.AppendUint16(script, uint16(n))
	default:
		script = append(script, txscript.OP_PUSHDATA4)
		script = binary.LittleEndian.AppendUint32(script, uint32(n))
	}
	return append(script, data...)
}
