package txforge

import (
	"fmt"
	"sort"
	"sync"
)

// Strategy 是一种脚本模式（例如 P2PKH）。策略是无状态的，可以被任意多个 cast 复用。
// 策略至少要实现 LockingStrategy 或 UnlockingStrategy 中的一个能力。
type Strategy interface {
	Name() string
}

// LockingStrategy 是提供锁定脚本定义的策略。
type LockingStrategy interface {
	Strategy
	LockingScript() *Casting
}

// UnlockingStrategy 是提供解锁脚本定义的策略。
type UnlockingStrategy interface {
	Strategy
	UnlockingScript() *Casting
}

// Registry 按名称保存已注册的策略。能力检查在注册时完成，而不是在创建 cast 时。
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry 创建注册表并注册给定的策略。
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{strategies: make(map[string]Strategy)}
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// checkCasting 检查策略提供的脚本定义是否完整。
func checkCasting(name string, kind CastType, casting *Casting) error {
	switch {
	case casting == nil:
		return fmt.Errorf("strategy %s: %s definition is nil", name, kind)
	case casting.Template == nil:
		return fmt.Errorf("strategy %s: %s has no template", name, kind)
	case casting.Script == nil:
		return fmt.Errorf("strategy %s: %s has no script function", name, kind)
	}
	return nil
}

// Register 注册一个策略。策略必须至少提供一个完整的锁定或解锁脚本定义，且名称不能重复。
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return fmt.Errorf("cannot register nil strategy")
	}
	name := s.Name()
	if name == "" {
		return fmt.Errorf("cannot register strategy with empty name")
	}

	var capable bool
	if ls, ok := s.(LockingStrategy); ok {
		if err := checkCasting(name, LockingType, ls.LockingScript()); err != nil {
			return err
		}
		capable = true
	}
	if us, ok := s.(UnlockingStrategy); ok {
		if err := checkCasting(name, UnlockingType, us.UnlockingScript()); err != nil {
			return err
		}
		capable = true
	}
	if !capable {
		return fmt.Errorf("strategy %s provides neither %s nor %s", name, LockingType, UnlockingType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.strategies[name]; ok {
		return fmt.Errorf("strategy %s already registered", name)
	}
	r.strategies[name] = s
	return nil
}

// Lookup 按名称返回已注册的策略。
func (r *Registry) Lookup(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[name]
	return s, ok
}

// Names 返回所有已注册策略的名称，按字母排序。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LockingScript 用名为 name 的策略创建锁定脚本 cast。
func (r *Registry) LockingScript(name string, params Params) (*Cast, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, makeError(ErrValidation, "unknown strategy %s", name)
	}
	ls, ok := s.(LockingStrategy)
	if !ok {
		return nil, makeError(ErrValidation, "strategy %s has no %s", name, LockingType)
	}
	return LockingScript(ls, params)
}

// UnlockingScript 用名为 name 的策略创建解锁脚本 cast。
func (r *Registry) UnlockingScript(name string, params Params) (*Cast, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, makeError(ErrValidation, "unknown strategy %s", name)
	}
	us, ok := s.(UnlockingStrategy)
	if !ok {
		return nil, makeError(ErrValidation, "strategy %s has no %s", name, UnlockingType)
	}
	return UnlockingScript(us, params)
}
