package txforge

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// TestModule 测试 fx 模块提供的注册表和 Forge 构造函数。
func TestModule(t *testing.T) {
	opt := DefaultOptions()
	opt.FeeRate = 1

	var (
		registry *Registry
		newForge ForgeFunc
	)
	app := fxtest.New(t,
		Module,
		fx.Supply(opt),
		fx.Provide(AsStrategy(func() lockingOnly { return lockingOnly{casting: testCasting} })),
		fx.Populate(&registry, &newForge),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.Equal(t, []string{"locking-only", "opreturn", "p2pkh"}, registry.Names())

	forge, err := newForge()
	require.NoError(t, err)
	require.Equal(t, 10, forge.EstimateSize())
	require.Equal(t, int64(10), forge.EstimateFee())
}

// TestModuleDefaults 测试未提供选项时使用默认配置。
func TestModuleDefaults(t *testing.T) {
	var newForge ForgeFunc
	app := fxtest.New(t, Module, fx.Populate(&newForge))
	app.RequireStart()
	defer app.RequireStop()

	forge, err := newForge()
	require.NoError(t, err)
	require.Equal(t, "mainnet", forge.Network().Name)
}

// TestModuleDuplicateStrategy 测试重复的策略名称导致应用启动失败。
func TestModuleDuplicateStrategy(t *testing.T) {
	var registry *Registry
	app := fx.New(
		Module,
		fx.Provide(AsStrategy(func() opReturn { return OpReturn })),
		fx.Populate(&registry),
		fx.NopLogger,
	)
	require.Error(t, app.Err())
}
