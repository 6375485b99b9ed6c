package txforge

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

// ForgeFunc 按注入的选项创建新的 Forge
type ForgeFunc func() (*Forge, error)

// Module 向 fx 应用提供策略注册表和 Forge 构造函数。
// 内置 P2PKH 和 OpReturn 策略，其它策略可以通过 "strategies" 值组提供。
var Module = fx.Module("txforge",
	fx.Provide(NewForgeService),
)

// AsStrategy 将策略构造函数标注为 "strategies" 值组的成员
func AsStrategy(f interface{}) interface{} {
	return fx.Annotate(
		f,
		fx.As(new(Strategy)),
		fx.ResultTags(`group:"strategies"`),
	)
}

type NewForgeServiceInput struct {
	fx.In

	Opt        *Options   `optional:"true"`    // 选项配置，缺省时使用 DefaultOptions
	Strategies []Strategy `group:"strategies"` // 额外的策略
}

type NewForgeServiceOutput struct {
	fx.Out

	Registry *Registry // 策略注册表
	NewForge ForgeFunc // Forge 构造函数
}

// NewForgeService 检查选项、注册策略，并在应用启动时初始化日志
func NewForgeService(lc fx.Lifecycle, input NewForgeServiceInput) (out NewForgeServiceOutput, err error) {
	opt := input.Opt
	if opt == nil {
		opt = DefaultOptions()
	}
	if err := opt.CheckAndSetOptions(); err != nil {
		return out, err
	}

	strategies := append([]Strategy{P2PKH, OpReturn}, input.Strategies...)
	registry, err := NewRegistry(strategies...)
	if err != nil {
		logrus.Errorf("[NewForgeService] 注册策略失败:\t%v", err)
		return out, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return SetLog(opt)
		},
	})

	out.Registry = registry
	out.NewForge = func() (*Forge, error) {
		return NewForge(opt)
	}
	return out, nil
}
