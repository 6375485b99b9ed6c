package txforge

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"
)

// Options 是创建 Forge 时使用的配置
type Options struct {
	Network         *chaincfg.Params // 解析地址时使用的网络参数
	TxVersion       int32            // 交易版本号
	LockTime        uint32           // 交易锁定时间
	RequireStandard bool             // 是否要求所有锁定脚本都是标准脚本
	FeeRate         float64          // 每字节手续费（聪）

	LogLevel logrus.Level // 日志级别
	LogFile  string       // 日志文件路径，为空时只输出到控制台
}

// DefaultOptions 返回一组推荐的默认选项
func DefaultOptions() *Options {
	return &Options{
		Network:         &chaincfg.MainNetParams,
		TxVersion:       wire.TxVersion,
		LockTime:        0,
		RequireStandard: true,
		FeeRate:         0.5,
		LogLevel:        logrus.InfoLevel,
	}
}

// networks 是 BuildNetwork 支持的网络名称
var networks = map[string]*chaincfg.Params{
	chaincfg.MainNetParams.Name:       &chaincfg.MainNetParams,
	chaincfg.TestNet3Params.Name:      &chaincfg.TestNet3Params,
	chaincfg.RegressionNetParams.Name: &chaincfg.RegressionNetParams,
	chaincfg.SimNetParams.Name:        &chaincfg.SimNetParams,
}

// BuildNetwork 按名称设置网络参数（mainnet、testnet3、regtest、simnet）
func (opt *Options) BuildNetwork(name string) error {
	net, ok := networks[name]
	if !ok {
		return fmt.Errorf("unknown network %q", name)
	}
	opt.Network = net
	return nil
}

// CheckAndSetOptions 检查选项，并为缺失的值补上默认值
func (opt *Options) CheckAndSetOptions() error {
	if opt.Network == nil {
		opt.Network = &chaincfg.MainNetParams
	}
	if opt.TxVersion < 1 {
		return fmt.Errorf("invalid transaction version %d", opt.TxVersion)
	}
	if opt.FeeRate < 0 {
		return fmt.Errorf("negative fee rate %v", opt.FeeRate)
	}
	return nil
}
