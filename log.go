package txforge

import (
	"time"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btclog"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// SetLog 按选项配置全局日志：彩色控制台输出，设置了 LogFile 时再加一个按大小轮转的 JSON 文件钩子
func SetLog(opt *Options) error {
	if opt == nil {
		opt = DefaultOptions()
	}

	stdout := colorable.NewColorableStdout()
	logrus.SetLevel(opt.LogLevel)
	logrus.SetOutput(stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC822,
	})

	// btcd 脚本引擎使用 btclog，和 logrus 共用控制台输出和级别
	scriptLog := btclog.NewBackend(stdout).Logger("TXSC")
	scriptLog.SetLevel(btclogLevel(opt.LogLevel))
	txscript.UseLogger(scriptLog)

	if opt.LogFile == "" {
		return nil
	}

	// logrus 的回调钩子
	rotateFileHook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   opt.LogFile,
		MaxSize:    50, // 文件最大50M
		MaxBackups: 3,
		MaxAge:     28, // 存储28天
		Level:      opt.LogLevel,
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		},
	})
	if err != nil {
		return err
	}
	logrus.AddHook(rotateFileHook)
	return nil
}

// btclogLevel 把 logrus 级别转换为 btclog 级别
func btclogLevel(level logrus.Level) btclog.Level {
	switch level {
	case logrus.TraceLevel:
		return btclog.LevelTrace
	case logrus.DebugLevel:
		return btclog.LevelDebug
	case logrus.InfoLevel:
		return btclog.LevelInfo
	case logrus.WarnLevel:
		return btclog.LevelWarn
	case logrus.ErrorLevel:
		return btclog.LevelError
	default:
		return btclog.LevelCritical
	}
}
