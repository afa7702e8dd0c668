package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger New builds.
type Options struct {
	Dir   string // directory holding the daily-rotated log files
	Level zapcore.Level
}

// New builds a *zap.Logger writing the fixed TSV record format to
// dir/pane-YYYY-MM-DD.log, with every entry at ErrorLevel or above
// additionally duplicated to dir/pane-errors-YYYY-MM-DD.log via
// zapcore.NewTee, matching spec.md's ambient logging contract.
func New(opts Options) (*zap.Logger, error) {
	mainFile, err := newDailyFile(opts.Dir, "pane")
	if err != nil {
		return nil, err
	}
	errFile, err := newDailyFile(opts.Dir, "pane-errors")
	if err != nil {
		return nil, err
	}

	encoder := NewTSVEncoder()
	levelEnabler := zap.NewAtomicLevelAt(opts.Level)

	mainCore := zapcore.NewCore(encoder, zapcore.AddSync(mainFile), levelEnabler)
	errCore := zapcore.NewCore(encoder, zapcore.AddSync(errFile), zapcore.ErrorLevel)
	core := zapcore.NewTee(mainCore, errCore)

	return zap.New(core), nil
}
