package server

import (
	"io"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/tradeloom/loom/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger writing to the configured file, rotating it
// when it grows too big. When no file is configured, out is used.
func NewLogger(conf LogConfig, out io.Writer) (log.Logger, error) {
	if conf.File != "" {
		out = &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
		}
	}
	logger := log.NewTMLogger(log.NewSyncWriter(out))

	level := conf.Level
	if level == "" {
		level = "info"
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}
