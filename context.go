/*
Package loom defines the interfaces to tie together the subpackages of a
loom application, with the few implementations small enough to live
next to them.

Block data travels from the application to every decorator and handler
in a context.Context. For each value this package provides a setter and
a getter:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (T, bool)

Setters for block data (header, height, chain id) panic when the value
is already present so that no handler can replace it.
*/
package loom

import (
	"context"
	"regexp"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is the standard context. Block data is attached with the
// With* functions of this package.
type Context = context.Context

type ctxKey int

const (
	keyHeader ctxKey = iota
	keyHeight
	keyChainID
	keyLogger
)

var (
	// DefaultLogger is returned by GetLogger when no logger was set.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID reports whether the chain id has 6 to 20
	// alphanumeric, underscore or dash characters.
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

func withOnce(ctx Context, key ctxKey, val interface{}, name string) Context {
	if ctx.Value(key) != nil {
		panic(name + " already set")
	}
	return context.WithValue(ctx, key, val)
}

// WithHeader attaches the block header.
func WithHeader(ctx Context, header abci.Header) Context {
	return withOnce(ctx, keyHeader, header, "header")
}

// GetHeader returns the block header, if set.
func GetHeader(ctx Context) (abci.Header, bool) {
	h, ok := ctx.Value(keyHeader).(abci.Header)
	return h, ok
}

// WithHeight attaches the block height.
func WithHeight(ctx Context, height int64) Context {
	return withOnce(ctx, keyHeight, height, "height")
}

// GetHeight returns the block height, if set.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(keyHeight).(int64)
	return h, ok
}

// WithChainID attaches the chain id. It panics on an invalid id.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic("invalid chain id " + chainID)
	}
	return withOnce(ctx, keyChainID, chainID, "chain id")
}

// GetChainID returns the chain id. The application sets it on every
// context, so a missing id panics.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(keyChainID).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

// WithLogger attaches a logger, replacing any previous one.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// WithLogInfo attaches a child of the current logger that carries the
// given key-value pairs.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger returns the attached logger or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(keyLogger).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}
