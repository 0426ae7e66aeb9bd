//go:build unit || e2e

package remotecart_test

import (
	"io"
	"log/slog"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var (
	discard         = slog.New(slog.NewTextHandler(io.Discard, nil))
	decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
)
