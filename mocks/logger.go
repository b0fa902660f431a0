// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"bytes"
	"io"
	"log/slog"
)

// NewMock returns wrapped slog logger mock.
func NewMock() *slog.Logger {
	buf := &bytes.Buffer{}

	return slog.New(slog.NewJSONHandler(buf, nil))
}

// NewBufferedMock returns a logger writing JSON entries to w.
func NewBufferedMock(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, nil))
}
