// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package deed_test

import (
	"testing"

	"github.com/absmach/deed"
	"github.com/stretchr/testify/assert"
)

func TestValidateSubject(t *testing.T) {
	cases := []struct {
		desc    string
		subject string
		err     error
	}{
		{desc: "plain subject", subject: "alice"},
		{desc: "subject with inner space", subject: "Root CA"},
		{desc: "unicode subject", subject: "ünïcødé"},
		{desc: "empty subject", subject: "", err: deed.ErrMalformedSubject},
		{desc: "hidden subject", subject: ".alice", err: deed.ErrMalformedSubject},
		{desc: "path traversal", subject: "../alice", err: deed.ErrMalformedSubject},
		{desc: "backslash", subject: `a\b`, err: deed.ErrMalformedSubject},
		{desc: "leading space", subject: " alice", err: deed.ErrMalformedSubject},
		{desc: "trailing space", subject: "alice ", err: deed.ErrMalformedSubject},
		{desc: "trailing newline", subject: "alice\n", err: deed.ErrMalformedSubject},
		{desc: "inner tab", subject: "al\tice", err: deed.ErrMalformedSubject},
		{desc: "NUL byte", subject: "al\x00ice", err: deed.ErrMalformedSubject},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.err, deed.ValidateSubject(tc.subject))
		})
	}
}
