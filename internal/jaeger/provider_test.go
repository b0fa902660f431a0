// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package jaeger

import (
	"context"
	"net/url"
	"testing"

	"github.com/absmach/deed/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	cases := []struct {
		desc    string
		svcName string
		url     url.URL
		err     error
	}{
		{
			desc:    "provider with http exporter",
			svcName: "deed",
			url:     url.URL{Scheme: "http", Host: "localhost:4318", Path: "/v1/traces"},
		},
		{
			desc:    "provider without url",
			svcName: "deed",
			err:     errNoURL,
		},
		{
			desc:    "provider without service name",
			url:     url.URL{Scheme: "http", Host: "localhost:4318"},
			err:     errNoSvcName,
		},
		{
			desc:    "provider with unsupported scheme",
			svcName: "deed",
			url:     url.URL{Scheme: "udp", Host: "localhost:6831"},
			err:     errUnsupportedTraceURLScheme,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tp, err := NewProvider(context.Background(), tc.svcName, tc.url, "instance", 1.0)
			assert.True(t, errors.Contains(err, tc.err), "expected %v, got %v", tc.err, err)
			if tc.err != nil {
				return
			}
			require.NotNil(t, tp)
			assert.NoError(t, tp.Shutdown(context.Background()))
		})
	}
}
