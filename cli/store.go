// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
)

// Authority is a local certificate store the admin commands operate on.
type Authority = deed.Authority

// Initializer creates a new local store for issuer.
type Initializer func(issuer string) (Authority, error)

var (
	errNoStore        = errors.New("no certificate store configured, set --path or --url")
	errLocalStoreOnly = errors.New("command requires a local store, set --path")
	errNoInitializer  = errors.New("store initialization requires a local path, set --path")
)

// Keep store handles in global vars.
var (
	store       deed.Store
	authority   Authority
	initializer Initializer
	failed      bool
)

// SetStore sets the store used by the certificate commands.
func SetStore(s deed.Store) {
	store = s
	authority = nil
}

// SetAuthority sets the local store used by both the admin and the
// certificate commands.
func SetAuthority(a Authority) {
	store = a
	authority = a
}

// SetInitializer sets the function "ca init" creates a store with.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// Failed reports whether a command has logged an error.
func Failed() bool {
	return failed
}
