// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/absmach/deed/pkg/errors"

var (
	// ErrMissingSubject indicates a request without a subject name.
	ErrMissingSubject = errors.New("missing subject")

	// ErrEmptyBody indicates a request without a body.
	ErrEmptyBody = errors.New("empty request body")

	// ErrBodyTooLarge indicates a request body over the accepted size.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")
)
