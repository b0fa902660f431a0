// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package sdk is the HTTP client of the certificate store.
package sdk

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	"moul.io/http2curl"
)

const (
	certsEndpoint    = "certs"
	requestsEndpoint = "certs/requests"

	pemContentType = "application/x-pem-file"
)

// Config locates the HTTP API of a store.
type Config struct {
	URL             string
	Timeout         time.Duration
	TLSVerification bool
	CurlFlag        bool
}

// SDKError is an error returned by the HTTP API together with its status code.
type SDKError interface {
	errors.Error

	// StatusCode returns the HTTP status code of the response.
	StatusCode() int
}

// apiError aliases errors.Error so that embedding it does not create a field
// named Error, which would shadow the promoted Error method.
type apiError = errors.Error

type sdkError struct {
	apiError
	statusCode int
}

func (se *sdkError) StatusCode() int {
	return se.statusCode
}

var _ deed.Store = (*httpStore)(nil)

type httpStore struct {
	url      string
	client   *http.Client
	curlFlag bool
}

// NewStore returns a store that talks to the HTTP API at conf.URL.
func NewStore(conf Config) deed.Store {
	return &httpStore{
		url: strings.TrimSuffix(conf.URL, "/"),
		client: &http.Client{
			Timeout: conf.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !conf.TLSVerification,
				},
			},
		},
		curlFlag: conf.CurlFlag,
	}
}

func (hs *httpStore) SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) error {
	if csr == nil {
		return deed.ErrBadCertificateRequest
	}

	reqURL := fmt.Sprintf("%s/%s", hs.url, requestsEndpoint)
	headers := map[string]string{"Content-Type": pemContentType}
	_, err := hs.processRequest(ctx, http.MethodPost, reqURL, pki.EncodeRequest(csr), headers, http.StatusCreated)

	return err
}

func (hs *httpStore) GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error) {
	if err := deed.ValidateSubject(subject); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s/%s", hs.url, certsEndpoint, url.PathEscape(subject))
	body, err := hs.processRequest(ctx, http.MethodGet, reqURL, nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return pki.DecodeCertificate(body)
}

// processRequest creates and sends a new HTTP request, and checks for errors in the HTTP response.
// It then returns the response body and the associated error (if any).
func (hs *httpStore) processRequest(ctx context.Context, method, reqURL string, data []byte, headers map[string]string, expectedRespCodes ...int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if hs.curlFlag {
		curlCommand, err := http2curl.GetCurlCommand(req)
		if err != nil {
			return nil, err
		}
		log.Println(curlCommand.String())
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(deed.ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(deed.ErrConnection, err)
	}

	for _, code := range expectedRespCodes {
		if resp.StatusCode == code {
			return body, nil
		}
	}

	return nil, checkError(resp.StatusCode, body)
}

// checkError rebuilds the error chain encoded by the API so that sentinel
// errors can be matched with errors.Contains on the client side.
func checkError(statusCode int, body []byte) SDKError {
	var content struct {
		Err string `json:"error"`
		Msg string `json:"message"`
	}
	if err := json.Unmarshal(body, &content); err != nil || content.Msg == "" {
		return &sdkError{
			apiError:   errors.New(http.StatusText(statusCode)),
			statusCode: statusCode,
		}
	}

	var err error = errors.New(content.Msg)
	if content.Err != "" {
		err = errors.Wrap(err, errors.New(content.Err))
	}

	return &sdkError{
		apiError:   err.(errors.Error),
		statusCode: statusCode,
	}
}
