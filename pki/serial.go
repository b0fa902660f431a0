// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package pki

import (
	"crypto/md5"
	"encoding/binary"
	"math/big"
)

// GenSerial derives the serial number of subject's certificate from the
// first four bytes of the MD5 digest of the name, read as a big-endian
// signed integer and made non-negative. Re-signing a subject always yields
// the same serial.
func GenSerial(subject string) int64 {
	sum := md5.Sum([]byte(subject))
	n := int64(int32(binary.BigEndian.Uint32(sum[:4])))
	if n < 0 {
		return -n
	}
	return n
}

// SerialNumber returns GenSerial(subject) as a certificate serial number.
func SerialNumber(subject string) *big.Int {
	return big.NewInt(GenSerial(subject))
}
