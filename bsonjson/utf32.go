// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonjson

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// utf32Reader transcodes a UTF-32 byte stream (4 bytes per code point, in
// either byte order) to UTF-8 on the fly. No dependency in this module's
// stack offers a UTF-32 transcoder — golang.org/x/text stops at UTF-16 —
// so this is the one place that falls back to a hand-rolled,
// stdlib-only implementation (see DESIGN.md).
type utf32Reader struct {
	src       *bufio.Reader
	bigEndian bool
	pending   []byte
}

// newUTF32Reader wraps src, which must already have any byte-order-mark
// consumed, and decodes the remaining 4-byte code points as UTF-8.
func newUTF32Reader(src *bufio.Reader, bigEndian bool) io.Reader {
	return &utf32Reader{src: src, bigEndian: bigEndian}
}

// Read implements io.Reader.
func (r *utf32Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) > 0 {
			c := copy(p[n:], r.pending)
			r.pending = r.pending[c:]
			n += c
			continue
		}
		var quad [4]byte
		if _, err := io.ReadFull(r.src, quad[:]); err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		var cp uint32
		if r.bigEndian {
			cp = uint32(quad[0])<<24 | uint32(quad[1])<<16 | uint32(quad[2])<<8 | uint32(quad[3])
		} else {
			cp = uint32(quad[3])<<24 | uint32(quad[2])<<16 | uint32(quad[1])<<8 | uint32(quad[0])
		}
		if cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			cp = utf8.RuneError
		}
		var buf [utf8.UTFMax]byte
		w := utf8.EncodeRune(buf[:], rune(cp))
		c := copy(p[n:], buf[:w])
		n += c
		if c < w {
			r.pending = append([]byte(nil), buf[c:w]...)
		}
	}
	return n, nil
}
