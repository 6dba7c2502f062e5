// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonjson

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// detectAndTranscode sniffs a byte-order-mark from the front of r and
// returns a reader that yields plain UTF-8, consuming the BOM in the
// process. With no BOM present, the input is assumed to already be UTF-8
// and is returned unwrapped.
func detectAndTranscode(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReaderSize(r, 4096)
	lead, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case len(lead) >= 4 && lead[0] == 0xFF && lead[1] == 0xFE && lead[2] == 0x00 && lead[3] == 0x00:
		br.Discard(4)
		return bufio.NewReader(newUTF32Reader(br, false)), nil
	case len(lead) >= 4 && lead[0] == 0x00 && lead[1] == 0x00 && lead[2] == 0xFE && lead[3] == 0xFF:
		br.Discard(4)
		return bufio.NewReader(newUTF32Reader(br, true)), nil
	case len(lead) >= 3 && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF:
		br.Discard(3)
		return br, nil
	case len(lead) >= 2 && lead[0] == 0xFF && lead[1] == 0xFE:
		br.Discard(2)
		return bufio.NewReader(transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())), nil
	case len(lead) >= 2 && lead[0] == 0xFE && lead[1] == 0xFF:
		br.Discard(2)
		return bufio.NewReader(transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())), nil
	default:
		return br, nil
	}
}
