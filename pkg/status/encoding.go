// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"bytes"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrDecode is returned when a file is not valid text in any supported encoding
	ErrDecode = errors.Base("undecodable content")

	// ErrBinary is returned when a file looks like a binary format
	ErrBinary = errors.Base("binary content")
)

// 🔤 Encoding is the on-disk text encoding of a file. Files are written back
// in the encoding they were read with.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8-bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniff window used by filetype
const sniffLen = 262

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		return nil
	}
}

// 🔍 Decode detects the encoding of data and returns its text
func Decode(data []byte) (string, Encoding, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		body := data[len(bomUTF8):]
		if !utf8.Valid(body) {
			return "", EncodingUTF8BOM, errors.Errorf("invalid utf-8 after byte order mark: %w", ErrDecode)
		}
		return string(body), EncodingUTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data, EncodingUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data, EncodingUTF16BE)
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		return "", EncodingUTF8, errors.Errorf("detected %s: %w", kind.MIME.Value, ErrBinary)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", EncodingUTF8, errors.Errorf("found NUL byte: %w", ErrBinary)
	}
	if !utf8.Valid(data) {
		return "", EncodingUTF8, errors.Errorf("invalid utf-8: %w", ErrDecode)
	}
	return string(data), EncodingUTF8, nil
}

func decodeUTF16(data []byte, enc Encoding) (string, Encoding, error) {
	out, err := enc.codec().NewDecoder().Bytes(data)
	if err != nil {
		return "", enc, errors.Errorf("decoding %s (%v): %w", enc, err, ErrDecode)
	}
	return string(out), enc, nil
}

// 📦 Encode converts text back to bytes in the given encoding
func Encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(text), nil
	case EncodingUTF8BOM:
		out := make([]byte, 0, len(bomUTF8)+len(text))
		out = append(out, bomUTF8...)
		return append(out, text...), nil
	case EncodingUTF16LE, EncodingUTF16BE:
		out, err := enc.codec().NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, errors.Errorf("encoding %s: %w", enc, err)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unknown encoding %d", int(enc))
	}
}
