package strainpairs

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the data type of a stream by checking its
// first bytes against a set of known signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return DataTypeInvalid, err
	}
	buff = buff[:n]

Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser sniffs the stream, rewinds it, and wraps it in the
// matching decompressor. Uncompressed input is returned as-is. Closing the
// result closes the underlying stream.
func MaybeDecompressReadCloser(rs ReadSeekCloser) (io.ReadCloser, error) {
	dt, err := DetectDataType(rs)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, pfx.Err(err)
	}

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(rs)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, rs}}, nil
	case DataTypeZip:
		// Only the first member of a zip archive is read.
		zr := zipstream.NewReader(rs)
		if _, err := zr.Next(); err != nil {
			return nil, pfx.Err(err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{rs}}, nil
	case DataTypeBZip2:
		return &stackedCloser{Reader: bzip2.NewReader(rs), closers: []io.Closer{rs}}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(rs, 0)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &stackedCloser{Reader: reader, closers: []io.Closer{rs}}, nil
	case DataTypeZ:
		return nil, pfx.Err(fmt.Errorf("unix compress (.Z) streams are not supported; recompress with gzip"))
	}

	return rs, nil
}

// stackedCloser closes a decompressor and then the stream beneath it.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *stackedCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
