package strainpairs

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// GSReadSeekCloser decorates a Google Storage object handle with io.Reader,
// io.Seeker and io.Closer. Derived from
// https://github.com/googleapis/google-cloud-go/issues/1124#issuecomment-419070541
type GSReadSeekCloser struct {
	*storage.ObjectHandle
	Context context.Context
	Size    int64
	r       *storage.Reader
	pos     int64 // absolute position in the object
}

func (s *GSReadSeekCloser) Read(buf []byte) (int, error) {
	var err error
	if s.r == nil {
		s.r, err = s.NewRangeReader(s.Context, s.pos, -1)
		if err != nil {
			return 0, err
		}
	}
	n, err := s.r.Read(buf)
	s.pos += int64(n)

	return n, err
}

// Seek cannot move an open range reader. Instead the current reader is dropped
// and the next Read opens a new one at the requested offset.
func (s *GSReadSeekCloser) Seek(offset int64, whence int) (int64, error) {
	var newPos int64

	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = s.pos + offset
	case io.SeekEnd:
		newPos = s.Size + offset
	default:
		return s.pos, fmt.Errorf("io.Seeker 'whence' value %d is not implemented", whence)
	}

	if newPos < 0 {
		return s.pos, fmt.Errorf("seek to negative position %d", newPos)
	}

	if err := s.Close(); err != nil {
		return s.pos, err
	}
	s.pos = newPos

	return s.pos, nil
}

// Close releases the current range reader, if any.
func (s *GSReadSeekCloser) Close() error {
	if s.r == nil {
		return nil
	}
	err := s.r.Close()
	s.r = nil

	return err
}

// SplitGSPath splits gs://bucket/some/object into its bucket and object name.
func SplitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// IsGSPath reports whether path points at Google Storage.
func IsGSPath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// MaybeOpenSeekerFromGoogleStorage opens path from Google Storage if it is a
// gs:// path and a client is available, or from the local filesystem
// otherwise. The size of the object is returned alongside the reader.
func MaybeOpenSeekerFromGoogleStorage(ctx context.Context, path string, client *storage.Client) (ReadSeekCloser, int64, error) {
	if client != nil && IsGSPath(path) {
		bucketName, pathName, err := SplitGSPath(path)
		if err != nil {
			return nil, 0, pfx.Err(err)
		}

		handle := client.Bucket(bucketName).Object(pathName)

		// Make a hard call to get the filesize
		attrs, err := handle.Attrs(ctx)
		if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return &GSReadSeekCloser{
			ObjectHandle: handle,
			Context:      ctx,
			Size:         attrs.Size,
		}, attrs.Size, nil
	}

	path, err := ExpandHome(path)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, fstat.Size(), nil
}

// MaybeCreateOnGoogleStorage returns a writer for path, on Google Storage if
// it is a gs:// path and a client is available, or on the local filesystem
// otherwise. For Google Storage the object only exists once Close succeeds.
func MaybeCreateOnGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.WriteCloser, error) {
	if client != nil && IsGSPath(path) {
		bucketName, pathName, err := SplitGSPath(path)
		if err != nil {
			return nil, pfx.Err(err)
		}

		w := client.Bucket(bucketName).Object(pathName).NewWriter(ctx)
		w.ContentType = "text/csv"

		return w, nil
	}

	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	return os.Create(path)
}
