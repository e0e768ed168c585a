/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package fileshare

import (
	"bytes"
	"fmt"
	"io"

	"github.com/abcretailors/retailstore/errors"
)

// sizedWriter buffers exactly size bytes and hands them to commit on Close.
type sizedWriter struct {
	buf    bytes.Buffer
	size   int64
	commit func(data []byte) error
	failed bool
	closed bool
}

// NewSizedWriter returns the writer backends hand out from CreateFile.
// Writing past size fails, and Close commits only a complete file.
func NewSizedWriter(size int64, commit func(data []byte) error) io.WriteCloser {
	return &sizedWriter{size: size, commit: commit}
}

func (w *sizedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.NewValidationError("file", "write after close")
	}
	remaining := w.size - int64(w.buf.Len())
	if int64(len(p)) > remaining {
		w.failed = true
		n, _ := w.buf.Write(p[:remaining])
		return n, errors.NewValidationError("size", fmt.Sprintf("content exceeds the declared %d bytes", w.size))
	}
	return w.buf.Write(p)
}

func (w *sizedWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.failed {
		return errors.NewValidationError("size", fmt.Sprintf("content exceeds the declared %d bytes", w.size))
	}
	if int64(w.buf.Len()) != w.size {
		return errors.NewValidationError("size", fmt.Sprintf("declared %d bytes, %d written", w.size, w.buf.Len()))
	}
	return w.commit(w.buf.Bytes())
}
