// Package archive extracts class files from the containers they ship in:
// bare .class files, jar/zip archives and gzipped tarballs.
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jdecomp.archive")

const (
	DefaultMaxEntrySize = 10 * 1024 * 1024  // 10MB: skip class entries larger than this
	MaxTotalSize        = 100 * 1024 * 1024 // 100MB: reject inputs exceeding this
)

var (
	ErrTooLarge          = errors.New("input too large")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Format is the kind of container an input is.
type Format int

const (
	FormatUnknown Format = iota
	FormatClass
	FormatZip
	FormatTgz
)

func (f Format) String() string {
	switch f {
	case FormatClass:
		return "class"
	case FormatZip:
		return "zip"
	case FormatTgz:
		return "tgz"
	}
	return "unknown"
}

// Entry is one class file found in an input.
type Entry struct {
	Path string
	Size int64
	// Data is nil when the entry was skipped for its size.
	Data    []byte
	Skipped bool
}

var (
	classMagic = []byte{0xca, 0xfe, 0xba, 0xbe}
	zipMagic   = []byte("PK\x03\x04")
	gzipMagic  = []byte{0x1f, 0x8b}
)

// Detect identifies the container format from its leading bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, classMagic):
		return FormatClass
	case bytes.HasPrefix(data, zipMagic):
		return FormatZip
	case bytes.HasPrefix(data, gzipMagic):
		return FormatTgz
	}
	return FormatUnknown
}

// IsClassPath reports whether an archive path names a class file.
func IsClassPath(path string) bool {
	return strings.HasSuffix(path, ".class") && !strings.HasSuffix(path, "/")
}

// Classes returns the class files held by data. name is used as the path of
// a bare class file.
func Classes(name string, data []byte, maxEntrySize int64) ([]Entry, error) {
	if len(data) > MaxTotalSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, name, len(data))
	}
	if maxEntrySize <= 0 {
		maxEntrySize = DefaultMaxEntrySize
	}
	switch format := Detect(data); format {
	case FormatClass:
		return []Entry{{Path: name, Size: int64(len(data)), Data: data}}, nil
	case FormatZip:
		return ReadZip(data, maxEntrySize)
	case FormatTgz:
		return ReadTgz(data, maxEntrySize)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// ReadZip returns the class entries of a jar or zip archive, in archive
// order.
func ReadZip(data []byte, maxEntrySize int64) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsClassPath(f.Name) {
			continue
		}
		entry := Entry{Path: f.Name, Size: int64(f.UncompressedSize64)}
		if entry.Size > maxEntrySize {
			log.Debugf("skipping %s: %d bytes", f.Name, entry.Size)
			entry.Skipped = true
			entries = append(entries, entry)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		buf, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		entry.Data = buf
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadTgz returns the class entries of a gzipped tarball, in archive order.
func ReadTgz(data []byte, maxEntrySize int64) ([]Entry, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	entries := make([]Entry, 0, 64)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg || !IsClassPath(hdr.Name) {
			continue
		}

		entry := Entry{Path: hdr.Name, Size: hdr.Size}
		if hdr.Size > maxEntrySize {
			log.Debugf("skipping %s: %d bytes", hdr.Name, hdr.Size)
			entry.Skipped = true
			if _, err := io.Copy(io.Discard, tr); err != nil {
				return nil, err
			}
		} else {
			buf := make([]byte, hdr.Size)
			if _, err := io.ReadFull(tr, buf); err != nil {
				return nil, fmt.Errorf("%s: %w", hdr.Name, err)
			}
			entry.Data = buf
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
