// Package containerindex implements the binary container index format:
// a header followed by a table of entries mapping virtual paths to payload
// locators and content hashes inside a packaged asset container.
package containerindex

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf8"
)

const (
	// Magic identifies a container index stream. It is the little-endian
	// encoding of the ASCII bytes "ACIX".
	Magic uint32 = 0x58494341
	// Version is the only format version this package reads and writes.
	Version uint32 = 1

	// maxVirtualPathLength bounds the length prefix on a virtual path string
	// so that a corrupt or adversarial length field cannot trigger an
	// unbounded allocation.
	maxVirtualPathLength = 1 << 20
	// contentHashSize is the width of the SHA-256 content hash field.
	contentHashSize = 32
)

// Entry is a single container index record.
type Entry struct {
	// VirtualPath is the entry's canonical "/Mount/Relative" form.
	VirtualPath string
	// PayloadOffset is the byte offset of the entry's payload within the
	// container's payload section.
	PayloadOffset uint64
	// PayloadSize is the byte length of the entry's payload.
	PayloadSize uint64
	// ContentHash is the SHA-256 digest of the payload.
	ContentHash [contentHashSize]byte
	// LastWriteTimeMS is the payload's source last-write time, as Unix
	// milliseconds in UTC.
	LastWriteTimeMS int64
}

// Read decodes a container index stream, validating the header and every
// entry. It fails with ErrInvalidFormat on magic/version mismatch, a
// truncated stream, a length-prefix overflow, or invalid UTF-8 in a virtual
// path.
func Read(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)

	var magic, version uint32
	var count uint64
	if err := readUint32(br, &magic); err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, invalidFormatf("unrecognized magic 0x%08x", magic)
	}
	if err := readUint32(br, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, invalidFormatf("unsupported version %d", version)
	}
	if err := readUint64(br, &count); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, clampInitialCapacity(count))
	for i := uint64(0); i < count; i++ {
		entry, err := readEntry(br)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// clampInitialCapacity avoids pre-allocating an enormous slice on the basis
// of an untrusted count field.
func clampInitialCapacity(count uint64) int {
	const cap = 4096
	if count > uint64(cap) {
		return cap
	}
	return int(count)
}

func readEntry(r io.Reader) (Entry, error) {
	var entry Entry

	var pathLength uint32
	if err := readUint32(r, &pathLength); err != nil {
		return entry, err
	}
	if pathLength > maxVirtualPathLength {
		return entry, invalidFormatf("virtual path length %d exceeds limit", pathLength)
	}
	pathBytes := make([]byte, pathLength)
	if _, err := io.ReadFull(r, pathBytes); err != nil {
		return entry, wrapTruncated(err)
	}
	if !utf8.Valid(pathBytes) {
		return entry, invalidFormat("virtual path is not valid UTF-8")
	}
	entry.VirtualPath = string(pathBytes)

	if err := readUint64(r, &entry.PayloadOffset); err != nil {
		return entry, err
	}
	if err := readUint64(r, &entry.PayloadSize); err != nil {
		return entry, err
	}
	if _, err := io.ReadFull(r, entry.ContentHash[:]); err != nil {
		return entry, wrapTruncated(err)
	}

	var lastWriteTime uint64
	if err := readUint64(r, &lastWriteTime); err != nil {
		return entry, err
	}
	entry.LastWriteTimeMS = int64(lastWriteTime)

	return entry, nil
}

// Write encodes entries in the order given, with no implied sorting. It is
// the exact inverse of Read.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, Magic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, Version); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := writeEntry(bw, entry); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeEntry(w io.Writer, entry Entry) error {
	pathBytes := []byte(entry.VirtualPath)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(pathBytes))); err != nil {
		return err
	}
	if _, err := w.Write(pathBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entry.PayloadOffset); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entry.PayloadSize); err != nil {
		return err
	}
	if _, err := w.Write(entry.ContentHash[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint64(entry.LastWriteTimeMS))
}

// Marshal encodes entries into an in-memory byte slice.
func Marshal(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes entries from an in-memory byte slice.
func Unmarshal(data []byte) ([]Entry, error) {
	return Read(bytes.NewReader(data))
}

func readUint32(r io.Reader, out *uint32) error {
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return wrapTruncated(err)
	}
	return nil
}

func readUint64(r io.Reader, out *uint64) error {
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return wrapTruncated(err)
	}
	return nil
}

func wrapTruncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return invalidFormat("truncated stream")
	}
	return invalidFormat(err.Error())
}
