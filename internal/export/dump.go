package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"procplanet/internal/core"
)

// DumpExt is the file suffix of raw field dumps.
const DumpExt = ".f32.zst"

var dumpMagic = [4]byte{'P', 'F', '3', '2'}

// ErrBadDump reports a dump that is not a field file.
var ErrBadDump = errors.New("bad field dump")

// WriteField stores f as a zstd stream: magic, little-endian uint32
// resolution, then the samples as little-endian float32.
func WriteField(path string, f *core.Field) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if _, err := bw.Write(dumpMagic[:]); err != nil {
		enc.Close()
		return err
	}
	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], uint32(f.Res))
	bw.Write(word[:])
	for _, v := range f.Values() {
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
		if _, err := bw.Write(word[:]); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return out.Close()
}

// ReadField loads a dump written by WriteField.
func ReadField(path string) (*core.Field, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	br := bufio.NewReaderSize(dec, 256*1024)

	var header [8]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadDump, path, err)
	}
	if [4]byte(header[:4]) != dumpMagic {
		return nil, fmt.Errorf("%w: %s: wrong magic", ErrBadDump, path)
	}
	res := core.Resolution(binary.LittleEndian.Uint32(header[4:]))
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadDump, path, err)
	}
	f := core.NewField(res)
	vals := f.Values()
	var word [4]byte
	for i := range vals {
		if _, err := io.ReadFull(br, word[:]); err != nil {
			return nil, fmt.Errorf("%w: %s: truncated at sample %d", ErrBadDump, path, i)
		}
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(word[:]))
	}
	return f, nil
}
