package branchy

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// KTestVersion is the format version written by WriteKTest.
const KTestVersion = 3

const (
	ktestMagic = "KTEST"
	boutMagic  = "BOUT\n" // older name for the same format
)

// maxKTestLen caps a single length field so that a corrupt file can't make
// ReadKTest allocate without bound.
const maxKTestLen = 1 << 24

// A KTest is one concrete test case recorded by a symbolic execution
// engine: the program arguments plus a value for each symbolic object.
type KTest struct {
	Version    int
	Args       []string
	SymArgvs   uint32
	SymArgvLen uint32
	Objects    []Object
}

// An Object is the concrete value of one named symbolic input.
type Object struct {
	Name  string
	Bytes []byte
}

// Object returns the first object called name.
func (kt *KTest) Object(name string) (Object, bool) {
	for _, obj := range kt.Objects {
		if obj.Name == name {
			return obj, true
		}
	}
	return Object{}, false
}

// Int32Object returns an object holding v in the byte order Replay expects.
func Int32Object(name string, v int32) Object {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return Object{Name: name, Bytes: b}
}

// ReadKTest parses a test case in the binary KTEST format.
//
// Versions 1 through KTestVersion are accepted, as is the legacy BOUT
// magic. All integers in the format are big-endian uint32s.
func ReadKTest(r io.Reader) (*KTest, error) {
	kr := ktestReader{r: bufio.NewReader(r)}
	magic := make([]byte, len(ktestMagic))
	if _, err := io.ReadFull(kr.r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", noEOF(err))
	}
	if s := string(magic); s != ktestMagic && s != boutMagic {
		return nil, fmt.Errorf("bad magic %q", s)
	}

	kt := new(KTest)
	version := kr.uint32("version")
	if kr.err != nil {
		return nil, kr.err
	}
	if version == 0 || version > KTestVersion {
		return nil, fmt.Errorf("unsupported version %d", version)
	}
	kt.Version = int(version)

	numArgs := kr.count("#args")
	for i := 0; i < numArgs && kr.err == nil; i++ {
		kt.Args = append(kt.Args, string(kr.bytes(fmt.Sprintf("arg %d", i))))
	}
	if kt.Version >= 2 {
		kt.SymArgvs = kr.uint32("sym argvs")
		kt.SymArgvLen = kr.uint32("sym argv len")
	}
	numObjects := kr.count("#objects")
	for i := 0; i < numObjects && kr.err == nil; i++ {
		var obj Object
		obj.Name = string(kr.bytes(fmt.Sprintf("object %d name", i)))
		obj.Bytes = kr.bytes(fmt.Sprintf("object %d data", i))
		kt.Objects = append(kt.Objects, obj)
	}
	if kr.err != nil {
		return nil, kr.err
	}
	return kt, nil
}

// WriteKTest writes kt in the binary KTEST format. The version is always
// KTestVersion, whatever kt.Version says.
func WriteKTest(w io.Writer, kt *KTest) error {
	bw := bufio.NewWriter(w)
	kw := ktestWriter{w: bw}
	kw.write([]byte(ktestMagic))
	kw.uint32(KTestVersion)
	kw.count(len(kt.Args))
	for _, arg := range kt.Args {
		kw.bytes([]byte(arg))
	}
	kw.uint32(kt.SymArgvs)
	kw.uint32(kt.SymArgvLen)
	kw.count(len(kt.Objects))
	for _, obj := range kt.Objects {
		kw.bytes([]byte(obj.Name))
		kw.bytes(obj.Bytes)
	}
	if kw.err != nil {
		return kw.err
	}
	return bw.Flush()
}

// ktestReader reads KTEST fields, remembering the first error.
type ktestReader struct {
	r   io.Reader
	err error
}

func (kr *ktestReader) uint32(what string) uint32 {
	if kr.err != nil {
		return 0
	}
	var buf [4]byte
	if _, err := io.ReadFull(kr.r, buf[:]); err != nil {
		kr.err = fmt.Errorf("reading %s: %w", what, noEOF(err))
		return 0
	}
	return binary.BigEndian.Uint32(buf[:])
}

func (kr *ktestReader) count(what string) int {
	n := kr.uint32(what)
	if kr.err == nil && n > maxKTestLen {
		kr.err = fmt.Errorf("%s is too large (%d)", what, n)
		return 0
	}
	return int(n)
}

func (kr *ktestReader) bytes(what string) []byte {
	n := kr.count(what + " length")
	if kr.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(kr.r, b); err != nil {
		kr.err = fmt.Errorf("reading %s: %w", what, noEOF(err))
		return nil
	}
	return b
}

type ktestWriter struct {
	w   io.Writer
	err error
}

func (kw *ktestWriter) write(b []byte) {
	if kw.err != nil {
		return
	}
	_, kw.err = kw.w.Write(b)
}

func (kw *ktestWriter) uint32(n uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	kw.write(buf[:])
}

func (kw *ktestWriter) count(n int) {
	if kw.err == nil && uint64(n) > math.MaxUint32 {
		kw.err = fmt.Errorf("length %d does not fit in the KTEST format", n)
		return
	}
	kw.uint32(uint32(n))
}

func (kw *ktestWriter) bytes(b []byte) {
	kw.count(len(b))
	kw.write(b)
}

// noEOF turns a clean EOF in the middle of a test case into
// io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
