package branchy

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kr/pretty"
)

// ktestBytes builds a raw test case from literal pieces: strings are
// copied as-is and uint32s are written big-endian.
func ktestBytes(parts ...interface{}) []byte {
	var b []byte
	for _, p := range parts {
		switch p := p.(type) {
		case string:
			b = append(b, p...)
		case []byte:
			b = append(b, p...)
		case int:
			b = append(b, byte(p>>24), byte(p>>16), byte(p>>8), byte(p))
		default:
			panic(pretty.Sprintf("bad part %# v", p))
		}
	}
	return b
}

func TestReadKTest(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
		want *KTest
	}{
		{
			name: "version 3",
			data: ktestBytes(
				"KTEST", 3,
				1, 10, "branchy.bc",
				0, 0,
				2,
				1, "a", 4, []byte{0x65, 0, 0, 0},
				1, "b", 4, []byte{0xff, 0xff, 0xff, 0xff},
			),
			want: &KTest{
				Version: 3,
				Args:    []string{"branchy.bc"},
				Objects: []Object{
					{Name: "a", Bytes: []byte{0x65, 0, 0, 0}},
					{Name: "b", Bytes: []byte{0xff, 0xff, 0xff, 0xff}},
				},
			},
		},
		{
			name: "version 1 without sym argv fields",
			data: ktestBytes(
				"BOUT\n", 1,
				0,
				1,
				1, "a", 4, []byte{1, 0, 0, 0},
			),
			want: &KTest{
				Version: 1,
				Objects: []Object{{Name: "a", Bytes: []byte{1, 0, 0, 0}}},
			},
		},
		{
			name: "version 2 with sym argvs",
			data: ktestBytes(
				"KTEST", 2,
				2, 4, "prog", 2, "-x",
				1, 8,
				1,
				0, 0,
			),
			want: &KTest{
				Version:    2,
				Args:       []string{"prog", "-x"},
				SymArgvs:   1,
				SymArgvLen: 8,
				Objects:    []Object{{}},
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadKTest(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tt.want, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("ReadKTest (-got, +want):\n%s", diff)
			}
		})
	}
}

func TestReadKTestErrors(t *testing.T) {
	for _, tt := range []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{"empty", nil, "reading magic: unexpected EOF"},
		{"bad magic", []byte("KLEE!\x00\x00\x00\x03"), `bad magic "KLEE!"`},
		{"version 0", ktestBytes("KTEST", 0), "unsupported version 0"},
		{"future version", ktestBytes("KTEST", 4), "unsupported version 4"},
		{"no version", []byte("KTEST\x00\x00"), "reading version: unexpected EOF"},
		{"truncated args", ktestBytes("KTEST", 3, 2, 1, "x"), "reading arg 1 length: unexpected EOF"},
		{"truncated arg", ktestBytes("KTEST", 3, 1, 5, "ab"), "reading arg 0: unexpected EOF"},
		{"no sym argvs", ktestBytes("KTEST", 3, 0), "reading sym argvs: unexpected EOF"},
		{"no objects", ktestBytes("KTEST", 3, 0, 0, 0), "reading #objects: unexpected EOF"},
		{
			"truncated object",
			ktestBytes("KTEST", 3, 0, 0, 0, 1, 1, "a", 4, []byte{1, 2}),
			"reading object 0 data: unexpected EOF",
		},
		{
			"huge object",
			ktestBytes("KTEST", 3, 0, 0, 0, 1, 1, "a", 1<<30),
			"object 0 data length is too large (1073741824)",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			kt, err := ReadKTest(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatalf("got test case %s; want error %q", pretty.Sprint(kt), tt.wantErr)
			}
			if got := err.Error(); got != tt.wantErr {
				t.Fatalf("got error %q; want %q", got, tt.wantErr)
			}
			if strings.HasSuffix(tt.wantErr, "unexpected EOF") && !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("error %q does not wrap io.ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestWriteKTest(t *testing.T) {
	kt := &KTest{
		Version:    1, // ignored
		Args:       []string{"branchy.bc", "--sym-arg"},
		SymArgvs:   2,
		SymArgvLen: 16,
		Objects: []Object{
			Int32Object("a", 101),
			Int32Object("b", -1),
			{Name: "empty"},
		},
	}
	var buf bytes.Buffer
	if err := WriteKTest(&buf, kt); err != nil {
		t.Fatal(err)
	}
	want := ktestBytes(
		"KTEST", 3,
		2, 10, "branchy.bc", 9, "--sym-arg",
		2, 16,
		3,
		1, "a", 4, []byte{101, 0, 0, 0},
		1, "b", 4, []byte{0xff, 0xff, 0xff, 0xff},
		5, "empty", 0,
	)
	if diff := cmp.Diff(buf.Bytes(), want); diff != "" {
		t.Fatalf("WriteKTest (-got, +want):\n%s", diff)
	}

	got, err := ReadKTest(&buf)
	if err != nil {
		t.Fatal(err)
	}
	kt.Version = KTestVersion
	if diff := cmp.Diff(got, kt, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("ReadKTest after WriteKTest (-got, +want):\n%s", diff)
	}
}

type failWriter struct{ n int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n -= len(p); w.n < 0 {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func TestWriteKTestError(t *testing.T) {
	kt := &KTest{Objects: []Object{{Name: "a", Bytes: make([]byte, 8192)}}}
	err := WriteKTest(&failWriter{n: 100}, kt)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("got error %v; want disk full", err)
	}
}

func TestKTestObject(t *testing.T) {
	kt := &KTest{Objects: []Object{
		Int32Object("a", 1),
		Int32Object("b", 2),
		Int32Object("a", 3),
	}}
	obj, ok := kt.Object("a")
	if !ok {
		t.Fatal("object a not found")
	}
	if diff := cmp.Diff(obj, Int32Object("a", 1)); diff != "" {
		t.Fatalf("Object(a) (-got, +want):\n%s", diff)
	}
	if _, ok := kt.Object("c"); ok {
		t.Fatal("found object c; want none")
	}
}
