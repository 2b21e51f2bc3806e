package main

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/cli"
	"github.com/oy3o/bencode/internal/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

// run executes the tool with stdin and returns what it wrote to stdout.
func run(t *testing.T, stdin []byte, args ...string) ([]byte, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	e := &env{stdin: bytes.NewReader(stdin), stdout: &stdout, stderr: &stderr}
	err := rootCommand(e).Execute(args)
	return stdout.Bytes(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const torrent = "d8:announce9:http://t/4:infod6:lengthi42e4:name5:a.bin6:pieces3:\x00\xff\x10ee"

func TestDecode(t *testing.T) {
	out, err := run(t, []byte(torrent), "decode", "--compact")
	require.NoError(t, err)
	assert.Equal(t,
		`{"announce":"http://t/","info":{"length":42,"name":"a.bin","pieces":{"$hex":"00ff10"}}}`+"\n",
		string(out))
}

func TestDecodeFile(t *testing.T) {
	path := writeFile(t, "a.torrent", []byte("d3:cow3:moo4:spaml1:a1:bee"))
	out, err := run(t, nil, "decode", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, `{"cow":"moo","spam":["a","b"]}`+"\n", string(out))
}

func TestDecodeFormats(t *testing.T) {
	out, err := run(t, []byte("d1:ai1ee"), "decode", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(out))

	out, err = run(t, []byte("d1:ai1ee"), "decode", "-f", "cbor")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa1, 0x61, 'a', 0x01}, out)

	_, err = run(t, []byte("d1:ai1ee"), "decode", "-f", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestDecodeSequence(t *testing.T) {
	out, err := run(t, []byte("i1e3:abcle"), "decode", "--all", "-c")
	require.NoError(t, err)
	assert.Equal(t, `[1,"abc",[]]`+"\n", string(out))

	_, err = run(t, []byte("i1e3:abcl"), "decode", "--all")
	assert.ErrorIs(t, err, bencode.ErrEndOfInput)
	assert.ErrorContains(t, err, "value 2")
}

func TestDecodeErrors(t *testing.T) {
	_, err := run(t, []byte("i1ex"), "decode")
	assert.ErrorIs(t, err, bencode.ErrTrailingData)

	_, err = run(t, nil, "decode")
	assert.ErrorContains(t, err, "empty input")

	_, err = run(t, []byte("i1e"), "decode", "extra", "args")
	assert.ErrorContains(t, err, "no positional arguments")

	_, err = run(t, []byte("li1e"), "decode")
	assert.ErrorIs(t, err, bencode.ErrEndOfInput)
}

func TestDecodeHex(t *testing.T) {
	out, err := run(t, []byte("69 34\n32 65\n"), "decode", "--hex")
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(out))

	_, err = run(t, []byte("zz"), "decode", "-x")
	assert.ErrorContains(t, err, "decode hex")
}

func TestDecodeCompressed(t *testing.T) {
	for _, algo := range []compress.Algorithm{compress.Zstd, compress.LZ4} {
		t.Run(algo.String(), func(t *testing.T) {
			packed, err := compress.Compress([]byte("l4:spame"), algo)
			require.NoError(t, err)

			out, err := run(t, nil, "decode", "-c", writeFile(t, "list.benc", packed))
			require.NoError(t, err)
			assert.Equal(t, `["spam"]`+"\n", string(out))
		})
	}
}

func TestDecodeLimits(t *testing.T) {
	_, err := run(t, []byte("llllee"+"ee"), "decode", "--max-depth", "2")
	assert.ErrorIs(t, err, bencode.ErrMaxDepth)

	_, err = run(t, []byte("5:hello"), "decode", "--max-string-length", "4")
	assert.ErrorIs(t, err, bencode.ErrStringTooLong)

	deep := strings.Repeat("l", bencode.DefaultMaxDepth+1) + strings.Repeat("e", bencode.DefaultMaxDepth+1)
	_, err = run(t, []byte(deep), "decode", "-c")
	assert.ErrorIs(t, err, bencode.ErrMaxDepth)

	out, err := run(t, []byte(deep), "decode", "-c", "--max-depth", "-1")
	require.NoError(t, err)
	assert.Equal(t,
		strings.Repeat("[", bencode.DefaultMaxDepth+1)+strings.Repeat("]", bencode.DefaultMaxDepth+1)+"\n",
		string(out))
}

func TestOpenInputCountsBytes(t *testing.T) {
	e := &env{stdin: bytes.NewReader([]byte("i1ei2e"))}
	in, _, err := openInput(e, nil, false)
	require.NoError(t, err)
	defer in.Close()

	dec := bencode.NewDecoder(in)
	for range 2 {
		_, err := dec.Decode()
		require.NoError(t, err)
	}
	_, err = dec.Decode()
	assert.ErrorIs(t, err, io.EOF)
	assert.EqualValues(t, 6, in.Count())
}

func TestDecodeWithConfig(t *testing.T) {
	path := writeFile(t, "tool.yaml", []byte("decoder:\n  strict: true\noutput:\n  compact: true\n"))

	_, err := run(t, []byte("d1:bi1e1:ai2ee"), "decode", "--config", path)
	assert.ErrorIs(t, err, bencode.ErrNonCanonical)

	out, err := run(t, []byte("d1:ai2e1:bi1ee"), "decode", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`+"\n", string(out))

	bad := writeFile(t, "bad.yaml", []byte("output:\n  format: xml\n"))
	_, err = run(t, []byte("i1e"), "decode", "--config", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestEncode(t *testing.T) {
	out, err := run(t, []byte(`{"spam":["a","b"],"cow":"moo"}`), "encode")
	require.NoError(t, err)
	assert.Equal(t, "d3:cow3:moo4:spaml1:a1:bee", string(out))

	out, err = run(t, []byte(`{"k": {"$hex": "ff00"}, // comment
	}`), "encode")
	require.NoError(t, err)
	assert.Equal(t, "d1:k2:\xff\x00e", string(out))

	out, err = run(t, []byte("cow: moo\nn: -3\n"), "encode", "--from", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "d3:cow3:moo1:ni-3ee", string(out))

	_, err = run(t, []byte(`{"ratio": 0.5}`), "encode")
	assert.ErrorContains(t, err, "$.ratio")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	decoded, err := run(t, []byte(torrent), "decode")
	require.NoError(t, err)

	encoded, err := run(t, decoded, "encode", "--compress", "zstd")
	require.NoError(t, err)

	again, err := run(t, encoded, "fmt")
	require.NoError(t, err)
	assert.Equal(t, torrent, string(again))
}

func TestFmt(t *testing.T) {
	out, err := run(t, []byte("d4:spami007e3:cowi2ee"), "fmt")
	require.NoError(t, err)
	assert.Equal(t, "d3:cowi2e4:spami7ee", string(out))

	out, err = run(t, []byte("d1:bi1e1:ai2eei-0e"), "fmt", "--all")
	require.NoError(t, err)
	assert.Equal(t, "d1:ai2e1:bi1eei0e", string(out))
}

func TestCheck(t *testing.T) {
	out, err := run(t, []byte("d3:cowi2ee"), "check")
	require.NoError(t, err)
	assert.Equal(t, "stdin: canonical dictionary, 10 bytes\n", string(out))

	out, err = run(t, []byte("d4:spami1e3:cowi2ee"), "check")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "non-canonical")

	_, err = run(t, []byte("i1ei2e"), "check")
	require.ErrorAs(t, err, &exitErr)
}

func TestDigest(t *testing.T) {
	input := []byte("d4:infod4:name1:a6:lengthi1eee")
	info := []byte("d6:lengthi1e4:name1:ae")

	out, err := run(t, input, "digest", "--algo", "sha1", "--key", "info")
	require.NoError(t, err)
	sum := sha1.Sum(info)
	assert.Equal(t, hex.EncodeToString(sum[:])+"\n", string(out))

	out, err = run(t, input, "digest")
	require.NoError(t, err)
	canonical, err := bencode.Marshal(bencode.Dictionary{"info": bencode.Dictionary{
		"name": bencode.String("a"), "length": bencode.Integer(1),
	}})
	require.NoError(t, err)
	whole := blake3.Sum256(canonical)
	assert.Equal(t, hex.EncodeToString(whole[:])+"\n", string(out))

	_, err = run(t, input, "digest", "--algo", "md5")
	assert.ErrorContains(t, err, "unknown hash algorithm")
}

func TestLookup(t *testing.T) {
	v := bencode.Dictionary{
		"info": bencode.Dictionary{
			"files": bencode.List{
				bencode.Dictionary{"path": bencode.List{bencode.String("a")}},
			},
		},
	}

	got, err := lookup(v, "info.files.0.path.0")
	require.NoError(t, err)
	assert.Equal(t, bencode.String("a"), got)

	got, err = lookup(v, "")
	require.NoError(t, err)
	assert.True(t, bencode.Equal(v, got))

	_, err = lookup(v, "info.missing")
	assert.ErrorContains(t, err, `key "missing" not found in "info"`)

	_, err = lookup(v, "info.files.3")
	assert.ErrorContains(t, err, "out of range")

	_, err = lookup(v, "info.files.0.path.0.deeper")
	assert.ErrorContains(t, err, "not a list or dictionary (found string)")

	_, err = lookup(v, "nope")
	assert.ErrorContains(t, err, "the top-level value")
}

func TestVersion(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "bencode "))
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, nil, "digset")
	assert.ErrorContains(t, err, `did you mean "digest"`)
}
