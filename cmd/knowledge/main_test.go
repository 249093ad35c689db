package main

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/edaxknowledge/internal/analysis"
)

var exactBoard = strings.Repeat("O", 14) + strings.Repeat("X", 14) + strings.Repeat("-", 36)

func writeArchive(t *testing.T, lines ...string) string {
	t.Helper()
	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	body := strings.Join(lines, "\n") + "\n"
	name := "knowledge_archive/knowledge_" + strings.Repeat("O", 14) + strings.Repeat("-", 50) + ".csv"
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
	_, err := tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	require.NoError(t, err)
	_, err = enc.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	path := filepath.Join(t.TempDir(), "knowledge_archive.tar.zst")
	require.NoError(t, os.WriteFile(path, compressed.Bytes(), 0644))
	return path
}

func execute(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExtract_Stdout(t *testing.T) {
	path := writeArchive(t,
		exactBoard+" X;,36,100,-2,-2,100",
		exactBoard+" X;,20,100,-2,-2,100",
		"not a record",
	)
	stdout, stderr, err := execute(t, nil, "extract", "--archive", path, "--total-entries", "1")
	require.NoError(t, err)

	require.Len(t, stdout, analysis.RecordSize)
	rec, err := analysis.Decode([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, exactBoard, rec.Board.String())
	assert.Equal(t, [2]int8{-2, -2}, rec.Bounds)

	assert.Contains(t, stderr, "not a record")
	assert.Contains(t, stderr, "extract complete")
}

func TestExtract_StrictFails(t *testing.T) {
	path := writeArchive(t,
		exactBoard+" X;,36,100,-2,-2,100",
		exactBoard+" X;,36,100,-2,2,100",
		exactBoard+" X;,36,100,4,4,100",
	)
	out := filepath.Join(t.TempDir(), "out.bin")
	_, _, err := execute(t, nil, "extract", "--archive", path, "--output", out, "--policy", "strict")
	require.Error(t, err)

	data, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Len(t, data, analysis.RecordSize)
}

func TestExtract_MissingArchive(t *testing.T) {
	_, _, err := execute(t, nil, "extract", "--archive", filepath.Join(t.TempDir(), "missing.tar.zst"))
	assert.ErrorContains(t, err, "open archive")
}

func TestExtract_BadPolicy(t *testing.T) {
	_, _, err := execute(t, nil, "extract", "--policy", "abort")
	assert.Error(t, err)
}

func TestExtractThenDump_Zstd(t *testing.T) {
	path := writeArchive(t,
		exactBoard+" X;,36,100,2,4,7",
		exactBoard+" X;,36,100,-64,-64,7",
	)
	out := filepath.Join(t.TempDir(), "out.bin.zst")
	_, _, err := execute(t, nil, "extract", "--archive", path, "--output", out, "--compress", "zstd", "-l", "error")
	require.NoError(t, err)

	stdout, _, err := execute(t, nil, "dump", out)
	require.NoError(t, err)
	assert.Equal(t, "board,lower,upper\n"+
		exactBoard+",2,4\n"+
		exactBoard+",-64,-64\n", stdout)
}

func TestDump_Stdin(t *testing.T) {
	rec := analysis.Record{Board: analysis.Board{0x0000_0010_0800_0000, 0x0000_0008_1000_0000}, Bounds: [2]int8{-3, 5}}
	buf := analysis.Encode(rec)
	stdout, _, err := execute(t, buf[:], "dump")
	require.NoError(t, err)
	assert.Equal(t, "board,lower,upper\n"+rec.Board.String()+",-3,5\n", stdout)
}

func TestDump_TrailingBytes(t *testing.T) {
	_, _, err := execute(t, []byte{1, 2, 3}, "dump", "-")
	assert.ErrorIs(t, err, analysis.ErrShortRecord)
}

func TestDump_RecordsThatLookCompressed(t *testing.T) {
	tests := []struct {
		name  string
		board analysis.Board
	}{
		{"gzip magic", analysis.Board{0x8B1F, 0xFFF0000}},
		{"zstd magic", analysis.Board{0xFD2FB528, 0x0F00000000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := analysis.Record{Board: tt.board, Bounds: [2]int8{-2, -2}}
			buf := analysis.Encode(rec)

			stdout, _, err := execute(t, buf[:], "dump")
			require.NoError(t, err)
			assert.Equal(t, "board,lower,upper\n"+rec.Board.String()+",-2,-2\n", stdout)

			path := filepath.Join(t.TempDir(), "out.bin")
			require.NoError(t, os.WriteFile(path, buf[:], 0644))
			stdout, _, err = execute(t, nil, "dump", path)
			require.NoError(t, err)
			assert.Equal(t, "board,lower,upper\n"+rec.Board.String()+",-2,-2\n", stdout)
		})
	}
}

func TestDump_CompressFlag(t *testing.T) {
	rec := analysis.Record{Board: analysis.Board{0x3FFF, 0x0FFFC000}, Bounds: [2]int8{2, 4}}
	buf := analysis.Encode(rec)
	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	require.NoError(t, err)
	_, err = enc.Write(buf[:])
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	stdout, _, err := execute(t, compressed.Bytes(), "dump", "--compress", "zstd")
	require.NoError(t, err)
	assert.Equal(t, "board,lower,upper\n"+rec.Board.String()+",2,4\n", stdout)

	path := filepath.Join(t.TempDir(), "records.zst")
	require.NoError(t, os.WriteFile(path, buf[:], 0644))
	stdout, _, err = execute(t, nil, "dump", "--compress", "none", path)
	require.NoError(t, err)
	assert.Equal(t, "board,lower,upper\n"+rec.Board.String()+",2,4\n", stdout)

	_, _, err = execute(t, nil, "dump", "--compress", "gzip")
	assert.ErrorContains(t, err, "compress must be none or zstd")
}
