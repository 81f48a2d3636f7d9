package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/dictionarytest"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/loader"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/rpcapi"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/proto"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/rpc"
)

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	entries := dictionarytest.Entries()
	terms, letters, _ := indexer.Build(entries)

	write := func(name string, encode func(io.Writer) error) {
		require.NoError(t, loader.WriteFile(filepath.Join(dir, name), encode))
	}
	write("words.json", func(w io.Writer) error { return loader.EncodeWords(w, entries) })
	write("index.json", func(w io.Writer) error { return loader.EncodeTerms(w, terms) })
	write("word_dict.json", func(w io.Writer) error { return loader.EncodeLetters(w, letters) })
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupLocal(t *testing.T) {
	dir := writeData(t)

	out, err := run(t, "lookup", "--data-dir", dir, "--exact=false", "хата")
	require.NoError(t, err)

	var resp proto.LookupResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.TotalMatches)
	assert.Equal(t, []string{"хата"}, resp.FuzzyWords)
}

func TestLookupValidationError(t *testing.T) {
	dir := writeData(t)

	_, err := run(t, "lookup", "--data-dir", dir, "--sort", "random", "кіт")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid sort value 'random'")

	_, err = run(t, "lookup", "--data-dir", dir, "--limit", "0", "кіт")
	assert.Error(t, err)
}

func TestLookupRemote(t *testing.T) {
	cfg := config.Default().Search
	svc := service.New(executor.New(dictionarytest.New(), cfg, nil, nil), nil, nil, cfg)
	srv := rpc.NewServer(time.Second)
	rpcapi.Register(srv, svc)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln)
	t.Cleanup(srv.Stop)

	out, err := run(t, "lookup", "--remote", ln.Addr().String(), "--limit", "1", "--sort", "alpha")
	require.NoError(t, err)

	var resp proto.LookupResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 11, resp.TotalMatches)
	assert.Nil(t, resp.FuzzyWords)
}

func TestHighlight(t *testing.T) {
	dir := writeData(t)

	out, err := run(t, "highlight", "--data-dir", dir, "--query", "кіт", "кіт", "і", "кит")
	require.NoError(t, err)
	assert.Equal(t, "<mark>кіт</mark> і кит\n", out)

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader("стара хата"))
	cmd.SetArgs([]string{"highlight", "--data-dir", dir, "--phrase", "стара"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "<mark>стара</mark> хата\n", buf.String())
}

func TestIndexThenValidate(t *testing.T) {
	dir := writeData(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "index.json")))
	require.NoError(t, os.Remove(filepath.Join(dir, "word_dict.json")))

	out, err := run(t, "index", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "indexed 11 entries")

	out, err = run(t, "validate", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "entries: 11")
}

func TestValidateFailsOnBrokenLetters(t *testing.T) {
	dir := writeData(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "word_dict.json"), []byte(`{"к": [0]}`), 0o644))

	out, err := run(t, "validate", "--data-dir", dir, "--json")
	require.Error(t, err)

	var report loader.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Positive(t, report.Counts()[loader.IssueLetterInvariant])
}

func TestMissingData(t *testing.T) {
	_, err := run(t, "lookup", "--data-dir", t.TempDir(), "кіт")
	assert.Error(t, err)
}

func TestBench(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("sort") == "alpha_rev" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	out, err := run(t, "bench", "--url", srv.URL, "--concurrency", "2", "--duration", "100ms", "--query", "кіт")
	require.NoError(t, err)
	assert.Positive(t, hits.Load())
	assert.Contains(t, out, "status 200:")
	assert.Contains(t, out, "status 400:")
	assert.Contains(t, out, "latency min")
}

func TestLatencyPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), latencyPercentile(sorted, 50))
	assert.Equal(t, time.Duration(10), latencyPercentile(sorted, 99))
	assert.Equal(t, time.Duration(0), latencyPercentile(nil, 50))
}
