package netx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_ReportsMonotonicPercentages(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 1000)
	var got []int
	pr := NewProgressReader(bytes.NewReader(data), int64(len(data)), func(p int) { got = append(got, p) })

	buf := make([]byte, 250)
	for {
		_, err := pr.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, []int{25, 50, 75, 99}, got)

	pr.Done()
	pr.Done()
	assert.Equal(t, []int{25, 50, 75, 99, 100}, got)
}

func TestProgressReader_EOFWithoutSizeStopsAt99(t *testing.T) {
	var got []int
	pr := NewProgressReader(strings.NewReader("abc"), 0, func(p int) { got = append(got, p) })

	_, err := io.ReadAll(pr)
	require.NoError(t, err)
	assert.Equal(t, []int{99}, got)
}

func TestProgressReader_NilCallback(t *testing.T) {
	pr := NewProgressReader(strings.NewReader("abc"), 3, nil)
	b, err := io.ReadAll(pr)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestPutWithProgress_Success(t *testing.T) {
	file := []byte("fake mp3 payload")
	var gotBody []byte
	var gotCT, gotMethod string
	var gotLen int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		gotLen = r.ContentLength
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var progress []int
	err := PutWithProgress(context.Background(), ts.Client(), ts.URL+"/bucket/key?X-Amz-Signature=abc",
		bytes.NewReader(file), int64(len(file)), "audio/mpeg", func(p int) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "audio/mpeg", gotCT)
	assert.Equal(t, int64(len(file)), gotLen)
	assert.Equal(t, file, gotBody)
	require.NotEmpty(t, progress)
	assert.Equal(t, 0, progress[0])
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.Greater(t, progress[i], progress[i-1])
	}
}

func TestPutWithProgress_DefaultContentType(t *testing.T) {
	var gotCT string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
	}))
	defer ts.Close()

	require.NoError(t, PutWithProgress(context.Background(), nil, ts.URL, strings.NewReader("x"), 1, "", nil))
	assert.Equal(t, "application/octet-stream", gotCT)
}

func TestPutWithProgress_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("SignatureDoesNotMatch"))
	}))
	defer ts.Close()

	var mu sync.Mutex
	var seen []int
	err := PutWithProgress(context.Background(), ts.Client(), ts.URL, strings.NewReader("abc"), 3, "audio/wav",
		func(p int) {
			mu.Lock()
			seen = append(seen, p)
			mu.Unlock()
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "SignatureDoesNotMatch")

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, seen, 100)
	assert.Equal(t, 99, seen[len(seen)-1])
}

func TestPutWithProgress_BadURL(t *testing.T) {
	err := PutWithProgress(context.Background(), nil, "://bad", strings.NewReader("x"), 1, "", nil)
	require.Error(t, err)
}

func TestPutWithProgress_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := PutWithProgress(ctx, ts.Client(), ts.URL, strings.NewReader("x"), 1, "", nil)
	require.ErrorIs(t, err, context.Canceled)
}
