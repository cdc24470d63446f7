package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PutGetList(t *testing.T) {
	ctx := context.Background()
	d, err := NewDir(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "maxreturn_USD.csv", strings.NewReader("a,b\n"), "text/csv"))
	require.NoError(t, d.Put(ctx, "runs/minrisk_EUR.csv", strings.NewReader("c\n"), "text/csv"))
	// Overwrite.
	require.NoError(t, d.Put(ctx, "maxreturn_USD.csv", strings.NewReader("x\n"), "text/csv"))

	rc, err := d.Get(ctx, "maxreturn_USD.csv")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "x\n", string(body))

	keys, err := d.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"maxreturn_USD.csv", "runs/minrisk_EUR.csv"}, keys)

	keys, err = d.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/minrisk_EUR.csv"}, keys)

	_, err = os.Stat(d.Location("runs/minrisk_EUR.csv"))
	require.NoError(t, err)
}

func TestDir_Errors(t *testing.T) {
	ctx := context.Background()
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"", "  ", "/etc/passwd", "../up.csv"} {
		require.ErrorIs(t, d.Put(ctx, k, strings.NewReader(""), ""), ErrInvalidKey, k)
	}
	_, err = d.Get(ctx, "missing.csv")
	require.ErrorIs(t, err, ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, d.Put(cancelled, "a.csv", strings.NewReader(""), ""), context.Canceled)
}

func TestOpen_Targets(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "reports")
	st, err := Open(ctx, dir, S3Config{})
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, st)

	st, err = Open(ctx, "s3://plans/runs/2026/", S3Config{Region: "eu-west-1", AccessKeyID: "AKIA", SecretAccessKey: "SECRET"})
	require.NoError(t, err)
	assert.Equal(t, "s3://plans/runs/2026/minrisk_EUR.csv", st.Location("minrisk_EUR.csv"))

	_, err = Open(ctx, "", S3Config{})
	require.ErrorIs(t, err, ErrBadTarget)
	_, err = Open(ctx, "s3:///nobucket", S3Config{})
	require.ErrorIs(t, err, ErrBadTarget)
}

func newMockS3(t *testing.T, prefix string) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	st, err := NewS3(context.Background(), S3Config{
		Bucket:          "plans",
		Prefix:          prefix,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	require.NoError(t, err)
	return st, fake
}

func TestS3_PutGetList(t *testing.T) {
	ctx := context.Background()
	st, fake := newMockS3(t, "runs")

	require.NoError(t, st.Put(ctx, "maxreturn_USD.csv", strings.NewReader("Timestamp,Cash\n"), "text/csv"))
	require.NoError(t, st.Put(ctx, "minrisk_USD.csv", strings.NewReader("Timestamp\n"), ""))

	assert.Equal(t, "Timestamp,Cash\n", string(fake.objects["runs/maxreturn_USD.csv"]))
	assert.Equal(t, "text/csv", fake.types["runs/maxreturn_USD.csv"])

	rc, err := st.Get(ctx, "maxreturn_USD.csv")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "Timestamp,Cash\n", string(body))

	keys, err := st.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"maxreturn_USD.csv", "minrisk_USD.csv"}, keys)

	_, err = st.Get(ctx, "nothing.csv")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, st.Put(ctx, "../x", strings.NewReader(""), ""), ErrInvalidKey)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	require.ErrorIs(t, err, ErrBadTarget)
}

// fakeS3 answers the path-style PUT, GET and ListObjectsV2 requests the
// store issues, keeping objects in memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2026-01-01T00:00:00Z</LastModified></Contents>",
				k, len(f.objects[k]))
		}
		b.WriteString("</ListBucketResult>")
		return respond(http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}}), nil
	}
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunk(body); ok {
			body = dec
		}
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return respond(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, nil, http.Header{}), nil
		}
		return respond(http.StatusOK, body, http.Header{
			"Content-Length": {strconv.Itoa(len(body))},
			"Content-Type":   {f.types[key]},
		}), nil
	}
	return respond(http.StatusNotImplemented, nil, http.Header{}), nil
}

func respond(code int, body []byte, h http.Header) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewReader(body)), Header: h}
}

// decodeChunk unwraps a single-chunk aws-chunked body: <hex>\r\n<data>\r\n0\r\n...
func decodeChunk(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	size, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size || !strings.HasPrefix(parts[2], "0") {
		return nil, false
	}
	return []byte(parts[1]), true
}
