package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnetkit/tnet/pkg/protocol"
)

func TestWriterReader(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	now := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	records := []Record{
		{Time: now, Conn: 1, Direction: protocol.ToClient, Frame: []byte{6, 0, 22, 10, 0, 5}},
		{Time: now.Add(time.Second), Conn: 1, Direction: protocol.ToServer, Frame: []byte{4, 0, 5, 1}, Rewritten: true},
		{Time: now.Add(2 * time.Second), Conn: 2, Direction: protocol.ToClient, Frame: []byte{3, 0, 3}, Dropped: true},
	}
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, 3, w.Len())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	for _, want := range records {
		got, err := r.Next()
		require.NoError(t, err)
		assert.True(t, want.Time.Equal(got.Time), "time %v != %v", got.Time, want.Time)
		assert.Equal(t, want.Conn, got.Conn)
		assert.Equal(t, want.Direction, got.Direction)
		assert.Equal(t, want.Frame, got.Frame)
		assert.Equal(t, want.Rewritten, got.Rewritten)
		assert.Equal(t, want.Dropped, got.Dropped)
	}
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, r.Close())
}

func TestWriterCopiesFrame(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	frame := []byte{3, 0, 3}
	require.NoError(t, w.Write(Record{Frame: frame}))
	frame[2] = 99
	require.NoError(t, w.Flush())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 3}, rec.Frame)
}

func TestWriterConcurrent(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(conn uint64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, w.Write(Record{Conn: conn, Frame: []byte{3, 0, 3}}))
			}
		}(uint64(i))
	}
	wg.Wait()
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	n := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 400, n)
}

func TestNewReaderRejectsOtherStreams(t *testing.T) {
	_, err := NewReader(strings.NewReader("not a capture"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = NewReader(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReaderTruncated(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{Conn: 7, Frame: []byte{6, 0, 22, 10, 0, 5}}))
	require.NoError(t, w.Close())

	data := buf.Bytes()[:buf.Len()-2]
	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestCreateOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w, err := Create(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(w.Path()))
	assert.Equal(t, Ext, filepath.Ext(w.Path()))

	require.NoError(t, w.Write(Record{Conn: 3, Direction: protocol.ToServer, Frame: []byte{4, 0, 5, 2}}))
	require.NoError(t, w.Close())

	r, err := Open(w.Path())
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec.Conn)
	assert.Equal(t, protocol.ToServer, rec.Direction)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.tnc"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "junk.tnc")
	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o644))
	_, err = Open(path)
	assert.ErrorIs(t, err, ErrFormat)
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Upload(t *testing.T) {
	w, err := Create(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{Conn: 1, Frame: []byte{3, 0, 3}}))
	require.NoError(t, w.Close())

	fake := &fakePutter{}
	up := newS3Uploader(fake, "bucket", "tnet/")

	key, err := up.Upload(context.Background(), w.Path())
	require.NoError(t, err)
	assert.Equal(t, "tnet/"+filepath.Base(w.Path()), key)

	assert.Equal(t, "bucket", aws.ToString(fake.in.Bucket))
	assert.Equal(t, key, aws.ToString(fake.in.Key))
	assert.Equal(t, Format, fake.in.Metadata["format"])

	want, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	assert.Equal(t, want, fake.body)
	assert.Equal(t, int64(len(want)), aws.ToInt64(fake.in.ContentLength))
}

func TestS3UploadErrors(t *testing.T) {
	up := newS3Uploader(&fakePutter{}, "bucket", "")
	_, err := up.Upload(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "c.tnc")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	boom := errors.New("access denied")
	up = newS3Uploader(&fakePutter{err: boom}, "bucket", "")
	_, err = up.Upload(context.Background(), path)
	assert.ErrorIs(t, err, boom)
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	_, err := envCredentials(context.Background())
	assert.Error(t, err)

	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "tok")
	creds, err := envCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "tok", creds.SessionToken)

	assert.NotNil(t, NewS3Uploader(S3Options{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000"}))
}
