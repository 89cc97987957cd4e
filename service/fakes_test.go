package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/entity"
)

type fakeVerifier struct {
	principal *entity.Principal
	err       error
	calls     int
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*entity.Principal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if token == "" {
		return nil, NewAuthError("Invalid token", nil)
	}
	return f.principal, nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string]entity.StoredObject
	data    map[string][]byte
	putErr  error
	puts    int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects: make(map[string]entity.StoredObject),
		data:    make(map[string][]byte),
	}
}

func (f *fakeBlobStore) PutObjectIfAbsent(_ context.Context, path string, data []byte, contentType string) (*entity.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return nil, f.putErr
	}
	if _, ok := f.objects[path]; ok {
		return nil, fmt.Errorf("put %s: %w", path, ErrObjectExists)
	}
	obj := entity.StoredObject{Path: path, ContentType: contentType, Size: int64(len(data)), CreatedAt: time.Now()}
	f.objects[path] = obj
	f.data[path] = data
	return &obj, nil
}

func (f *fakeBlobStore) PublicURL(path string) string {
	return "https://cdn.example.test/images/" + path
}

func (f *fakeBlobStore) ListObjects(_ context.Context, prefix string, limit int) ([]entity.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.StoredObject
	for p, obj := range f.objects {
		if strings.HasPrefix(p, prefix) && len(out) < limit {
			out = append(out, obj)
		}
	}
	return out, nil
}

type fakeProber struct {
	prefixes []string
	err      error
}

func (f *fakeProber) EnsureDirectory(_ context.Context, prefix string) error {
	f.prefixes = append(f.prefixes, prefix)
	return f.err
}

type fakeCounterStore struct {
	mu      sync.Mutex
	windows map[string][]int64
	ttls    map[string]time.Duration
	getErr  error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{windows: make(map[string][]int64), ttls: make(map[string]time.Duration)}
}

func (f *fakeCounterStore) GetTimestamps(_ context.Context, key string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]int64(nil), f.windows[key]...), nil
}

func (f *fakeCounterStore) SetTimestamps(_ context.Context, key string, timestamps []int64, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[key] = append([]int64(nil), timestamps...)
	f.ttls[key] = ttl
	return nil
}

type fakeAuditSink struct {
	mu   sync.Mutex
	rows []*entity.AuditLog
	err  error
}

func (f *fakeAuditSink) Create(_ context.Context, log *entity.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, log)
	return nil
}

func (f *fakeAuditSink) actions() []entity.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.AuditAction, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r.Action)
	}
	return out
}

type fakePublisher struct {
	events []entity.ImageUploadedEvent
	err    error
}

func (f *fakePublisher) PublishImageUploaded(_ context.Context, event entity.ImageUploadedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeLogger struct {
	mu     sync.Mutex
	errors []string
}

func (f *fakeLogger) InfoWithContextf(context.Context, string, ...interface{}) {}

func (f *fakeLogger) WarningWithContextf(context.Context, string, ...interface{}) {}

func (f *fakeLogger) ErrorWithContextf(_ context.Context, err error, format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, fmt.Sprintf(format, args...)+": "+errString(err))
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

var errBoom = errors.New("boom")
