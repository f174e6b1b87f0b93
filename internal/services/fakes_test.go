package services

import (
	"context"
	"sync"

	"github.com/s3-uploads-api/internal/models"
	"github.com/s3-uploads-api/internal/storage"
)

type memorySettingsStore struct {
	mu      sync.Mutex
	data    map[string]map[string]string
	getErr  error
	setErr  error
	getCall int
}

func newMemorySettingsStore(fields map[string]string) *memorySettingsStore {
	s := &memorySettingsStore{data: map[string]map[string]string{}}
	if fields != nil {
		s.data[models.Namespace] = fields
	}
	return s
}

func (m *memorySettingsStore) GetFields(_ context.Context, namespace string, keys []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCall++
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := m.data[namespace][k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memorySettingsStore) SetFields(_ context.Context, namespace string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	if m.data[namespace] == nil {
		m.data[namespace] = map[string]string{}
	}
	for k, v := range values {
		m.data[namespace][k] = v
	}
	return nil
}

type recordingApplier struct {
	credentials [][2]string
	regions     []string
}

func (r *recordingApplier) ApplyCredentials(id, secret string) {
	r.credentials = append(r.credentials, [2]string{id, secret})
}

func (r *recordingApplier) ApplyRegion(region string) {
	r.regions = append(r.regions, region)
}

// memoryObjectStore keeps objects by bucket/key.
type memoryObjectStore struct {
	mu      sync.Mutex
	objects map[string]*storage.PutInput
	err     error
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: map[string]*storage.PutInput{}}
}

func (m *memoryObjectStore) PutObject(_ context.Context, in *storage.PutInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.objects[in.Bucket+"/"+in.Key] = in
	return nil
}

func (m *memoryObjectStore) get(bucket, key string) *storage.PutInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[bucket+"/"+key]
}

type stubTransformer struct {
	body      []byte
	err       error
	gotURL    string
	gotDimens int
}

func (s *stubTransformer) Transform(_ context.Context, url string, dimension int) ([]byte, error) {
	s.gotURL, s.gotDimens = url, dimension
	return s.body, s.err
}

type staticSettings struct {
	s *models.Settings
}

func (s staticSettings) Current() *models.Settings { return s.s }

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) PublishSettingsChanged(context.Context) error {
	r.calls++
	return r.err
}
