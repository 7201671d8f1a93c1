package profileprovider_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Amund211/profilelookup/internal/adapters/upstream"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/stretchr/testify/require"
)

type mockedResponse struct {
	statusCode int
	body       string
	err        error
}

// mockUpstreamClient answers like upstream.Client: failures >= 400 become *domain.UpstreamError
type mockUpstreamClient struct {
	t         *testing.T
	responses map[string]mockedResponse

	mutex sync.Mutex
	calls []string
}

func newMockUpstreamClient(t *testing.T, responses map[string]mockedResponse) *mockUpstreamClient {
	return &mockUpstreamClient{t: t, responses: responses}
}

func (m *mockUpstreamClient) Get(ctx context.Context, url string) (upstream.Response, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls = append(m.calls, url)

	resp, ok := m.responses[url]
	require.True(m.t, ok, "unexpected request to %s", url)

	if resp.err != nil {
		return upstream.Response{}, resp.err
	}

	if resp.statusCode >= 400 {
		kind := domain.ErrUpstreamClient
		if resp.statusCode >= 500 {
			kind = domain.ErrUpstreamUnavailable
		}
		return upstream.Response{}, &domain.UpstreamError{
			Kind:       kind,
			StatusCode: resp.statusCode,
			Body:       resp.body,
		}
	}

	return upstream.Response{StatusCode: resp.statusCode, Body: []byte(resp.body)}, nil
}

func (m *mockUpstreamClient) callCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.calls)
}

func requireValidationError(t *testing.T, err error, fields ...string) {
	t.Helper()

	require.ErrorIs(t, err, domain.ErrInvalidParams)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	for _, field := range fields {
		require.Contains(t, validationErr.Fields, field)
	}
	require.Len(t, validationErr.Fields, len(fields))
}

func requireExternalStatus(t *testing.T, err error, expected int) {
	t.Helper()

	statusCode, ok := domain.ExternalStatusCode(err)
	require.True(t, ok)
	require.Equal(t, expected, statusCode)
}
