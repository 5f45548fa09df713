package embedding

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubEmbeddingAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[3,4]}],"model":"text-embedding-3-small"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newStubbedEmbedder(t *testing.T, srv *httptest.Server) *OpenAIEmbedder {
	t.Helper()
	t.Setenv("TEST_OPENAI_KEY", "test-key")
	emb, err := NewOpenAIEmbedder(OpenAIConfig{APIKeyEnv: "TEST_OPENAI_KEY", BaseURL: srv.URL})
	require.NoError(t, err)
	return emb
}

func TestOpenAIEmbedderMissingKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "")
	_, err := NewOpenAIEmbedder(OpenAIConfig{APIKeyEnv: "TEST_OPENAI_KEY"})
	assert.Error(t, err)
}

func TestOpenAIEmbedderNormalizes(t *testing.T) {
	emb := newStubbedEmbedder(t, newStubEmbeddingAPI(t))

	vec, err := emb.Embed("contract term")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
}

func TestOpenAIEmbedderRejectsEmptyText(t *testing.T) {
	emb := newStubbedEmbedder(t, newStubEmbeddingAPI(t))

	_, err := emb.Embed("")
	assert.Error(t, err)
}

// Concurrent searches share one embedder, so Embed must not mutate it.
// Run with the race detector.
func TestOpenAIEmbedderConcurrentEmbed(t *testing.T) {
	emb := newStubbedEmbedder(t, newStubEmbeddingAPI(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := emb.Embed("payment terms")
			assert.NoError(t, err)
			assert.Len(t, vec, 2)
			assert.Equal(t, 1536, emb.Dimension())
		}()
	}
	wg.Wait()
}
