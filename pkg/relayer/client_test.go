package relayer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cross-swap/pkg/types"
)

func TestSubmitPostsOrder(t *testing.T) {
	var got types.SubmitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/submit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(SubmitResponse{OrderHash: "0xabc", Status: types.StatusPending})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Submit(context.Background(), &types.SubmitRequest{
		FromChain:  "11155111",
		ToChain:    "cosmoshub-4",
		Amount:     "1000000000000000000",
		SecretHash: "0xdeadbeef",
	})
	require.NoError(t, err)

	assert.Equal(t, "0xabc", resp.OrderHash)
	assert.Equal(t, types.StatusPending, resp.Status)
	assert.Equal(t, "11155111", got.FromChain)
	assert.Equal(t, "0xdeadbeef", got.SecretHash)
}

func TestReadyFillsParsesIndices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders/0xabc/ready-fills", r.URL.Path)
		w.Write([]byte(`{"fills":[{"idx":0},{"idx":2}]}`))
	}))
	defer server.Close()

	fills, err := NewClient(server.URL).ReadyFills(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []types.ReadyFill{{Idx: 0}, {Idx: 2}}, fills)
}

func TestSubmitSecretPostsIndexAndSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders/0xabc/secret", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["idx"])
		assert.Equal(t, "0xsecret", body["secret"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := NewClient(server.URL).SubmitSecret(context.Background(), "0xabc", 3, "0xsecret")
	require.NoError(t, err)
}

func TestErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"secret hash mismatch"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Status(context.Background(), "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "secret hash mismatch")
}

func TestRawBodySurfacedWhenNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Status(context.Background(), "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}
