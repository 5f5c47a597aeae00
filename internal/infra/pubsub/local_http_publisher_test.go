package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"addrsvc/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHTTPPublisher_PublishAddressCreated(t *testing.T) {
	var got PubSubPushMessage
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer publisher.Close()

	event := &service.AddressCreatedEvent{
		RequestID: "req-123",
		AddressID: "0b0c3bbb-2b3a-4b46-9466-6e1e46e6a041",
		Key:       "rossiia-moskva-moskva-tverskaia-1",
		Address:   "г Москва, ул Тверская, д 1",
		Provider:  "dadata",
		Source:    "г москва, ул тверская, 1",
	}
	require.NoError(t, publisher.PublishAddressCreated(context.Background(), event))

	assert.Equal(t, "req-123", gotRequestID)
	assert.Equal(t, event.AddressID, got.Message.MessageID)
	assert.Equal(t, "projects/local/subscriptions/address-created-sub", got.Subscription)
	assert.Equal(t, event.AddressID, got.Message.Attributes["address_id"])
	assert.Equal(t, "dadata", got.Message.Attributes["provider"])
	assert.Equal(t, "req-123", got.Message.Attributes["request_id"])

	payload, err := base64.StdEncoding.DecodeString(got.Message.Data)
	require.NoError(t, err)

	var decoded service.AddressCreatedEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_SubscriberFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := publisher.PublishAddressCreated(context.Background(), &service.AddressCreatedEvent{
		AddressID: "0b0c3bbb-2b3a-4b46-9466-6e1e46e6a041",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-success")
}
