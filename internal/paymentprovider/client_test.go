package paymentprovider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

func TestCreateOrder(t *testing.T) {
	t.Run("заказ для Индии в пайсах с basic auth", func(t *testing.T) {
		var got CreateOrderRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/orders", r.URL.Path)

			auth := base64.StdEncoding.EncodeToString([]byte("key:secret"))
			require.Equal(t, "Basic "+auth, r.Header.Get("Authorization"))

			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Order{
				ID:       "order_abc123",
				Amount:   got.Amount,
				Currency: got.Currency,
				Receipt:  got.Receipt,
				Status:   "created",
			})
		}))
		defer srv.Close()

		client := NewClient("key", "secret")
		client.apiURL = srv.URL

		order, err := client.CreateOrder(context.Background(), models.RegionIndia, "user@example.com")
		require.NoError(t, err)
		require.Equal(t, "order_abc123", order.ID)
		require.Equal(t, 49900, got.Amount)
		require.Equal(t, "INR", got.Currency)
	})

	t.Run("неизвестный регион падает на глобальный прайс", func(t *testing.T) {
		var got CreateOrderRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(Order{ID: "order_xyz", Status: "created"})
		}))
		defer srv.Close()

		client := NewClient("key", "secret")
		client.apiURL = srv.URL

		_, err := client.CreateOrder(context.Background(), models.Region("MARS"), "user@example.com")
		require.NoError(t, err)
		require.Equal(t, 999, got.Amount)
		require.Equal(t, "USD", got.Currency)
	})

	t.Run("ошибка провайдера возвращается наружу", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad auth", http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient("key", "wrong")
		client.apiURL = srv.URL

		_, err := client.CreateOrder(context.Background(), models.RegionGlobal, "user@example.com")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unexpected status")
	})
}
