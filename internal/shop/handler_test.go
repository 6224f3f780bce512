package shop

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/coffeeshop/internal/dispatch"
	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	orders []domain.CoffeeBrew
}

func (d *fakeDispatcher) Dispatch(_ context.Context, order domain.CoffeeBrew) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orders = append(d.orders, order)
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.orders)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(registry *Registry, dispatcher Dispatcher) http.Handler {
	handler := NewHandler(registry, dispatcher, "/coffee-shop", discardLogger())
	r := chi.NewRouter()
	r.Route("/coffee-shop", handler.Routes)
	return r
}

func postBrew(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/coffee-shop/brews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("accepts a valid order and dispatches it once", func(t *testing.T) {
		registry := NewRegistry()
		dispatcher := &fakeDispatcher{}
		router := newTestRouter(registry, dispatcher)

		rec := postBrew(router, `{"type":"POUR_OVER"}`)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected status 202, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json, got %s", rec.Header().Get("Content-Type"))
		}

		var order domain.CoffeeBrew
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.ID == "" {
			t.Error("expected an order id")
		}
		if order.Type != domain.CoffeeTypePourOver {
			t.Errorf("expected POUR_OVER, got %s", order.Type)
		}
		if order.Status != domain.OrderStatusNew {
			t.Errorf("expected NEW, got %s", order.Status)
		}
		if want := "http://example.com/coffee-shop/brews/" + order.ID; order.Self != want {
			t.Errorf("expected _self %s, got %s", want, order.Self)
		}

		if dispatcher.count() != 1 {
			t.Errorf("expected 1 dispatch, got %d", dispatcher.count())
		}
		if registry.Len() != 1 {
			t.Errorf("expected 1 registered order, got %d", registry.Len())
		}
	})

	t.Run("accepts the lower-cased wire form", func(t *testing.T) {
		dispatcher := &fakeDispatcher{}
		rec := postBrew(newTestRouter(NewRegistry(), dispatcher), `{"type":"latte"}`)

		if rec.Code != http.StatusAccepted {
			t.Errorf("expected status 202, got %d", rec.Code)
		}
		if dispatcher.orders[0].Type != domain.CoffeeTypeLatte {
			t.Errorf("expected LATTE, got %s", dispatcher.orders[0].Type)
		}
	})

	rejected := []struct {
		name, body, wantError string
	}{
		{"malformed json", `{"type":`, "invalid request body"},
		{"empty body", ``, "invalid request body"},
		{"missing type", `{}`, "invalid type: coffee type is required"},
		{"null type", `{"type":null}`, "invalid type: coffee type is required"},
		{"unknown type", `{"type":"MOCHA"}`, `invalid type: unknown coffee type: "MOCHA"`},
	}
	for _, tc := range rejected {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			registry := NewRegistry()
			dispatcher := &fakeDispatcher{}

			rec := postBrew(newTestRouter(registry, dispatcher), tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["error"] != tc.wantError {
				t.Errorf("expected error %q, got %q", tc.wantError, body["error"])
			}
			if dispatcher.count() != 0 {
				t.Errorf("expected no dispatch, got %d", dispatcher.count())
			}
			if registry.Len() != 0 {
				t.Errorf("expected no registered order, got %d", registry.Len())
			}
		})
	}
}

func TestHandler_HandleGet(t *testing.T) {
	registry := NewRegistry()
	order, _ := domain.NewCoffeeBrew("order-1", domain.CoffeeTypeEspresso, time.Now())
	registry.Add(*order)
	router := newTestRouter(registry, &fakeDispatcher{})

	t.Run("returns a registered order", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coffee-shop/brews/order-1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var got domain.CoffeeBrew
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got.ID != "order-1" || got.Self != "http://example.com/coffee-shop/brews/order-1" {
			t.Errorf("unexpected order: %+v", got)
		}
	})

	t.Run("returns 404 for unknown orders", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coffee-shop/brews/missing", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleList(t *testing.T) {
	registry := NewRegistry()
	now := time.Now()
	second, _ := domain.NewCoffeeBrew("second", domain.CoffeeTypeLatte, now)
	first, _ := domain.NewCoffeeBrew("first", domain.CoffeeTypeEspresso, now.Add(-time.Minute))
	registry.Add(*second)
	registry.Add(*first)

	rec := httptest.NewRecorder()
	newTestRouter(registry, &fakeDispatcher{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coffee-shop/brews", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got []domain.CoffeeBrew
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 || got[0].ID != "first" || got[1].ID != "second" {
		t.Fatalf("expected [first second], got %+v", got)
	}
	if got[0].Self == "" {
		t.Error("expected _self on listed orders")
	}
}

func waitForStatus(t *testing.T, registry *Registry, id string, want domain.OrderStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if o, err := registry.Get(id); err == nil && o.Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	o, _ := registry.Get(id)
	t.Fatalf("expected order %s to reach %s, got %s", id, want, o.Status)
}

func TestHandler_DoesNotWaitForBarista(t *testing.T) {
	release := make(chan struct{})
	var (
		mu   sync.Mutex
		hits []domain.BrewRequest
	)
	barista := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.BrewRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		hits = append(hits, req)
		mu.Unlock()
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer barista.Close()

	registry := NewRegistry()
	d := dispatch.New(
		dispatch.NewBaristaClient(barista.URL+"/barista", barista.Client()),
		discardLogger(),
		dispatch.WithStatusUpdater(registry),
	)
	d.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.Shutdown(ctx)
	}()

	start := time.Now()
	rec := postBrew(newTestRouter(registry, d), `{"type":"POUR_OVER"}`)
	elapsed := time.Since(start)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	if elapsed > time.Second {
		t.Errorf("expected the response before the barista answered, took %s", elapsed)
	}

	var order domain.CoffeeBrew
	if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if order.Status != domain.OrderStatusNew {
		t.Errorf("expected NEW, got %s", order.Status)
	}

	close(release)
	waitForStatus(t, registry, order.ID, domain.OrderStatusInProgress)

	mu.Lock()
	defer mu.Unlock()
	if len(hits) != 1 || hits[0].Type != "pour_over" {
		t.Errorf("expected one pour_over request, got %+v", hits)
	}
}

func TestHandler_BaristaFailureStillAccepted(t *testing.T) {
	results := make(chan dispatch.Result, 1)
	barista := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer barista.Close()

	registry := NewRegistry()
	d := dispatch.New(
		dispatch.NewBaristaClient(barista.URL, barista.Client()),
		discardLogger(),
		dispatch.WithStatusUpdater(registry),
		dispatch.WithResultHook(func(r dispatch.Result) { results <- r }),
	)
	d.Start()
	defer func() { _ = d.Shutdown(context.Background()) }()

	rec := postBrew(newTestRouter(registry, d), `{"type":"ESPRESSO"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}

	select {
	case r := <-results:
		if r.Err == nil {
			t.Fatal("expected a dispatch failure")
		}
		o, err := registry.Get(r.OrderID)
		if err != nil {
			t.Fatalf("expected order to stay registered: %v", err)
		}
		if o.Status != domain.OrderStatusNew {
			t.Errorf("expected NEW after failed dispatch, got %s", o.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatch result")
	}
}
