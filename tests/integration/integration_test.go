//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nmoroz/shopfile/internal/handler"
	"github.com/nmoroz/shopfile/internal/storage/jsonfile"
	"github.com/nmoroz/shopfile/pkg/health"
	"github.com/nmoroz/shopfile/pkg/httpmiddleware"
)

// Response types are defined locally to keep the tests black-box with
// respect to the wire format.

type productResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Status      bool     `json:"status"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

type lineItemResponse struct {
	Product  int `json:"product"`
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	ID       int                `json:"id"`
	Products []lineItemResponse `json:"products"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newServer assembles the full HTTP stack (router, health endpoints,
// middleware chain) over temp-dir collection files, the same way the
// application wires it.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	lg := zap.NewNop()

	products, err := jsonfile.NewProductStore(filepath.Join(dir, "products.json"), lg)
	if err != nil {
		t.Fatalf("open product store: %v", err)
	}
	carts, err := jsonfile.NewCartStore(filepath.Join(dir, "carts.json"), lg)
	if err != nil {
		t.Fatalf("open cart store: %v", err)
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("products", time.Second, products.Ping)
	healthSvc.AddReadinessCheck("carts", time.Second, carts.Ping)
	healthSvc.SetReady(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", handler.New(products, carts).Routes()))

	srv := httptest.NewServer(httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
	))
	t.Cleanup(srv.Close)
	return srv
}

func doReq(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
