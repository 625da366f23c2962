//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mvolkova/warehouse-be/internal/adapters/db"
	"github.com/mvolkova/warehouse-be/internal/core/services"
	"github.com/mvolkova/warehouse-be/internal/handlers"
	"github.com/mvolkova/warehouse-be/test/helpers"
)

// WarehouseE2ESuite drives the whole posting workflow through the HTTP
// surface against a real database: catalog setup, an outcome invoice that
// moves stock and snapshots prices, the insufficient stock rejection, and
// the rule that deleting an invoice does not restock.
type WarehouseE2ESuite struct {
	suite.Suite
	server  *httptest.Server
	client  *http.Client
	baseURL string
	testDB  *helpers.TestDB
}

func (s *WarehouseE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.server = httptest.NewServer(s.buildRouter())
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *WarehouseE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *WarehouseE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *WarehouseE2ESuite) buildRouter() http.Handler {
	logger := helpers.TestLogger()
	database := s.testDB.Database

	partnerRepo := db.NewPartnerRepository(database, logger)
	producerRepo := db.NewProducerRepository(database, logger)
	workerRepo := db.NewWorkerRepository(database, logger)
	groupRepo := db.NewProductGroupRepository(database, logger)
	productRepo := db.NewProductRepository(database, logger)
	invoiceRepo := db.NewInvoiceRepository(database, logger)

	partnerService := services.NewPartnerService(partnerRepo, logger)
	producerService := services.NewProducerService(producerRepo, logger)
	workerService := services.NewWorkerService(workerRepo, logger)
	groupService := services.NewProductGroupService(groupRepo, logger)
	productService := services.NewProductService(productRepo, groupRepo, producerRepo, nil, logger)
	invoiceService := services.NewInvoiceService(
		database, invoiceRepo, productRepo, partnerRepo, workerRepo, nil, nil, 5, logger)

	partnerHandler := handlers.NewPartnerHandler(partnerService, logger)
	producerHandler := handlers.NewProducerHandler(producerService, logger)
	workerHandler := handlers.NewWorkerHandler(workerService, logger)
	groupHandler := handlers.NewProductGroupHandler(groupService, logger)
	productHandler := handlers.NewProductHandler(productService, logger)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, logger)
	exportHandler := handlers.NewExportHandler(productService, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/partners", partnerHandler.Create)
	mux.HandleFunc("GET /api/v1/partners", partnerHandler.List)
	mux.HandleFunc("POST /api/v1/producers", producerHandler.Create)
	mux.HandleFunc("POST /api/v1/workers", workerHandler.Create)
	mux.HandleFunc("POST /api/v1/groups", groupHandler.Create)
	mux.HandleFunc("POST /api/v1/products", productHandler.Create)
	mux.HandleFunc("GET /api/v1/products/{id}", productHandler.Get)
	mux.HandleFunc("POST /api/v1/invoices", invoiceHandler.Create)
	mux.HandleFunc("GET /api/v1/invoices/{id}", invoiceHandler.Get)
	mux.HandleFunc("DELETE /api/v1/invoices/{id}", invoiceHandler.Delete)
	mux.HandleFunc("GET /api/v1/export/products.xlsx", exportHandler.ExportProducts)
	return mux
}

// seedCatalog creates the references an invoice needs and returns the
// product and actor ids.
func (s *WarehouseE2ESuite) seedCatalog(quantity int) (productID, partnerID, workerID int64) {
	resp := s.makeRequest("POST", "/groups", map[string]any{"name": "Beverages"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.drain(resp)

	resp = s.makeRequest("POST", "/producers", map[string]any{
		"name":    "Acme Foods",
		"address": "12 Cannery Row, Monterey",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.drain(resp)

	var partner map[string]any
	resp = s.makeRequest("POST", "/partners", map[string]any{
		"name":       "Northwind Traders",
		"address":    "1 Harbor Street, Tallinn",
		"email":      "orders@northwind.example",
		"requisites": "NW-001-2026",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &partner)

	var worker map[string]any
	resp = s.makeRequest("POST", "/workers", map[string]any{
		"name": "Ivan Petrov",
		"job":  "storekeeper",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &worker)

	var product map[string]any
	resp = s.makeRequest("POST", "/products", map[string]any{
		"name":          "Mineral Water 0.5L",
		"group":         "Beverages",
		"producer":      "Acme Foods",
		"quantity":      quantity,
		"income_price":  "0.40",
		"outcome_price": "0.75",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &product)

	return int64(product["id"].(float64)),
		int64(partner["id"].(float64)),
		int64(worker["id"].(float64))
}

func (s *WarehouseE2ESuite) productQuantity(productID int64) int {
	resp := s.makeRequest("GET", fmt.Sprintf("/products/%d", productID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var product map[string]any
	s.decodeResponse(resp, &product)
	return int(product["quantity"].(float64))
}

func (s *WarehouseE2ESuite) TestOutcomePostingWorkflow() {
	productID, partnerID, workerID := s.seedCatalog(10)

	// Post an outcome invoice for 4 units.
	resp := s.makeRequest("POST", "/invoices", map[string]any{
		"partner_id": partnerID,
		"worker_id":  workerID,
		"type":       "outcome",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 4},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var invoice map[string]any
	s.decodeResponse(resp, &invoice)
	invoiceID := int64(invoice["id"].(float64))
	s.NotZero(invoiceID)
	s.Equal("Northwind Traders", invoice["partner_name"])
	s.Equal("Ivan Petrov", invoice["worker_name"])

	items := invoice["items"].([]any)
	s.Require().Len(items, 1)
	line := items[0].(map[string]any)
	s.Equal("Mineral Water 0.5L", line["product_name"])
	s.Equal("0.75", line["price"])

	// Stock dropped from 10 to 6.
	s.Equal(6, s.productQuantity(productID))

	// A posted line keeps its price even after the catalog changes.
	resp = s.makeRequest("GET", fmt.Sprintf("/invoices/%d", invoiceID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &invoice)
	s.Equal("0.75", invoice["items"].([]any)[0].(map[string]any)["price"])
}

func (s *WarehouseE2ESuite) TestInsufficientStockRollsBackPosting() {
	productID, partnerID, workerID := s.seedCatalog(10)

	resp := s.makeRequest("POST", "/invoices", map[string]any{
		"partner_id": partnerID,
		"worker_id":  workerID,
		"type":       "outcome",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 15},
		},
	})
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	var errBody map[string]any
	s.decodeResponse(resp, &errBody)
	details := errBody["details"].(map[string]any)
	s.Equal("Mineral Water 0.5L", details["product"])
	s.Equal(float64(15), details["required"])
	s.Equal(float64(10), details["available"])

	// The rejected posting left no trace: stock intact, no invoice rows.
	s.Equal(10, s.productQuantity(productID))
}

func (s *WarehouseE2ESuite) TestIncomePostingRestocks() {
	productID, partnerID, workerID := s.seedCatalog(10)

	resp := s.makeRequest("POST", "/invoices", map[string]any{
		"partner_id": partnerID,
		"worker_id":  workerID,
		"type":       "income",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 30},
		},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var invoice map[string]any
	s.decodeResponse(resp, &invoice)
	s.Equal("0.4", invoice["items"].([]any)[0].(map[string]any)["price"])

	s.Equal(40, s.productQuantity(productID))
}

func (s *WarehouseE2ESuite) TestDeleteInvoiceKeepsStockMovements() {
	productID, partnerID, workerID := s.seedCatalog(10)

	resp := s.makeRequest("POST", "/invoices", map[string]any{
		"partner_id": partnerID,
		"worker_id":  workerID,
		"type":       "outcome",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 4},
		},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var invoice map[string]any
	s.decodeResponse(resp, &invoice)
	invoiceID := int64(invoice["id"].(float64))

	resp = s.makeRequest("DELETE", fmt.Sprintf("/invoices/%d", invoiceID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.drain(resp)

	resp = s.makeRequest("GET", fmt.Sprintf("/invoices/%d", invoiceID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.drain(resp)

	// The shipment still happened; stock stays at 6.
	s.Equal(6, s.productQuantity(productID))
}

func (s *WarehouseE2ESuite) TestExportProducts() {
	s.seedCatalog(10)

	resp := s.makeRequest("GET", "/export/products.xlsx", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	s.drain(resp)
}

// Helper methods

func (s *WarehouseE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *WarehouseE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *WarehouseE2ESuite) drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func TestWarehouseE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(WarehouseE2ESuite))
}
