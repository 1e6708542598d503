package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/relovedmarket/reloved-backend/internal/orders"
	"github.com/relovedmarket/reloved-backend/pkg/config"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
)

type fakeMediaStore struct {
	signedObject  string
	deletedObject string
}

func (f *fakeMediaStore) Upload(_ context.Context, _, object, _ string, _ io.Reader) (string, error) {
	return "https://storage.googleapis.com/proofs/" + object, nil
}

func (f *fakeMediaStore) SignedReadURL(_, object string, _ time.Duration) (string, error) {
	f.signedObject = object
	return "https://storage.googleapis.com/signed/" + object + "?sig=abc", nil
}

func (f *fakeMediaStore) DeleteObject(_ context.Context, _, object string) error {
	f.deletedObject = object
	return nil
}

type fakeProofOrders struct {
	order       *orders.OrderDTO
	lastUpdate  orders.AdminUpdateInput
	updateCalls int
}

func (f *fakeProofOrders) Get(_ context.Context, _ uuid.UUID) (*orders.OrderDTO, error) {
	if f.order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return f.order, nil
}

func (f *fakeProofOrders) AdminUpdate(_ context.Context, _ uuid.UUID, input orders.AdminUpdateInput) (*orders.OrderDTO, error) {
	f.updateCalls++
	f.lastUpdate = input
	if input.RemovePaymentProof {
		f.order.PaymentProofURL = nil
	}
	return f.order, nil
}

func newProofController(store *fakeMediaStore, ordersFake *fakeProofOrders) *MediaController {
	return &MediaController{
		store:    store,
		orders:   ordersFake,
		gcsCfg:   config.GCSConfig{BucketName: "proofs"},
		mediaCfg: config.MediaConfig{ProofLinkTTL: 15 * time.Minute},
	}
}

func proofRequest(method string, orderID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, "/api/admin/v1/orders/"+orderID.String()+"/payment-proof", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func proofOrder(url string) *orders.OrderDTO {
	dto := &orders.OrderDTO{ID: uuid.New()}
	if url != "" {
		dto.PaymentProofURL = &url
	}
	return dto
}

func TestViewPaymentProofSignsManagedObject(t *testing.T) {
	store := &fakeMediaStore{}
	ordersFake := &fakeProofOrders{order: proofOrder("https://storage.googleapis.com/proofs/payment-proofs/u1/a.jpg")}
	ctrl := newProofController(store, ordersFake)

	resp := httptest.NewRecorder()
	ctrl.ViewPaymentProof(resp, proofRequest(http.MethodGet, ordersFake.order.ID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if store.signedObject != "payment-proofs/u1/a.jpg" {
		t.Fatalf("signed wrong object %q", store.signedObject)
	}
	var payload struct {
		Data struct {
			URL       string    `json:"url"`
			ExpiresAt time.Time `json:"expires_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.URL == "" || payload.Data.ExpiresAt.IsZero() {
		t.Fatalf("expected signed url with expiry, got %+v", payload.Data)
	}
}

func TestViewPaymentProofWithoutProofIsNotFound(t *testing.T) {
	store := &fakeMediaStore{}
	ordersFake := &fakeProofOrders{order: proofOrder("")}
	ctrl := newProofController(store, ordersFake)

	resp := httptest.NewRecorder()
	ctrl.ViewPaymentProof(resp, proofRequest(http.MethodGet, ordersFake.order.ID))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestViewPaymentProofRejectsForeignURL(t *testing.T) {
	store := &fakeMediaStore{}
	ordersFake := &fakeProofOrders{order: proofOrder("https://elsewhere.example.com/proof.jpg")}
	ctrl := newProofController(store, ordersFake)

	resp := httptest.NewRecorder()
	ctrl.ViewPaymentProof(resp, proofRequest(http.MethodGet, ordersFake.order.ID))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if store.signedObject != "" {
		t.Fatalf("must not sign objects outside the managed bucket")
	}
}

func TestDeletePaymentProofRemovesObjectAndReference(t *testing.T) {
	store := &fakeMediaStore{}
	ordersFake := &fakeProofOrders{order: proofOrder("https://storage.googleapis.com/proofs/payment-proofs/u1/b.jpg")}
	ctrl := newProofController(store, ordersFake)

	resp := httptest.NewRecorder()
	ctrl.DeletePaymentProof(resp, proofRequest(http.MethodDelete, ordersFake.order.ID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if store.deletedObject != "payment-proofs/u1/b.jpg" {
		t.Fatalf("deleted wrong object %q", store.deletedObject)
	}
	if ordersFake.updateCalls != 1 || !ordersFake.lastUpdate.RemovePaymentProof {
		t.Fatalf("expected the order reference to be cleared, got %+v", ordersFake.lastUpdate)
	}
}
