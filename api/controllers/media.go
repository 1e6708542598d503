package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/relovedmarket/reloved-backend/api/responses"
	"github.com/relovedmarket/reloved-backend/internal/orders"
	"github.com/relovedmarket/reloved-backend/pkg/config"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
)

// MediaStore is the slice of the storage client the media handlers use.
// Proof objects live in a private bucket; admins read them through
// short-lived signed URLs.
type MediaStore interface {
	Upload(ctx context.Context, bucket, object, contentType string, body io.Reader) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// proofOrders is the order lookup the proof handlers need.
type proofOrders interface {
	Get(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error)
	AdminUpdate(ctx context.Context, orderID uuid.UUID, input orders.AdminUpdateInput) (*orders.OrderDTO, error)
}

// MediaController accepts payment proof images and stores them in the proof
// bucket. Only the resulting URL ever reaches the order records; reads and
// removals go back through the bucket on behalf of admins.
type MediaController struct {
	store    MediaStore
	orders   proofOrders
	gcsCfg   config.GCSConfig
	mediaCfg config.MediaConfig
	logg     *logger.Logger
}

func NewMediaController(store MediaStore, ordersSvc orders.Service, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig, logg *logger.Logger) *MediaController {
	return &MediaController{store: store, orders: ordersSvc, gcsCfg: gcsCfg, mediaCfg: mediaCfg, logg: logg}
}

func (c *MediaController) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	if c.store == nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeDependency, "media storage unavailable"))
		return
	}

	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	maxBytes := int64(c.mediaCfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("proof image must be at most %d MB", c.mediaCfg.MaxUploadMB)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "proof must be an image"))
		return
	}

	object := fmt.Sprintf("payment-proofs/%s/%s%s", userID, uuid.NewString(), path.Ext(header.Filename))

	ctx := r.Context()
	if c.gcsCfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.gcsCfg.UploadTimeout)
		defer cancel()
	}

	url, err := c.store.Upload(ctx, c.gcsCfg.BucketName, object, contentType, file)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store proof image"))
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
		"url":         url,
		"object":      object,
		"uploaded_at": time.Now().UTC(),
	})
}

// ViewPaymentProof hands an admin a short-lived signed read URL for the
// order's proof image. The bucket itself stays private.
func (c *MediaController) ViewPaymentProof(w http.ResponseWriter, r *http.Request) {
	object, _, err := c.proofObject(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	ttl := c.mediaCfg.ProofLinkTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	signed, err := c.store.SignedReadURL(c.gcsCfg.BucketName, object, ttl)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign proof url"))
		return
	}

	responses.WriteSuccess(w, map[string]any{
		"url":        signed,
		"expires_at": time.Now().UTC().Add(ttl),
	})
}

// DeletePaymentProof removes the proof object and clears the order's
// reference to it.
func (c *MediaController) DeletePaymentProof(w http.ResponseWriter, r *http.Request) {
	object, orderID, err := c.proofObject(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.store.DeleteObject(r.Context(), c.gcsCfg.BucketName, object); err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete proof object"))
		return
	}

	order, err := c.orders.AdminUpdate(r.Context(), orderID, orders.AdminUpdateInput{RemovePaymentProof: true})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

// proofObject resolves the order's stored proof URL into a bucket object
// name, rejecting orders without a managed proof on file.
func (c *MediaController) proofObject(r *http.Request) (string, uuid.UUID, error) {
	if c.store == nil || c.orders == nil {
		return "", uuid.Nil, pkgerrors.New(pkgerrors.CodeDependency, "media storage unavailable")
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		return "", uuid.Nil, err
	}
	order, err := c.orders.Get(r.Context(), orderID)
	if err != nil {
		return "", uuid.Nil, err
	}
	if order.PaymentProofURL == nil || *order.PaymentProofURL == "" {
		return "", uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "no payment proof on file")
	}
	object := objectFromProofURL(*order.PaymentProofURL, c.gcsCfg.BucketName)
	if object == "" {
		return "", uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment proof is not in managed storage")
	}
	return object, orderID, nil
}

// objectFromProofURL strips the canonical storage host and bucket from a
// stored proof URL. Anything else returns empty.
func objectFromProofURL(raw, bucket string) string {
	prefix := "https://storage.googleapis.com/" + bucket + "/"
	if bucket == "" || !strings.HasPrefix(raw, prefix) {
		return ""
	}
	return strings.TrimPrefix(raw, prefix)
}
