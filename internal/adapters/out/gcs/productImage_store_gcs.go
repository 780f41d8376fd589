// internal/adapters/out/gcs/productImage_store_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ProductImageStoreGCS is a GCS adapter for product images (object storage).
//
// Layout (single bucket):
// - bucket: <store>-product-images
// - objectPath: products/{productId}/<fileName>
//
// Public access:
//   - If the bucket has IAM "allUsers: Storage Object Viewer" (uniform access),
//     uploaded objects become publicly readable without per-object ACL changes.
type ProductImageStoreGCS struct {
	Client *storage.Client
	Bucket string
	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewProductImageStoreGCS(client *storage.Client, bucket string) *ProductImageStoreGCS {
	return &ProductImageStoreGCS{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

// Upload writes the image bytes to products/{productID}/<filename> and returns
// the public object URL.
func (r *ProductImageStoreGCS) Upload(ctx context.Context, productID, filename, contentType string, data []byte) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("productImage_store_gcs: storage client is nil")
	}
	b := strings.TrimSpace(r.Bucket)
	if b == "" {
		return "", errors.New("productImage_store_gcs: bucket is empty")
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return "", errors.New("productImage_store_gcs: productId is empty")
	}
	name := sanitizeFilename(filename)
	if name == "" {
		return "", errors.New("productImage_store_gcs: filename is empty")
	}
	if len(data) == 0 {
		return "", errors.New("productImage_store_gcs: data is empty")
	}

	objPath := fmt.Sprintf("products/%s/%s", pid, name)

	w := r.Client.Bucket(b).Object(objPath).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	// Safety: avoid writer hanging forever.
	w.ChunkSize = 0
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return r.publicURL(b, objPath), nil
}

// Delete removes the object; a missing object is not an error.
func (r *ProductImageStoreGCS) Delete(ctx context.Context, objectPath string) error {
	if r == nil || r.Client == nil {
		return errors.New("productImage_store_gcs: storage client is nil")
	}
	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return nil
	}
	if err := r.Client.Bucket(r.Bucket).Object(obj).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return err
	}
	return nil
}

// publicURL works when the bucket is publicly readable (uniform access via IAM).
func (r *ProductImageStoreGCS) publicURL(bucket, objectPath string) string {
	base := strings.TrimSpace(r.PublicBaseURL)
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	// Encode path but keep "/" separators.
	parts := strings.Split(objectPath, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, strings.Join(parts, "/"))
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
