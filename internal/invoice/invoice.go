// Package invoice renders order invoices as PDF and publishes them to the
// storage bucket.
package invoice

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
)

type Generator interface {
	// Generate renders the invoice for the order and returns its public URL.
	Generate(ctx context.Context, o *model.Order, selections []model.BuildSelection) (string, error)
}

type generator struct {
	client *storage.Client
	bucket string
	log    *zap.Logger
}

func NewGenerator(client *storage.Client, bucket string, log *zap.Logger) Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &generator{client: client, bucket: bucket, log: log}
}

func (g *generator) Generate(ctx context.Context, o *model.Order, selections []model.BuildSelection) (string, error) {
	pdf, err := Render(o, selections)
	if err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	objectPath := fmt.Sprintf("invoices/order-%d.pdf", o.ID)
	u, err := g.upload(ctx, objectPath, pdf)
	if err != nil {
		return "", fmt.Errorf("upload invoice: %w", err)
	}
	g.log.Info("invoice published", zap.Uint64("order_id", o.ID), zap.String("url", u))
	return u, nil
}

func (g *generator) upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	token := uuid.NewString()
	obj := g.client.Bucket(g.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = "application/pdf"
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	escapedPath := url.PathEscape(objectPath)
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		g.bucket, escapedPath, token), nil
}

// Render produces the invoice PDF bytes for an order.
func Render(o *model.Order, selections []model.BuildSelection) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Invoice %s", o.TrackingCode), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, "NexBuild Invoice")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 6, fmt.Sprintf("Order #%d", o.ID))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Tracking code: %s", o.TrackingCode))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Date: %s", o.CreatedAt.Format("02 Jan 2006")))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(90, 7, "Component", "1", 0, "L", false, 0, "")
	doc.CellFormat(30, 7, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(40, 7, "Price (Rs)", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, sel := range selections {
		doc.CellFormat(90, 7, fmt.Sprintf("%s (%s)", sel.ComponentName, sel.Category), "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%d", sel.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 7, fmt.Sprintf("%d", sel.UnitPrice*int64(sel.Quantity)), "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	rows := []struct {
		label string
		value int64
	}{
		{"Component cost", o.ComponentCost},
		{"Build charge", o.BuildCharge},
		{"Delivery charge", o.DeliveryCharge},
		{"GST (18%)", o.GST},
		{"Grand total", o.Total},
	}
	for i, row := range rows {
		if i == len(rows)-1 {
			doc.SetFont("Helvetica", "B", 11)
		}
		doc.CellFormat(120, 7, row.label, "", 0, "R", false, 0, "")
		doc.CellFormat(40, 7, fmt.Sprintf("%d", row.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
