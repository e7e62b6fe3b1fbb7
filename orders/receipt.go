package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agriconnect/db"
	"agriconnect/globals"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// ReceiptPayload returns the signed string embedded in the receipt QR:
// orderid|timestamp|signature.
func ReceiptPayload(orderID string, ts int64) string {
	data := fmt.Sprintf("%s|%d", orderID, ts)
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyReceiptPayload checks the signature on a scanned payload.
func VerifyReceiptPayload(payload string) bool {
	i := strings.LastIndexByte(payload, '|')
	if i <= 0 {
		return false
	}
	data, sig := payload[:i], payload[i+1:]

	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

// GET /api/orders/:id/receipt
func DownloadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id")}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.Buyer != userID && order.Farmer != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to view this receipt")
		return
	}

	var product models.ProductSummary
	_ = db.ProductCollection.FindOne(ctx, bson.M{"productid": order.Product}).Decode(&product)

	qrPNG, err := qrcode.Encode(ReceiptPayload(order.OrderID, time.Now().Unix()), qrcode.Medium, 128)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "AgriConnect Order Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Order ID: %s\nProduct: %s\nQuantity: %d %s\nTotal: %.2f\nStatus: %s\nPayment: %s (%s)\nDelivery address: %s\nPlaced: %s",
		order.OrderID,
		product.Name,
		order.Quantity,
		product.Unit,
		order.TotalPrice,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.DeliveryAddress,
		order.CreatedAt.Format("02 Jan 2006 15:04"),
	), "", "L", false)

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 60, 40, 40, false, imgOpts, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, "Present this receipt on delivery. The QR code is validated by the courier.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.Write(buf.Bytes())
}
