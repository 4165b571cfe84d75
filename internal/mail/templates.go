package mail

import (
	"fmt"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
)

// OrderConfirmation builds the checkout confirmation mail.
func OrderConfirmation(o *model.Order) Message {
	body := fmt.Sprintf(
		`<h2>Thanks for your order!</h2>
<p>Your custom PC build has been received. Track it any time with code <b>%s</b>.</p>
<table>
<tr><td>Components</td><td>₹%d</td></tr>
<tr><td>Build charge</td><td>₹%d</td></tr>
<tr><td>Delivery</td><td>₹%d</td></tr>
<tr><td>GST (18%%)</td><td>₹%d</td></tr>
<tr><td><b>Total</b></td><td><b>₹%d</b></td></tr>
</table>`,
		o.TrackingCode, o.ComponentCost, o.BuildCharge, o.DeliveryCharge, o.GST, o.Total)
	return Message{
		To:            o.CustomerEmail,
		Subject:       fmt.Sprintf("Order %s received", o.TrackingCode),
		HTMLBody:      body,
		AttachmentURL: o.InvoiceURL,
	}
}

// StatusUpdate builds the mail sent when an admin moves an order.
func StatusUpdate(o *model.Order, status model.OrderStatus, message string) Message {
	return Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Order %s update: %s", o.TrackingCode, status),
		HTMLBody: fmt.Sprintf(`<h2>Order update</h2><p>%s</p><p>Tracking code: <b>%s</b></p>`,
			message, o.TrackingCode),
	}
}
