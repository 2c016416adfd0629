package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

// ConfirmationMessage renders the order-confirmation text sent to the
// customer over WhatsApp.
func ConfirmationMessage(order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*PAWS ORDER # %s*\n\n", order.ID)
	fmt.Fprintf(&b, "Terima kasih, %s! Pesanan Anda telah kami terima.\n\n", order.Customer.Name)

	b.WriteString("*Detail Pesanan:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s (%s) @ %s\n",
			item.Quantity, item.Name, item.Size, domain.FormatRupiah(item.Price))
	}

	b.WriteString("\n*Rincian Biaya:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", domain.FormatRupiah(order.Subtotal))
	if order.ShippingCost == 0 {
		b.WriteString("Ongkir: GRATIS\n")
	} else {
		fmt.Fprintf(&b, "Ongkir: %s\n", domain.FormatRupiah(order.ShippingCost))
	}
	fmt.Fprintf(&b, "*TOTAL TAGIHAN: %s*\n\n", domain.FormatRupiah(order.GrandTotal))

	b.WriteString("*Info Pengiriman:*\n")
	fmt.Fprintf(&b, "Nama: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "Alamat: %s\n", order.Customer.Address)
	fmt.Fprintf(&b, "No. HP: %s\n\n", order.Customer.Phone)
	b.WriteString("Kami akan segera memproses pesanan Anda.")

	return b.String()
}

// WhatsAppOrderLink builds the pre-filled wa.me link for a confirmed
// order.
func WhatsAppOrderLink(number string, order domain.Order) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(ConfirmationMessage(order))
}

// WhatsAppLink is the plain contact link used by the floating button.
func WhatsAppLink(number string) string {
	return "https://wa.me/" + number
}

// TelegramLink is the t.me contact link used by the floating button.
func TelegramLink(username string) string {
	return "https://t.me/" + username
}
