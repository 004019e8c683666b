// Package whatsapp composes WhatsApp deep links that notify patients and
// professionals about bookings. There is no WhatsApp API involved: a wa.me
// link with a pre-filled message is the whole integration.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultCountryCode is the Brazilian calling code.
const DefaultCountryCode = "55"

// FormatPhone normalizes a free-form phone number to the international
// digits-only form wa.me expects: non-digits are removed, a single leading
// zero (trunk prefix) is dropped, and the country code is prepended unless
// the number already carries it. Numbers longer than 11 digits are assumed
// to already be international.
func FormatPhone(phone, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	cleaned = strings.TrimPrefix(cleaned, "0")

	if !strings.HasPrefix(cleaned, countryCode) && len(cleaned) <= 11 {
		cleaned = countryCode + cleaned
	}
	return cleaned
}

// Link builds a wa.me deep link that opens a chat with the given phone and
// the message pre-filled.
func Link(phone, countryCode, message string) string {
	query := url.Values{"text": {message}}
	return "https://wa.me/" + FormatPhone(phone, countryCode) + "?" + query.Encode()
}

// ConfirmationData carries the fields the message templates interpolate.
type ConfirmationData struct {
	PatientName      string
	PatientPhone     string
	ServiceName      string
	Date             string // dd/MM/yyyy
	Time             string // HH:MM
	ProfessionalName string
}

// ClientConfirmationMessage is the message sent to the patient right after
// a booking is confirmed.
func ClientConfirmationMessage(d ConfirmationData) string {
	professionalLine := ""
	if d.ProfessionalName != "" {
		professionalLine = fmt.Sprintf("👤 Profissional: %s\n", d.ProfessionalName)
	}
	return fmt.Sprintf(`Olá %s! ✅

Seu agendamento foi confirmado com sucesso!

📋 Serviço: %s
📅 Data: %s
⏰ Horário: %s
%s
Qualquer dúvida, entre em contato conosco.

Obrigado!`, d.PatientName, d.ServiceName, d.Date, d.Time, professionalLine)
}

// ProfessionalAlertMessage tells the professional a new booking arrived.
func ProfessionalAlertMessage(d ConfirmationData) string {
	return fmt.Sprintf(`🔔 Novo Agendamento!

👤 Cliente: %s
📞 Telefone: %s
📋 Serviço: %s
📅 Data: %s
⏰ Horário: %s`, d.PatientName, d.PatientPhone, d.ServiceName, d.Date, d.Time)
}

// CancellationMessage tells the patient their booking was cancelled.
func CancellationMessage(d ConfirmationData) string {
	return fmt.Sprintf(`Olá %s,

Seu agendamento foi cancelado:

📋 Serviço: %s
📅 Data: %s
⏰ Horário: %s

Para reagendar, entre em contato conosco.`, d.PatientName, d.ServiceName, d.Date, d.Time)
}
