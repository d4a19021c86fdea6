package email

import (
	"bytes"
	"html/template"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/money"
)

const (
	QuoteSubject = "Nueva Solicitud de Cotización - Express Imports"
	OrderSubject = "Confirmación de Pedido - Express Imports"
)

var funcs = template.FuncMap{
	"money": money.Format,
	"mul": func(price int64, qty int) int64 {
		return price * int64(qty)
	},
}

var quoteTmpl = template.Must(template.New("quote").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2>Nueva Solicitud de Cotización</h2>
	<p><strong>Cotización:</strong> #{{.QuoteID}}</p>
	<p><strong>Cliente:</strong> {{.CustomerName}}</p>
	<p><strong>Email:</strong> {{.CustomerEmail}}</p>
	<p><strong>Mensaje:</strong> {{if .Message}}{{.Message}}{{else}}Sin mensaje{{end}}</p>
	<p><strong>Productos solicitados:</strong> {{len .Items}}</p>
	<ul>
	{{- range .Items}}
		<li>{{.ProductName}} (x{{.Quantity}})</li>
	{{- end}}
	</ul>
	<p>Revisa el panel de administración para más detalles.</p>
</body>
</html>`))

var orderTmpl = template.Must(template.New("order").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2>¡Pedido Confirmado!</h2>
	<p>Hola {{.CustomerName}},</p>
	<p>Tu pedido #{{.OrderID}} ha sido confirmado exitosamente.</p>
	<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
	{{- range .Items}}
		<tr>
			<td style="padding: 8px; border-bottom: 1px solid #eee;">{{.ProductName}}</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">${{money (mul .Price .Quantity)}}</td>
		</tr>
	{{- end}}
	</table>
	<p><strong>Total:</strong> ${{money .Total}}</p>
	<p><strong>Dirección de envío:</strong> {{.ShippingAddress}}</p>
	<p>Recibirás el número de tracking por email en las próximas 24 horas.</p>
	<p>¡Gracias por confiar en Express Imports!</p>
</body>
</html>`))

// RenderQuote строит письмо администратору о новом запросе.
func RenderQuote(n usecase.QuoteNotification) (string, error) {
	var buf bytes.Buffer
	if err := quoteTmpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderOrder строит подтверждение заказа для клиента.
func RenderOrder(n usecase.StockOrderNotification) (string, error) {
	var buf bytes.Buffer
	if err := orderTmpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
