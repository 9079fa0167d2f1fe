package orders

import (
	"bytes"
	"fmt"
	"html/template"
	"livevibe/src/models"

	"github.com/shopspring/decimal"
)

const (
	CURRENCY          = "UAH"
	EMAIL_TIME_LAYOUT = "02.01.2006 15:04"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "order_confirmation"}}<h2>Thank you for your order, {{.FirstName}}!</h2>
<p><strong>Event:</strong> {{.EventTitle}}</p>
<p><strong>Date:</strong> {{.EventTime}}</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Total:</strong> {{.Total}} {{.Currency}}</p>
<h3>Tickets</h3>
<ul>{{range .Lines}}
<li>Seat {{.Seat}}: {{.Price}} {{$.Currency}}</li>{{end}}
</ul>
<p>Your QR codes are available in your account.</p>{{end}}

{{define "order_refund"}}<h2>Your order has been refunded, {{.FirstName}}.</h2>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Refunded amount:</strong> {{.Total}} {{.Currency}}</p>
<ul>{{range .Lines}}
<li>{{.EventTitle}}, seat {{.Seat}}: {{.Price}} {{$.Currency}}</li>{{end}}
</ul>{{end}}

{{define "ticket_refund"}}<h2>Your ticket has been refunded, {{.FirstName}}.</h2>
<p><strong>Event:</strong> {{.EventTitle}}</p>
<p><strong>Date:</strong> {{.EventTime}}</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Seat:</strong> {{.Seat}}</p>
<p><strong>Refunded amount:</strong> {{.Total}} {{.Currency}}</p>{{end}}
`))

type emailLine struct {
	EventTitle string
	Seat       string
	Price      string
}

type emailData struct {
	FirstName  string
	OrderID    string
	EventTitle string
	EventTime  string
	Seat       string
	Total      string
	Currency   string
	Lines      []emailLine
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orderConfirmationEmail(order *models.Order, event *models.Event, tickets []models.Ticket) (string, string, error) {
	data := emailData{
		FirstName:  order.FirstName,
		OrderID:    order.ID.String(),
		EventTitle: event.Title,
		EventTime:  event.Time.Format(EMAIL_TIME_LAYOUT),
		Total:      order.TotalPrice.StringFixed(2),
		Currency:   CURRENCY,
	}
	for _, t := range tickets {
		data.Lines = append(data.Lines, emailLine{Seat: t.Seat, Price: t.Price.StringFixed(2)})
	}
	body, err := render("order_confirmation", data)
	return fmt.Sprintf("Order Confirmation: Order #%s", order.ID), body, err
}

func orderRefundEmail(order *models.Order, refunded []models.Ticket) (string, string, error) {
	data := emailData{
		FirstName: order.FirstName,
		OrderID:   order.ID.String(),
		Currency:  CURRENCY,
	}
	total := decimal.Zero
	for _, t := range refunded {
		line := emailLine{Seat: t.Seat, Price: t.Price.StringFixed(2)}
		if t.Event != nil {
			line.EventTitle = t.Event.Title
		}
		data.Lines = append(data.Lines, line)
		total = total.Add(t.Price)
	}
	data.Total = total.StringFixed(2)
	body, err := render("order_refund", data)
	return fmt.Sprintf("Order Refund Confirmation: Order #%s", order.ID), body, err
}

func ticketRefundEmail(order *models.Order, ticket *models.Ticket, event *models.Event) (string, string, error) {
	body, err := render("ticket_refund", emailData{
		FirstName:  order.FirstName,
		OrderID:    order.ID.String(),
		EventTitle: event.Title,
		EventTime:  event.Time.Format(EMAIL_TIME_LAYOUT),
		Seat:       ticket.Seat,
		Total:      ticket.Price.StringFixed(2),
		Currency:   CURRENCY,
	})
	return fmt.Sprintf("Ticket Refund Confirmation: Order #%s", order.ID), body, err
}
