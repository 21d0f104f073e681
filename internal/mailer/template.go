package mailer

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

// TemplateVars holds the placeholder values available to reminder
// subject/body templates.
type TemplateVars struct {
	ClientName    string
	InvoiceNumber string
	Amount        string
	Currency      string
	DueDate       string
	IssueDate     string
	SenderName    string
}

func (v TemplateVars) lookup(name string) (string, bool) {
	switch name {
	case "client_name":
		return v.ClientName, true
	case "invoice_number":
		return v.InvoiceNumber, true
	case "amount":
		return v.Amount, true
	case "currency":
		return v.Currency, true
	case "due_date":
		return v.DueDate, true
	case "issue_date":
		return v.IssueDate, true
	case "sender_name":
		return v.SenderName, true
	}
	return "", false
}

// RenderTemplate substitutes {placeholder} variables into a reminder
// template. Referencing a placeholder outside TemplateVars is an error.
func RenderTemplate(template string, vars TemplateVars) (string, error) {
	return fasttemplate.ExecuteFuncStringWithErr(template, "{", "}",
		func(w io.Writer, tag string) (int, error) {
			value, ok := vars.lookup(tag)
			if !ok {
				return 0, fmt.Errorf("unknown placeholder {%s}", tag)
			}
			return w.Write([]byte(value))
		})
}

// TextToHTML converts a plain-text email body to simple HTML markup:
// reserved characters are escaped, blank lines become paragraph breaks
// and single line breaks become <br> tags.
func TextToHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, "\n\n", "</p><p>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	return "<html><body><p>" + text + "</p></body></html>"
}
