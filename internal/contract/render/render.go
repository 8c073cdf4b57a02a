// Package render turns contract terms into the plain-text agreement body.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"patentdesk/internal/contract/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Party is the firm a contract is drawn up for.
type Party struct {
	Title     string
	TaxNumber string
	Address   string
	City      string
}

type data struct {
	Service  string
	Date     time.Time
	Firm     Party
	Marks    []string
	Fee      int64
	Currency string
}

// Renderer executes the contract template.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("contract.tmpl").Funcs(template.FuncMap{
		"date":  func(t time.Time) string { return t.Format("02.01.2006") },
		"lower": strings.ToLower,
		"inc":   func(i int) int { return i + 1 },
		"money": FormatMoney,
	}).ParseFS(templateFS, "templates/contract.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse contract template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the contract body for terms and party dated at date.
func (r *Renderer) Render(terms models.Terms, party Party, date time.Time) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, data{
		Service:  terms.Service.Title(),
		Date:     date,
		Firm:     party,
		Marks:    terms.Marks,
		Fee:      terms.Fee,
		Currency: terms.Currency,
	})
	if err != nil {
		return "", fmt.Errorf("render contract: %w", err)
	}
	return buf.String(), nil
}

// FormatMoney prints an amount in minor units with thousands separators.
//
//	FormatMoney(125000, "TRY") // "1,250.00 TRY"
func FormatMoney(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	whole := strconv.FormatInt(minor/100, 10)
	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return fmt.Sprintf("%s%s.%02d %s", sign, b.String(), minor%100, currency)
}
