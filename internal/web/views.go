package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"flowershop/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var titleCaser = cases.Title(language.English)

var base64Payload = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// Buckets groups orders shown on the enterprise view.
type Buckets struct {
	Pending  []domain.Order
	Accepted []domain.Order
}

// Partition splits orders by status. Orders that are neither pending nor
// accepted are not shown.
func Partition(orders []domain.Order) Buckets {
	b := Buckets{Pending: []domain.Order{}, Accepted: []domain.Order{}}
	for _, o := range orders {
		switch o.Status {
		case domain.OrderStatusPending:
			b.Pending = append(b.Pending, o)
		case domain.OrderStatusAccepted:
			b.Accepted = append(b.Accepted, o)
		}
	}
	return b
}

// StatusLabel renders a status for display.
func StatusLabel(status domain.OrderStatus) string {
	return titleCaser.String(string(status))
}

// ImageSrc turns a stored image reference into an img src. Inline base64
// payloads become data URLs; anything else goes through the normal URL
// sanitizer.
func ImageSrc(ref string) any {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	if base64Payload.MatchString(ref) {
		return template.URL("data:image/png;base64," + ref)
	}
	return ""
}

// EnterprisePage is the data rendered by the enterprise view.
type EnterprisePage struct {
	Buckets
	AuthEnabled bool
}

// LoginPage is the data rendered by the operator login form.
type LoginPage struct {
	Error string
}

// Views renders the HTML pages.
type Views struct {
	tmpl *template.Template
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"statusLabel": StatusLabel,
		"imageSrc":    ImageSrc,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Views{tmpl: tmpl}, nil
}

// Chat renders the chat view.
func (v *Views) Chat(w io.Writer) error {
	return v.tmpl.ExecuteTemplate(w, "chat.html", nil)
}

// Enterprise renders the order review view.
func (v *Views) Enterprise(w io.Writer, page EnterprisePage) error {
	return v.tmpl.ExecuteTemplate(w, "enterprise.html", page)
}

// Login renders the operator login form.
func (v *Views) Login(w io.Writer, page LoginPage) error {
	return v.tmpl.ExecuteTemplate(w, "login.html", page)
}
