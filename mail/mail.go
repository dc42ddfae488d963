// Package mail sends email with rich HTML content: titles, paragraphs,
// links, tables, inline images, and attachments, assembled through a
// chaining builder and delivered over SMTP.
package mail

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"lntools/config"
	"lntools/table"
)

// Error is the mail-specific error type.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Mail builds and sends one email. Builder methods chain; the first
// builder error sticks and is returned by Send so call sites stay flat.
type Mail struct {
	cfg         config.MailConfig
	to          []string
	cc          []string
	subject     string
	body        strings.Builder
	images      []string
	attachments []string
	err         error
}

// New validates the SMTP settings and returns a builder bound to them.
func New(cfg config.MailConfig) (*Mail, error) {
	cfg, err := normalize(cfg)
	if err != nil {
		return nil, err
	}
	return &Mail{cfg: cfg}, nil
}

// SetServer swaps the bound SMTP settings. The draft in progress is
// untouched; only delivery is affected.
func (m *Mail) SetServer(cfg config.MailConfig) error {
	cfg, err := normalize(cfg)
	if err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

func normalize(cfg config.MailConfig) (config.MailConfig, error) {
	if cfg.Server == "" || cfg.Username == "" || cfg.Password == "" {
		return cfg, &Error{Message: "missing required mail config (server, username, password)"}
	}
	if cfg.Port == 0 {
		cfg.Port = 25
	}
	return cfg, nil
}

// NewEmail sets the recipients and subject, clearing any previous draft.
func (m *Mail) NewEmail(to []string, subject string, cc ...string) *Mail {
	m.to = append([]string(nil), to...)
	m.cc = append([]string(nil), cc...)
	m.subject = subject
	m.body.Reset()
	m.images = nil
	m.attachments = nil
	m.err = nil
	return m
}

// AddTitle appends an h1 heading.
func (m *Mail) AddTitle(title string) *Mail {
	fmt.Fprintf(&m.body, "<h1>%s</h1>", html.EscapeString(title))
	return m
}

// AddContent appends a paragraph.
func (m *Mail) AddContent(content string) *Mail {
	fmt.Fprintf(&m.body, "<p>%s</p>", html.EscapeString(content))
	return m
}

// AddHref appends a hyperlink, using the URL itself as the text when no
// title is given.
func (m *Mail) AddHref(href, title string) *Mail {
	if title == "" {
		title = href
	}
	fmt.Fprintf(&m.body, `<p><a href="%s">%s</a></p>`,
		html.EscapeString(href), html.EscapeString(title))
	return m
}

// AddTable renders a table as HTML. An empty table is a builder error.
func (m *Mail) AddTable(t table.Table) *Mail {
	if m.err != nil {
		return m
	}
	if t == nil || t.IsEmpty() {
		m.err = &Error{Message: "cannot add empty table"}
		return m
	}

	records := t.Records()
	m.body.WriteString("<table border=\"1\"><thead><tr>")
	for _, col := range records[0] {
		fmt.Fprintf(&m.body, "<th>%s</th>", html.EscapeString(col))
	}
	m.body.WriteString("</tr></thead><tbody>")
	for _, row := range records[1:] {
		m.body.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&m.body, "<td>%s</td>", html.EscapeString(cell))
		}
		m.body.WriteString("</tr>")
	}
	m.body.WriteString("</tbody></table>")
	return m
}

// AddImages embeds images inline, referenced by their filenames.
func (m *Mail) AddImages(paths ...string) *Mail {
	for _, p := range paths {
		m.images = append(m.images, p)
		fmt.Fprintf(&m.body, `<p><img src="cid:%s"></p>`, filepath.Base(p))
	}
	return m
}

// AddAttachments attaches files.
func (m *Mail) AddAttachments(paths ...string) *Mail {
	m.attachments = append(m.attachments, paths...)
	return m
}

// HTML returns the body built so far. Mostly useful in tests.
func (m *Mail) HTML() string { return m.body.String() }

// Send assembles the message and delivers it over SMTP. Returns the first
// builder error if one occurred.
func (m *Mail) Send() error {
	if m.err != nil {
		return m.err
	}
	if len(m.to) == 0 && len(m.cc) == 0 {
		return &Error{Message: "no recipients specified"}
	}

	msg := gomail.NewMessage()
	fromName := strings.SplitN(m.cfg.Username, "@", 2)[0]
	msg.SetAddressHeader("From", m.cfg.Username, fromName)
	msg.SetHeader("To", m.to...)
	if len(m.cc) > 0 {
		msg.SetHeader("Cc", m.cc...)
	}
	msg.SetHeader("Subject", m.subject)
	msg.SetBody("text/html", m.body.String())

	for _, img := range m.images {
		msg.Embed(img)
	}
	for _, att := range m.attachments {
		msg.Attach(att)
	}

	dialer := gomail.NewDialer(m.cfg.Server, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return &Error{Message: "failed to send email", Err: err}
	}
	return nil
}
