package migration

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"
)

var ErrInvalidName = errors.New("migration name must be lowercase letters, digits and underscores")

var namePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var stubTemplate = template.Must(template.New("unit").Parse(`func {{.Func}}() Unit {
	return Unit{
		Name: "{{.Name}}",
		Up: Statements(
			// SQL statements for migrating up
		),
		Down: Statements(
			// SQL statements for migrating down
		),
	}
}
`))

// NewName prefixes a descriptive name with a UTC timestamp so it sorts after
// every existing unit.
func NewName(now time.Time, name string) (string, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if name == "" || !namePattern.MatchString(name) {
		return "", ErrInvalidName
	}
	return fmt.Sprintf("%s_%s", now.UTC().Format("20060102150405"), name), nil
}

// WriteStub writes a Go skeleton for a new unit to w.
func WriteStub(w io.Writer, fullName string) error {
	parts := strings.Split(fullName, "_")
	fn := ""
	for i, p := range parts[1:] {
		if i == 0 {
			fn += p
			continue
		}
		if p != "" {
			fn += strings.ToUpper(p[:1]) + p[1:]
		}
	}
	if fn == "" || (fn[0] >= '0' && fn[0] <= '9') {
		fn = "unit" + fn
	}
	return stubTemplate.Execute(w, struct{ Func, Name string }{Func: fn, Name: fullName})
}
