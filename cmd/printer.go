package cmd

import (
	"fmt"
	"io"
	"strings"
)

type printer struct {
	out io.Writer
}

func (p *printer) section(title string) {
	fmt.Fprintf(p.out, "\n%s\n", title)
	fmt.Fprintln(p.out, strings.Repeat("-", len(title)))
}

func (p *printer) keyValue(key, value string) {
	if value == "" {
		fmt.Fprintf(p.out, "%-35s\n", key)
	} else {
		fmt.Fprintf(p.out, "%-35s %s\n", key+":", value)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
