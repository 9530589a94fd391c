package colors

import (
	"fmt"
	"io"
	"strings"
)

// Print methods (default to stdout)
func (c COLOR) Printf(format string, args ...any) {
	fmt.Print(c.open() + fmt.Sprintf(format, args...) + c.close())
}

func (c COLOR) Println(args ...any) {
	fmt.Print(c.open())
	fmt.Print(fmt.Sprint(args...))
	fmt.Println(c.close())
}

func (c COLOR) Print(args ...any) {
	fmt.Print(c.open())
	fmt.Print(args...)
	fmt.Print(c.close())
}

// Fprint methods (write to specific writer)
func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, c.open()+fmt.Sprintf(format, args...)+c.close())
}

func (c COLOR) Fprintln(w io.Writer, args ...any) {
	fmt.Fprint(w, c.open())
	fmt.Fprint(w, fmt.Sprint(args...))
	fmt.Fprintln(w, c.close())
}

func (c COLOR) Fprint(w io.Writer, args ...any) {
	fmt.Fprint(w, c.open())
	fmt.Fprint(w, args...)
	fmt.Fprint(w, c.close())
}

func (c COLOR) Sprintf(format string, args ...any) string {
	return c.open() + fmt.Sprintf(format, args...) + c.close()
}

func (c COLOR) Sprint(args ...any) string {
	return c.open() + fmt.Sprint(args...) + c.close()
}

// StripANSI removes ANSI color codes from a string
func StripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			inEscape = true
			i++
			continue
		}
		if inEscape {
			if (s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z') {
				inEscape = false
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
