// Package platform rewrites the TDN NoC platform descriptor for one
// experiment. The document is streamed token by token so that every element
// and attribute the rewrite does not target survives unchanged.
package platform

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	elemProcessor = "processor"
	elemTDNNoC    = "TDN_NoC"
)

// Params are the per-experiment values written into the descriptor.
type Params struct {
	Processors int
	X          int
	Y          int
	Slots      int
}

// NetworkName is the generated TDN_NoC name, e.g. "2x2TDN_3slots".
func (p Params) NetworkName() string {
	return fmt.Sprintf("%dx%dTDN_%dslots", p.X, p.Y, p.Slots)
}

func (p Params) processorAttrs() map[string]string {
	return map[string]string{"number": strconv.Itoa(p.Processors)}
}

func (p Params) nocAttrs() map[string]string {
	slots := strconv.Itoa(p.Slots)
	return map[string]string{
		"name":             p.NetworkName(),
		"cycles":           slots,
		"maxCyclesPerProc": slots,
		"x-dimension":      strconv.Itoa(p.X),
		"y-dimension":      strconv.Itoa(p.Y),
	}
}

// Rewrite copies the descriptor from r to w, setting the processor number
// and the TDN_NoC attributes from p. Attributes the targeted elements lack
// are appended.
func Rewrite(r io.Reader, w io.Writer, p Params) error {
	dec := xml.NewDecoder(r)
	bw := bufio.NewWriter(w)
	depth := 0

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			if depth != 0 {
				return fmt.Errorf("read platform descriptor: %w", io.ErrUnexpectedEOF)
			}
			break
		}
		if err != nil {
			return fmt.Errorf("read platform descriptor: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case elemProcessor:
				tok = setAttrs(t, p.processorAttrs())
			case elemTDNNoC:
				tok = setAttrs(t, p.nocAttrs())
			}
		case xml.EndElement:
			depth--
		}
		if err := writeToken(bw, tok); err != nil {
			return fmt.Errorf("write platform descriptor: %w", err)
		}
	}
	return bw.Flush()
}

// RewriteFile reads src and writes the rewritten descriptor to dst.
func RewriteFile(src, dst string, p Params) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := Rewrite(in, out, p); err != nil {
		out.Close()
		return fmt.Errorf("rewrite %s: %w", dst, err)
	}
	return out.Close()
}

// setAttrs overwrites matching attributes in place, keeping their order, and
// appends any that were missing in a fixed order.
func setAttrs(el xml.StartElement, values map[string]string) xml.StartElement {
	out := el.Copy()
	done := make(map[string]bool, len(values))
	for i, a := range out.Attr {
		if v, ok := values[a.Name.Local]; ok && a.Name.Space == "" {
			out.Attr[i].Value = v
			done[a.Name.Local] = true
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !done[k] {
			out.Attr = append(out.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: values[k]})
		}
	}
	return out
}

// charDataEscaper leaves whitespace alone, unlike xml.EscapeText.
var charDataEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// writeToken serializes raw tokens without namespace translation, which
// xml.Encoder would otherwise apply to prefixed names.
func writeToken(w *bufio.Writer, tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		w.WriteByte('<')
		w.WriteString(qualified(t.Name))
		for _, a := range t.Attr {
			w.WriteByte(' ')
			w.WriteString(qualified(a.Name))
			w.WriteString(`="`)
			if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
				return err
			}
			w.WriteByte('"')
		}
		_, err := w.WriteString(">")
		return err
	case xml.EndElement:
		_, err := w.WriteString("</" + qualified(t.Name) + ">")
		return err
	case xml.CharData:
		_, err := w.WriteString(charDataEscaper.Replace(string(t)))
		return err
	case xml.Comment:
		_, err := w.WriteString("<!--" + string(t) + "-->")
		return err
	case xml.ProcInst:
		s := "<?" + t.Target
		if len(t.Inst) > 0 {
			s += " " + string(t.Inst)
		}
		_, err := w.WriteString(s + "?>")
		return err
	case xml.Directive:
		_, err := w.WriteString("<!" + string(t) + ">")
		return err
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
}
