package platform

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Info holds the attributes of every element of a descriptor, keyed by the
// element's qualified name, in document order.
type Info struct {
	Elements map[string][]map[string]string
}

// Processors returns the number attribute of every processor element.
func (i *Info) Processors() []string {
	var out []string
	for _, attrs := range i.Elements[elemProcessor] {
		out = append(out, attrs["number"])
	}
	return out
}

// NoC returns the attributes of every TDN_NoC element.
func (i *Info) NoC() []map[string]string {
	return i.Elements[elemTDNNoC]
}

// Inspect reads a descriptor back, mainly to verify a rewrite.
func Inspect(r io.Reader) (*Info, error) {
	info := &Info{Elements: map[string][]map[string]string{}}
	dec := xml.NewDecoder(r)
	depth := 0
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			if depth != 0 {
				return nil, fmt.Errorf("inspect platform descriptor: %w", io.ErrUnexpectedEOF)
			}
			return info, nil
		}
		if err != nil {
			return nil, fmt.Errorf("inspect platform descriptor: %w", err)
		}
		if _, ok := tok.(xml.EndElement); ok {
			depth--
			continue
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		depth++
		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[qualified(a.Name)] = a.Value
		}
		name := qualified(start.Name)
		info.Elements[name] = append(info.Elements[name], attrs)
	}
}
