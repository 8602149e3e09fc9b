package dump

import (
	"fmt"
	"io"
	"text/tabwriter"
)

func writeText(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch v := v.(type) {
	case PacketView:
		writePacket(tw, v)
	case []PacketView:
		for _, p := range v {
			writePacket(tw, p)
		}
	case LayoutView:
		writeLayout(tw, v)
	case []LayoutView:
		for i, l := range v {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			writeLayout(tw, l)
		}
	default:
		return fmt.Errorf("dump: no text form for %T", v)
	}
	return tw.Flush()
}

func writePacket(w io.Writer, p PacketView) {
	fmt.Fprintf(w, "%s (%d bytes)\n", p.Key, p.Size)
	for _, f := range p.Fields {
		var value string
		if f.Value != nil {
			value = fmt.Sprintf("%d\t0x%x", *f.Value, *f.Value)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", f.Section, f.Name, f.Width, value)
	}
}

func writeLayout(w io.Writer, l LayoutView) {
	fmt.Fprintf(w, "%s (%d bytes): %s\n", l.Key, l.Size, l.Format)
	for _, f := range l.Fields {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", f.Section, f.Name, f.Width, f.Default)
	}
}
