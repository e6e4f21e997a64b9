package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"github.com/Giulio2002/vring"
	"github.com/Giulio2002/vring/tformat"
)

// probeReport is the machine-readable output of probe --json.
type probeReport struct {
	UnitSize     int    `json:"unit_size"`
	MappingCount int    `json:"mapping_count"`
	Span         int    `json:"span"`
	Base         string `json:"base"`
	Aliasing     bool   `json:"aliasing"`
}

func newProbeCmd() *cobra.Command {
	var flags ringFlags
	var asJSON bool
	probe := &cobra.Command{
		Use:   "probe",
		Short: "Map a ring and verify that every alias mirrors the first",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := vring.New(flags.minSize, flags.options())
			if err != nil {
				return err
			}
			defer r.Free()

			if asJSON {
				rep := probeReport{
					UnitSize:     r.UnitSize(),
					MappingCount: r.MappingCount(),
					Span:         len(r.Bytes()),
					Base:         fmt.Sprintf("%#x", r.Base()),
					Aliasing:     verifyAliases(r) == nil,
				}
				b, err := sonnet.Marshal(rep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
				return r.Free()
			}

			describe(cmd.OutOrStdout(), r)
			if err := verifyAliases(r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "aliasing: ok (%d aliases)\n", r.MappingCount())
			return r.Free()
		},
	}
	flags.register(probe.Flags(), vring.DefaultMappingCount)
	probe.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return probe
}

func newSpillCmd() *cobra.Command {
	var flags ringFlags
	var record string
	spill := &cobra.Command{
		Use:   "spill",
		Short: "Write a record across the end of the unit and read it back",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := vring.New(flags.minSize, flags.options())
			if err != nil {
				return err
			}
			defer r.Free()

			cur, err := vring.NewCursor(r)
			if err != nil {
				return err
			}

			// Leave the larger half of the record before the boundary.
			cur.Advance(r.UnitSize() - (len(record)+1)/2)
			start := cur.Offset()
			view, err := cur.Put([]byte(record))
			if err != nil {
				return err
			}
			if !bytes.Equal(view, []byte(record)) {
				return fmt.Errorf("spilled record reads back as %q", view)
			}

			spilled := start + len(record) - r.UnitSize()
			if spilled < 0 {
				spilled = 0
			}

			out := cmd.OutOrStdout()
			describe(out, r)
			fmt.Fprintf(out, "record %q at offset %d, %d bytes in alias 0, %d spilled into alias 1\n",
				view, start, len(record)-spilled, spilled)
			fmt.Fprintf(out, "head of alias 0: %q\n", r.Alias(0)[:spilled])
			return r.Free()
		},
	}
	flags.register(spill.Flags(), 2)
	spill.Flags().StringVar(&record, "record", "hello", "record to write across the boundary")
	return spill
}

func newFormatCmd() *cobra.Command {
	var flags ringFlags
	var count, tail int
	format := &cobra.Command{
		Use:   "format",
		Short: "Write formatted records through the temporary-string formatter",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := vring.New(flags.minSize, flags.options())
			if err != nil {
				return err
			}
			defer r.Free()

			f, err := tformat.New(r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			describe(out, r)

			var total uint64
			for i := 0; i < count; i++ {
				s := f.Tprintf("record %d of %d at offset %d", i+1, count, f.Cursor().Offset())
				total += uint64(len(s) + 1)
				if i >= count-tail {
					fmt.Fprintf(out, "%s\n", s)
				}
			}
			fmt.Fprintf(out, "wrote %s, %.1f laps\n", humanize.IBytes(total), float64(total)/float64(r.UnitSize()))
			return r.Free()
		},
	}
	flags.register(format.Flags(), tformat.DefaultMappingCount)
	format.Flags().IntVar(&count, "count", 1000, "number of records to write")
	format.Flags().IntVar(&tail, "tail", 3, "number of final records to print")
	return format
}

func describe(w io.Writer, r *vring.Ring) {
	fmt.Fprintf(w, "unit %s x %d aliases = %s span at %#x\n",
		humanize.IBytes(uint64(r.UnitSize())), r.MappingCount(),
		humanize.IBytes(uint64(len(r.Bytes()))), r.Base())
}

// verifyAliases writes a distinct marker per byte through alias 0 and
// checks every other alias reads the same.
func verifyAliases(r *vring.Ring) error {
	first := r.Alias(0)
	for i := range first {
		first[i] = byte(i ^ i>>8)
	}
	for a := 1; a < r.MappingCount(); a++ {
		if !bytes.Equal(first, r.Alias(a)) {
			return fmt.Errorf("alias %d does not mirror alias 0", a)
		}
	}
	return nil
}
