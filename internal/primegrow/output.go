// Copyright © 2021 Io FinNet Group, Inc.

package primegrow

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/btcsuite/btcutil/base58"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iofinnet/primegrowth/grow"
)

// digestPrefixLen is how many hex characters of each certificate digest the table shows.
const digestPrefixLen = 12

// Render writes the chain in the requested format. Every format ends with the largest prime.
func Render(w io.Writer, chain *grow.Chain, format Format) error {
	switch format {
	case FormatTable:
		return renderTable(w, chain)
	case FormatPlain:
		for _, p := range chain.Primes() {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	case FormatBase58:
		for _, p := range chain.Primes() {
			if _, err := fmt.Fprintln(w, base58.Encode(p.Bytes())); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chain)
	}
	return errors.Errorf("unknown format %q", format)
}

func renderTable(w io.Writer, chain *grow.Chain) error {
	printer := message.NewPrinter(language.English)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Prime", "Digits", "Bits", "r", "Witness", "Digest"})
	table.SetAutoWrapText(false)
	table.Append(row(printer, 0, chain.Root, "", "", ""))
	for i, l := range chain.Links {
		digest := l.DigestHex()
		if len(digest) > digestPrefixLen {
			digest = digest[:digestPrefixLen]
		}
		table.Append(row(printer, i+1, l.N, l.R.String(), l.Witness.String(), digest))
	}
	table.Render()
	_, err := printer.Fprintf(w, "%d growth steps, final prime has %d digits (%d bits)\n",
		len(chain.Links), len(chain.Last().String()), chain.Last().BitLen())
	return err
}

func row(printer *message.Printer, step int, p *big.Int, r, witness, digest string) []string {
	return []string{
		strconv.Itoa(step),
		p.String(),
		printer.Sprintf("%d", len(p.String())),
		printer.Sprintf("%d", p.BitLen()),
		r,
		witness,
		digest,
	}
}
