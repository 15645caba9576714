package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/datatrader/market"
)

// FormatFillOrg renders a fill as an Org-mode block for a trading
// journal, facts in a PROPERTIES drawer followed by empty notes headings.
func FormatFillOrg(r FillRecord) string {
	heading := fmt.Sprintf("** Fill: %s %s %d (%s)", r.Action, r.Ticker, r.Quantity, shortID(r.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf(":TICKER: %s\n", r.Ticker))
	b.WriteString(fmt.Sprintf(":ACTION: %s\n", r.Action))
	b.WriteString(fmt.Sprintf(":QUANTITY: %d\n", r.Quantity))
	b.WriteString(fmt.Sprintf(":PRICE: %s\n", market.Format(r.Price, market.DisplayPlaces)))
	b.WriteString(fmt.Sprintf(":COMMISSION: %s\n", market.Format(r.Commission, market.DisplayPlaces)))
	b.WriteString(fmt.Sprintf(":EXCHANGE: %s\n", r.Exchange))
	b.WriteString(fmt.Sprintf(":TIMESTAMP: %s\n", r.Timestamp.UTC().Format(time.RFC3339)))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatFillsOrg renders multiple fills separated by blank lines.
func FormatFillsOrg(fills []FillRecord) string {
	var b strings.Builder
	for i, r := range fills {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatFillOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
