package sim

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/datatrader/market"
)

// CommissionFunc prices a fill.
type CommissionFunc func(qty int64, price market.Price) market.Price

var (
	ibPerShare = decimal.RequireFromString("0.005")
	ibMinimum  = decimal.NewFromInt(1)
	ibMaxPct   = decimal.RequireFromString("0.5")
)

// IBCommission follows Interactive Brokers' US fixed tier:
// 0.005 per share, at least 1.00, at most half the trade value.
func IBCommission(qty int64, price market.Price) market.Price {
	q := decimal.NewFromInt(qty)
	perShare := decimal.Max(ibMinimum, ibPerShare.Mul(q))
	capped := ibMaxPct.Mul(market.ToDisplay(price, 7)).Mul(q)
	return market.ToInternal(decimal.Min(capped, perShare))
}

// ZeroCommission charges nothing.
func ZeroCommission(int64, market.Price) market.Price {
	return 0
}
