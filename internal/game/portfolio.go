package game

// Portfolio is a cash balance plus whole-share holdings. Shares only move
// through Buy and Sell, one share at a time.
type Portfolio struct {
	Cash   float64
	Shares []int
	Buys   []int
	Sells  []int
}

func NewPortfolio(cash float64, instruments int) *Portfolio {
	return &Portfolio{
		Cash:   cash,
		Shares: make([]int, instruments),
		Buys:   make([]int, instruments),
		Sells:  make([]int, instruments),
	}
}

// Buy takes one share of instrument i at price. It declines without touching
// state when cash does not cover the price.
func (p *Portfolio) Buy(i int, price float64) TradeResult {
	out := TradeResult{Side: SideBuy, Instrument: i, Price: price}
	if p.Cash < price {
		out.Outcome = TradeDeclinedInsufficientFunds
	} else {
		p.Cash -= price
		p.Shares[i]++
		p.Buys[i]++
		out.Outcome = TradeFilled
	}
	out.Cash = p.Cash
	out.Shares = p.Shares[i]
	return out
}

// Sell gives up one share of instrument i at price. It declines without
// touching state when no shares are held.
func (p *Portfolio) Sell(i int, price float64) TradeResult {
	out := TradeResult{Side: SideSell, Instrument: i, Price: price}
	if p.Shares[i] == 0 {
		out.Outcome = TradeDeclinedNoShares
	} else {
		p.Cash += price
		p.Shares[i]--
		p.Sells[i]++
		out.Outcome = TradeFilled
	}
	out.Cash = p.Cash
	out.Shares = p.Shares[i]
	return out
}

// TotalValue is cash plus every holding marked at prices[i]. Missing prices
// count as 0.
func (p *Portfolio) TotalValue(prices []float64) float64 {
	total := p.Cash
	for i, n := range p.Shares {
		price := 0.0
		if i < len(prices) {
			price = prices[i]
		}
		total += float64(n) * price
	}
	return total
}

func (p *Portfolio) TradeCounts() (buys, sells int) {
	for i := range p.Buys {
		buys += p.Buys[i]
		sells += p.Sells[i]
	}
	return buys, sells
}
