package model

import "testing"

func TestOrderBook_Midpoint(t *testing.T) {
	tests := []struct {
		name   string
		book   OrderBook
		want   float64
		wantOK bool
	}{
		{
			name: "both sides present",
			book: OrderBook{
				Bids: []PriceLevel{{Price: 51.0, Volume: 10}, {Price: 50.5, Volume: 20}},
				Asks: []PriceLevel{{Price: 52.0, Volume: 5}},
			},
			want:   51.5,
			wantOK: true,
		},
		{
			name: "empty bids",
			book: OrderBook{
				Asks: []PriceLevel{{Price: 52.0, Volume: 5}},
			},
			wantOK: false,
		},
		{
			name: "empty asks",
			book: OrderBook{
				Bids: []PriceLevel{{Price: 51.0, Volume: 10}},
			},
			wantOK: false,
		},
		{
			name:   "empty book",
			book:   OrderBook{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.book.Midpoint()
			if ok != tt.wantOK {
				t.Fatalf("Midpoint() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Midpoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderBook_BestLevels(t *testing.T) {
	book := OrderBook{
		Bids: []PriceLevel{{Price: 51.0, Volume: 10}, {Price: 50.5, Volume: 20}},
		Asks: []PriceLevel{{Price: 52.0, Volume: 5}, {Price: 52.5, Volume: 15}},
	}

	bid, ok := book.BestBid()
	if !ok || bid.Price != 51.0 {
		t.Errorf("BestBid() = %+v, %v; want price 51.0", bid, ok)
	}

	ask, ok := book.BestAsk()
	if !ok || ask.Price != 52.0 {
		t.Errorf("BestAsk() = %+v, %v; want price 52.0", ask, ok)
	}

	if _, ok := (OrderBook{}).BestBid(); ok {
		t.Error("BestBid() on empty book should report false")
	}
}

func TestInstrument_IsOption(t *testing.T) {
	opt := Instrument{ID: "NVDA-C-100", Kind: KindStockOption}
	if !opt.IsOption() {
		t.Error("IsOption() = false for stock option")
	}

	stock := Instrument{ID: "NVDA", Kind: KindStock}
	if stock.IsOption() {
		t.Error("IsOption() = true for stock")
	}
}
