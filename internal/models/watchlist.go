package models

// Stock is one watchlist entry.
type Stock struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Watchlist groups stocks by sector for the exposure cap and the sector
// rotation score.
type Watchlist map[string][]Stock

func (w Watchlist) All() []Stock {
	var out []Stock
	for _, stocks := range w {
		out = append(out, stocks...)
	}
	return out
}

// SectorOf returns the sector holding code, or "" if unlisted.
func (w Watchlist) SectorOf(code string) string {
	for sector, stocks := range w {
		for _, s := range stocks {
			if s.Code == code {
				return sector
			}
		}
	}
	return ""
}
