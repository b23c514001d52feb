package truth

// Truth is a single prompt served by the API.
type Truth struct {
	ID       string `json:"id"`
	Text     string `json:"truth"`
	Category string `json:"category"`
	Weight   string `json:"weight"`
}

// ItemID implements selection.Item.
func (t Truth) ItemID() string { return t.ID }

// WeightLevel implements selection.Item.
func (t Truth) WeightLevel() string { return t.Weight }
