package domain

// Product is the canonical normalized representation of one search result.
// Price fields are pointers so that values a provider never supplied
// serialize as JSON null instead of a misleading zero.
type Product struct {
	Name       string   `json:"product"`
	Size       string   `json:"size"`
	Price      *float64 `json:"price"`
	PricePerKg *float64 `json:"pricePerKg"`
	URL        string   `json:"url,omitempty"`
	ID         string   `json:"id,omitempty"`
}

// Attributed is a product plus the store it was traced back to.
// Store is empty when attribution could not be inferred.
type Attributed struct {
	Product
	Store string `json:"store,omitempty"`
}

// Comparison holds the two independent winners for one query.
// Either winner may be nil when no record qualifies.
type Comparison struct {
	Query          string      `json:"query"`
	CheapestByItem *Attributed `json:"cheapestByItem"`
	CheapestByKg   *Attributed `json:"cheapestByKg"`
}

// BatchItem is one slot of a bulk comparison report. Error carries a
// per-item failure without failing the rest of the batch.
type BatchItem struct {
	Name          string      `json:"name"`
	CheapestPerKg *Attributed `json:"cheapestPerKg"`
	Error         string      `json:"error,omitempty"`
}
