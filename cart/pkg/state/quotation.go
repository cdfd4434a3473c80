package state

type QuotationItem struct {
	Product            Product `json:"product"`
	Quantity           int     `json:"quantity"`
	CustomRequirements string  `json:"customRequirements,omitempty"`
}

// Quotation is the request-for-quote working set. It holds at most one item per product id and
// carries no pricing.
type Quotation struct {
	Items  []QuotationItem `json:"items"`
	IsOpen bool            `json:"isOpen"`
}

func NewQuotation() Quotation {
	return Quotation{Items: []QuotationItem{}}
}

func (q Quotation) TotalItems() int {
	total := 0
	for _, item := range q.Items {
		total += item.Quantity
	}
	return total
}

type QuotationAction interface {
	quotationAction()
}

type AddQuoteItem struct {
	Product  Product
	Quantity int
}

type RemoveQuoteItem struct {
	ProductID string
}

// UpdateQuoteQuantity with a quantity of zero or below removes the product.
type UpdateQuoteQuantity struct {
	ProductID string
	Quantity  int
}

type UpdateRequirements struct {
	ProductID    string
	Requirements string
}

type ClearQuotation struct{}

type LoadQuotation struct {
	Items []QuotationItem
}

type ToggleSidebar struct{}

type SetSidebarOpen struct {
	Open bool
}

func (AddQuoteItem) quotationAction()        {}
func (RemoveQuoteItem) quotationAction()     {}
func (UpdateQuoteQuantity) quotationAction() {}
func (UpdateRequirements) quotationAction()  {}
func (ClearQuotation) quotationAction()      {}
func (LoadQuotation) quotationAction()       {}
func (ToggleSidebar) quotationAction()       {}
func (SetSidebarOpen) quotationAction()      {}

func ReduceQuotation(state Quotation, action QuotationAction) Quotation {
	next := state
	next.Items = append([]QuotationItem(nil), state.Items...)

	switch a := action.(type) {
	case AddQuoteItem:
		quantity := a.Quantity
		if quantity < 1 {
			quantity = 1
		}
		for i := range next.Items {
			if next.Items[i].Product.ID == a.Product.ID {
				next.Items[i].Quantity += quantity
				return next
			}
		}
		next.Items = append(next.Items, QuotationItem{Product: a.Product, Quantity: quantity})
	case RemoveQuoteItem:
		next.Items = removeQuoteItem(next.Items, a.ProductID)
	case UpdateQuoteQuantity:
		if a.Quantity <= 0 {
			next.Items = removeQuoteItem(next.Items, a.ProductID)
			break
		}
		for i := range next.Items {
			if next.Items[i].Product.ID == a.ProductID {
				next.Items[i].Quantity = a.Quantity
			}
		}
	case UpdateRequirements:
		for i := range next.Items {
			if next.Items[i].Product.ID == a.ProductID {
				next.Items[i].CustomRequirements = a.Requirements
			}
		}
	case ClearQuotation:
		next.Items = []QuotationItem{}
	case LoadQuotation:
		next.Items = []QuotationItem{}
		for _, item := range a.Items {
			if item.Quantity < 1 {
				continue
			}
			next = ReduceQuotation(next, AddQuoteItem{Product: item.Product, Quantity: item.Quantity})
			if item.CustomRequirements != "" {
				next = ReduceQuotation(next, UpdateRequirements{ProductID: item.Product.ID, Requirements: item.CustomRequirements})
			}
		}
	case ToggleSidebar:
		next.IsOpen = !next.IsOpen
	case SetSidebarOpen:
		next.IsOpen = a.Open
	default:
		return state
	}
	return next
}

func removeQuoteItem(items []QuotationItem, productID string) []QuotationItem {
	kept := make([]QuotationItem, 0, len(items))
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	return kept
}
