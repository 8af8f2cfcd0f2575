package entity

import "time"

// OrderItem is a line on an order. Quantity and unit cost are optional so
// that an unpriced line can be told apart from a zero-cost one.
type OrderItem struct {
	ID          string   `json:"id"`
	OrderID     string   `json:"order_id"`
	LineNumber  int      `json:"line_number"`
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitCost    *float64 `json:"unit_cost,omitempty"`
}

// Total returns quantity*unit_cost when both are set, else nil.
func (i *OrderItem) Total() *float64 {
	if i.Quantity == nil || i.UnitCost == nil {
		return nil
	}
	t := *i.Quantity * *i.UnitCost
	return &t
}

// Order is a purchase order moving through the approval workflow.
type Order struct {
	ID               string      `json:"id"`
	OrderNumber      string      `json:"order_number"`
	VendorID         string      `json:"vendor_id"`
	UnitID           *string     `json:"unit_id,omitempty"`
	POGroupID        *string     `json:"po_group_id,omitempty"`
	Description      string      `json:"description"`
	Status           string      `json:"status"`
	OrderedByID      string      `json:"ordered_by_id"`
	ApprovedByID     *string     `json:"approved_by_id,omitempty"`
	ApprovedAt       *time.Time  `json:"approved_at,omitempty"`
	RejectedByID     *string     `json:"rejected_by_id,omitempty"`
	RejectedAt       *time.Time  `json:"rejected_at,omitempty"`
	RejectionComment string      `json:"rejection_comment,omitempty"`
	Notes            string      `json:"notes,omitempty"`
	Items            []OrderItem `json:"items"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	Vendor     *Vendor  `json:"vendor,omitempty"`
	Unit       *Unit    `json:"unit,omitempty"`
	POGroup    *POGroup `json:"po_group,omitempty"`
	OrderedBy  *User    `json:"ordered_by,omitempty"`
	ApprovedBy *User    `json:"approved_by,omitempty"`
	RejectedBy *User    `json:"rejected_by,omitempty"`
}

// Total sums the priced items. Items missing quantity or unit cost
// contribute nothing.
func (o *Order) Total() float64 {
	var total float64
	for i := range o.Items {
		if t := o.Items[i].Total(); t != nil {
			total += *t
		}
	}
	return total
}

// RepairItem is a line on a repair request. No pricing.
type RepairItem struct {
	ID          string `json:"id"`
	RepairID    string `json:"repair_id"`
	LineNumber  int    `json:"line_number"`
	Description string `json:"description"`
}

// Repair is an equipment repair request moving through the approval
// workflow, with a technician completion stage instead of payment.
type Repair struct {
	ID               string       `json:"id"`
	RepairNumber     string       `json:"repair_number"`
	UnitID           string       `json:"unit_id"`
	Description      string       `json:"description"`
	Status           string       `json:"status"`
	RequestedByID    string       `json:"requested_by_id"`
	ApprovedByID     *string      `json:"approved_by_id,omitempty"`
	ApprovedAt       *time.Time   `json:"approved_at,omitempty"`
	RejectedByID     *string      `json:"rejected_by_id,omitempty"`
	RejectedAt       *time.Time   `json:"rejected_at,omitempty"`
	RejectionComment string       `json:"rejection_comment,omitempty"`
	CompletedByID    *string      `json:"completed_by_id,omitempty"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	Items            []RepairItem `json:"items"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	Unit        *Unit `json:"unit,omitempty"`
	RequestedBy *User `json:"requested_by,omitempty"`
	ApprovedBy  *User `json:"approved_by,omitempty"`
	RejectedBy  *User `json:"rejected_by,omitempty"`
	CompletedBy *User `json:"completed_by,omitempty"`
}

// POGroup batches approved or paid orders under one purchase-order number
// for payment processing. It does not own its member orders: membership is
// a nullable back-reference on the order.
type POGroup struct {
	ID          string    `json:"id"`
	PONumber    string    `json:"po_number"`
	CreatedByID *string   `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	OrderCount int     `json:"order_count"`
	Total      float64 `json:"total"`
	Orders     []Order `json:"orders,omitempty"`
	CreatedBy  *User   `json:"created_by,omitempty"`
}
