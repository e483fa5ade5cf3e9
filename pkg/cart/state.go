package cart

import "fmt"

// LineState is where one product sits in its Absent -> Present(n) cycle
type LineState struct {
	ProductID int64
	Quantity  int
}

// StateOf reads productID's state from a snapshot
func StateOf(s Snapshot, productID int64) LineState {
	return LineState{ProductID: productID, Quantity: s.Quantity(productID)}
}

// Present reports whether at least one unit is in the cart
func (l LineState) Present() bool {
	return l.Quantity > 0
}

func (l LineState) String() string {
	if !l.Present() {
		return "absent"
	}
	return fmt.Sprintf("present(%d)", l.Quantity)
}
