package domain

// AdjustmentOp names one kind of correction applied during reconciliation.
type AdjustmentOp string

const (
	OpReassignItem      AdjustmentOp = "reassign_item"
	OpUpdateItem        AdjustmentOp = "update_item"
	OpAddItem           AdjustmentOp = "add_item"
	OpRemoveItem        AdjustmentOp = "remove_item"
	OpAddToSplit        AdjustmentOp = "add_to_split"
	OpRemoveFromSplit   AdjustmentOp = "remove_from_split"
	OpUpdateCategory    AdjustmentOp = "update_category"
	OpUpdateDescription AdjustmentOp = "update_description"
)

// Valid reports whether the op is one of the known adjustment ops.
func (op AdjustmentOp) Valid() bool {
	switch op {
	case OpReassignItem, OpUpdateItem, OpAddItem, OpRemoveItem,
		OpAddToSplit, OpRemoveFromSplit, OpUpdateCategory, OpUpdateDescription:
		return true
	}
	return false
}

// Adjustment is one correction to a recorded expense. Which fields are read
// depends on Op; see AdjustmentOp.
type Adjustment struct {
	Op          AdjustmentOp `json:"op"`
	ItemID      string       `json:"itemID,omitempty"`
	Item        *Item        `json:"item,omitempty"`
	UserID      string       `json:"userID,omitempty"`
	AssigneeIDs []string     `json:"assigneeIDs,omitempty"`
	Category    string       `json:"category,omitempty"`
	Description string       `json:"description,omitempty"`
}
