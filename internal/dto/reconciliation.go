package dto

// AdjustmentRequest is one correction applied to a recorded expense.
// The fields used depend on Op:
//
//	reassign_item      ItemID, AssigneeIDs
//	update_item        ItemID, Item
//	add_item           Item
//	remove_item        ItemID
//	add_to_split       UserID
//	remove_from_split  UserID
//	update_category    Category
//	update_description Description
type AdjustmentRequest struct {
	Op          string       `json:"op" binding:"required,oneof=reassign_item update_item add_item remove_item add_to_split remove_from_split update_category update_description"`
	ItemID      *string      `json:"itemID,omitempty"`
	Item        *ItemRequest `json:"item,omitempty"`
	UserID      *string      `json:"userID,omitempty"`
	AssigneeIDs []string     `json:"assigneeIDs,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Description *string      `json:"description,omitempty"`
}

// ReconcileExpenseRequest applies a batch of corrections to an expense and
// posts the compensating adjustment transfers in one transaction.
type ReconcileExpenseRequest struct {
	Adjustments []AdjustmentRequest `json:"adjustments" binding:"required,min=1,dive"`
}

// ReconcileExpenseResponse returns the corrected expense and the adjustment
// transfers that were posted. Adjustments is empty when the corrections did
// not change anyone's share.
type ReconcileExpenseResponse struct {
	Expense     ExpenseResponse    `json:"expense"`
	Adjustments []TransferResponse `json:"adjustments"`
}
