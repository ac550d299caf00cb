package dto

type AssignedOrderResponse struct {
	OrderID      int64  `json:"order_id"`
	DispatcherID int64  `json:"dispatcher_id"`
	Phase        string `json:"phase"`
}

type AssignmentWarning struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message"`
}

type AssignResponse struct {
	Assigned []AssignedOrderResponse `json:"assigned"`
	Warnings []AssignmentWarning     `json:"warnings"`
}
