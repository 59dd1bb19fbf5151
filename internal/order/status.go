package order

// Status is the order fulfilment state. It advances independently from
// PaymentStatus.
type Status string

const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusReadyToShip       Status = "ready_to_ship"
	StatusOnHold            Status = "on_hold"
	StatusShipped           Status = "shipped"
	StatusOutForDelivery    Status = "out_for_delivery"
	StatusDelivered         Status = "delivered"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	StatusRefundRequested   Status = "refund_requested"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

var statusTransitions = map[Status][]Status{
	StatusPending:         {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusReadyToShip, StatusOnHold, StatusCancelled},
	StatusReadyToShip:     {StatusShipped},
	StatusOnHold:          {StatusShipped},
	StatusShipped:         {StatusOutForDelivery},
	StatusOutForDelivery:  {StatusDelivered},
	StatusDelivered:       {StatusCompleted},
	StatusRefundRequested: {StatusRefunded, StatusPartiallyRefunded},
}

// CanTransitionTo reports whether the order status may move to next. A refund
// request is reachable from any state.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusRefundRequested {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// PaymentStatus is the payment state, cycled by the payment provider.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded, PaymentPartiallyRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod selects how an order is paid. Redirect-based methods come
// back from placement with a PaymentURL the caller must navigate to.
type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodVNPay        PaymentMethod = "vnpay"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodVNPay, PaymentMethodBankTransfer:
		return true
	}
	return false
}
