package messaging

// OrdersPlacedSubject is the JetStream subject order placement events are
// published to and the notifier consumes from.
const OrdersPlacedSubject = "orders.placed"
